package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/goalkeeper/internal/server/config"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatReq struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type openAIChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient summarizes goals with the OpenAI chat-completions API.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIClient constructs a client from server config. An empty API key is
// allowed at construction time; Summarize reports it as a failure so the
// error text ends up in the goal's summary field instead.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	return &OpenAIClient{
		baseURL: strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Summarize asks the model for a one-paragraph summary of the goal, returned
// as a JSON object {"summary": string}.
func (c *OpenAIClient) Summarize(ctx context.Context, title, content string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("OPENAI_API_KEY is not set")
	}

	prompt := fmt.Sprintf("Take in the following goal and return a summary: Title: %s, Goal content: %s", title, content)

	body := openAIChatReq{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: "You are a helpful assistant designed to output JSON in this format: {summary: string}"},
			{Role: "user", Content: prompt},
		},
	}
	body.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("upstream error: %w", err)
	}
	defer resp.Body.Close()

	slurp, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, strings.TrimSpace(string(slurp)))
	}

	var ai openAIChatResp
	if err := json.Unmarshal(slurp, &ai); err != nil {
		return "", fmt.Errorf("bad openai response: %w", err)
	}
	if len(ai.Choices) == 0 {
		return "", errors.New("no choices from openai")
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(ai.Choices[0].Message.Content), &parsed); err != nil {
		return "", fmt.Errorf("bad summary payload: %w", err)
	}
	if strings.TrimSpace(parsed.Summary) == "" {
		return "", errors.New("empty summary from openai")
	}

	return parsed.Summary, nil
}
