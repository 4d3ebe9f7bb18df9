// Package api implements the HTTP client for the GoalKeeper server. It keeps
// the token pair in memory and retries a request once with a refreshed access
// token when the server answers 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/goalkeeper/internal/client/config"
	"github.com/dmitrijs2005/goalkeeper/internal/client/models"
	"github.com/dmitrijs2005/goalkeeper/internal/common"
)

// ErrUnavailable marks transport-level failures (server unreachable).
var ErrUnavailable = errors.New("server unavailable")

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// LoggedIn reports whether the client holds a token pair.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

// Logout discards the stored token pair.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = "", ""
}

func (c *Client) setTokens(pair *models.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = pair.AccessToken, pair.RefreshToken
}

func (c *Client) tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

type apiError struct {
	Error string `json:"error"`
}

// do performs one JSON request. On 401 with a refresh token at hand it
// refreshes once and retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, data, err := c.roundTrip(ctx, method, path, body, true)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if _, refresh := c.tokens(); refresh != "" {
			if err := c.Refresh(ctx); err == nil {
				resp, data, err = c.roundTrip(ctx, method, path, body, true)
				if err != nil {
					return err
				}
			}
		}
	}

	if resp.StatusCode/100 != 2 {
		return statusError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("bad server response: %w", err)
		}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, withAuth bool) (*http.Response, []byte, error) {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		if access, _ := c.tokens(); access != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+access)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, data, nil
}

// statusError translates an HTTP error response into a sentinel error where
// a clean mapping exists, keeping the server's message.
func statusError(status int, data []byte) error {
	var ae apiError
	_ = json.Unmarshal(data, &ae)
	msg := ae.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrorUnauthenticated, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrorForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, msg)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", common.ErrorInsufficientBudget, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	default:
		return fmt.Errorf("server error (%d): %s", status, msg)
	}
}

// --- auth ---

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var pair models.TokenPair
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &pair)
	if err != nil {
		return err
	}
	c.setTokens(&pair)
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var pair models.TokenPair
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &pair)
	if err != nil {
		return err
	}
	c.setTokens(&pair)
	return nil
}

// Refresh exchanges the stored refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return common.ErrorUnauthenticated
	}

	resp, data, err := c.roundTrip(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refreshToken": refresh,
	}, false)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		c.Logout()
		return statusError(resp.StatusCode, data)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("bad server response: %w", err)
	}
	c.setTokens(&pair)
	return nil
}

// --- users ---

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, email string) error {
	return c.do(ctx, http.MethodPut, "/api/users/me", map[string]string{
		"name": name, "email": email,
	}, nil)
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	path := "/api/users/search"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) TopUpBudget(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/budget/topup", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- goals ---

type CreateGoalRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Budget     int64      `json:"budget"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	VerifierID *string    `json:"verifierId,omitempty"`
	IsSummary  bool       `json:"isSummary,omitempty"`
}

func (c *Client) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.do(ctx, http.MethodGet, "/api/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) CreateGoal(ctx context.Context, req CreateGoalRequest) (*models.Goal, error) {
	var g models.Goal
	if err := c.do(ctx, http.MethodPost, "/api/goals", req, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/goals/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CompleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/goals/"+url.PathEscape(id)+"/complete", nil, nil)
}

func (c *Client) SetGoalNotAchieved(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/goals/"+url.PathEscape(id)+"/not-achieved", nil, nil)
}

func (c *Client) GoalsToVerify(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.do(ctx, http.MethodGet, "/api/verifier/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) VerifyGoal(ctx context.Context, id, decision string) error {
	return c.do(ctx, http.MethodPost, "/api/goals/"+url.PathEscape(id)+"/verify", map[string]string{
		"decision": decision,
	}, nil)
}

// --- friends ---

func (c *Client) ListFriends(ctx context.Context) ([]models.Friend, error) {
	var friends []models.Friend
	if err := c.do(ctx, http.MethodGet, "/api/friends", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) AddFriendByEmail(ctx context.Context, email string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := c.do(ctx, http.MethodPost, "/api/friends", map[string]string{"friendEmail": email}, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *Client) AcceptFriend(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/"+url.PathEscape(id)+"/accept", nil, nil)
}

func (c *Client) RejectFriend(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/"+url.PathEscape(id)+"/reject", nil, nil)
}

func (c *Client) FriendGoals(ctx context.Context, friendID string) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.do(ctx, http.MethodGet, "/api/friends/"+url.PathEscape(friendID)+"/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) Invite(ctx context.Context, email string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := c.do(ctx, http.MethodPost, "/api/invitations", map[string]string{"email": email}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
