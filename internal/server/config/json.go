package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/goalkeeper/internal/flagx"
	"github.com/dmitrijs2005/goalkeeper/internal/timex"
)

// JsonConfig is the file-shaped mirror of Config. It uses timex.Duration for
// interval fields so JSON may express them as strings ("15m") or integer
// nanoseconds. Zero values are treated as "not set" and leave the target
// Config untouched.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CORSOrigin                   string         `json:"cors_origin"`
	InitialBudget                *int64         `json:"initial_budget"`
	BudgetTopUpAmount            *int64         `json:"budget_topup_amount"`
	BudgetTopUpThreshold         *int64         `json:"budget_topup_threshold"`
	OpenAIAPIKey                 string         `json:"openai_api_key"`
	OpenAIBaseURL                string         `json:"openai_base_url"`
	OpenAIModel                  string         `json:"openai_model"`
	SummaryQueueSize             int            `json:"summary_queue_size"`
}

// parseJson overlays configuration values from the JSON file named by the
// -c/-config flags, if any. An unreadable or malformed file panics: a config
// file that was asked for but cannot be used is a startup error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.CORSOrigin != "" {
		config.CORSOrigin = c.CORSOrigin
	}
	if c.InitialBudget != nil {
		config.InitialBudget = *c.InitialBudget
	}
	if c.BudgetTopUpAmount != nil {
		config.BudgetTopUpAmount = *c.BudgetTopUpAmount
	}
	if c.BudgetTopUpThreshold != nil {
		config.BudgetTopUpThreshold = *c.BudgetTopUpThreshold
	}
	if c.OpenAIAPIKey != "" {
		config.OpenAIAPIKey = c.OpenAIAPIKey
	}
	if c.OpenAIBaseURL != "" {
		config.OpenAIBaseURL = c.OpenAIBaseURL
	}
	if c.OpenAIModel != "" {
		config.OpenAIModel = c.OpenAIModel
	}
	if c.SummaryQueueSize != 0 {
		config.SummaryQueueSize = c.SummaryQueueSize
	}
}
