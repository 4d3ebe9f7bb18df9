package config

import (
	"os"
	"strconv"
	"time"
)

func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envInt64(key string, target *int64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = n
		}
	}
}

func envDuration(key string, target *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

// parseEnv overlays configuration values from environment variables.
// Malformed numeric/duration values are ignored in favour of the current
// value rather than failing startup.
func parseEnv(config *Config) {
	envString("ADDRESS", &config.EndpointAddr)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("ACCESS_TOKEN_VALIDITY", &config.AccessTokenValidityDuration)
	envDuration("REFRESH_TOKEN_VALIDITY", &config.RefreshTokenValidityDuration)
	envString("CORS_ORIGIN", &config.CORSOrigin)
	envInt64("INITIAL_BUDGET", &config.InitialBudget)
	envInt64("BUDGET_TOPUP_AMOUNT", &config.BudgetTopUpAmount)
	envInt64("BUDGET_TOPUP_THRESHOLD", &config.BudgetTopUpThreshold)
	envString("OPENAI_API_KEY", &config.OpenAIAPIKey)
	envString("OPENAI_BASE_URL", &config.OpenAIBaseURL)
	envString("OPENAI_MODEL", &config.OpenAIModel)

	if v := os.Getenv("SUMMARY_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.SummaryQueueSize = n
		}
	}
}
