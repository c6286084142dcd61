package config

import (
	"log/slog"
	"os"
	"time"
)

// Config holds all client configuration loaded from environment variables.
type Config struct {
	APIURL              string
	RequestTimeout      time.Duration
	StatePath           string
	DatabaseURL         string
	WalletPollInterval  time.Duration
	EmailCheckDelay     time.Duration
	CartAddonPolicy     string
	CartQuantityPolicy  string
	SheetsSpreadsheetID string
	SheetsCredentials   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		APIURL:              envOrDefault("G7_API_URL", "http://localhost:8080/api"),
		RequestTimeout:      envOrDefaultDuration("G7_REQUEST_TIMEOUT", 15*time.Second),
		StatePath:           envOrDefault("G7_STATE_PATH", "g7client.db"),
		DatabaseURL:         envOrDefault("DATABASE_URL", ""),
		WalletPollInterval:  envOrDefaultDuration("G7_WALLET_POLL_INTERVAL", 30*time.Second),
		EmailCheckDelay:     envOrDefaultDuration("G7_EMAIL_CHECK_DELAY", 500*time.Millisecond),
		CartAddonPolicy:     envOrDefaultOneOf("G7_CART_ADDON_POLICY", "excluded", "excluded", "per-line", "per-unit"),
		CartQuantityPolicy:  envOrDefaultOneOf("G7_CART_QUANTITY_POLICY", "reject", "reject", "remove", "raw"),
		SheetsSpreadsheetID: envOrDefault("G7_SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentials:   envOrDefault("G7_SHEETS_CREDENTIALS", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultOneOf(key, defaultVal string, allowed ...string) string {
	v := envOrDefault(key, defaultVal)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	slog.Warn("unsupported env var value, using default", "key", key, "value", v, "default", defaultVal)
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
