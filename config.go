package auth

import (
	"os"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Config holds the settings the client side needs to reach the
// backend and persist its session.
type Config struct {
	// BaseURL is the booking backend root, e.g. http://localhost:8080.
	BaseURL string
	// HTTPTimeout bounds each backend round-trip.
	HTTPTimeout time.Duration
	// StoreDSN is the SQLite DSN for the persisted session state.
	StoreDSN string
	// Debug enables request payload dumps.
	Debug bool
}

// LoadConfig reads configuration from the environment, loading a .env
// file first when one is present.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeout: defaultHTTPTimeout,
		StoreDSN:    getEnv("SESSION_STORE_DSN", "file:stayfinder_session.db"),
		Debug:       os.Getenv("AUTH_DEBUG") == "true",
	}

	if raw := os.Getenv("AUTH_HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid AUTH_HTTP_TIMEOUT").
				WithMetadata(map[string]any{"value": raw})
		}
		cfg.HTTPTimeout = timeout
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
