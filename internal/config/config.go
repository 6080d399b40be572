package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/yuvi-2309/Foodie-Finder/pkg/config"
)

// Config holds all configuration for the Foodie Finder client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote API
	APIBaseURL string        `env:"FOODIE_API_URL" envDefault:"http://localhost:8000"`
	APITimeout time.Duration `env:"FOODIE_API_TIMEOUT" envDefault:"30s"`

	// Image hosting
	UploadURL    string `env:"FOODIE_UPLOAD_URL" envDefault:"https://api.cloudinary.com/v1_1/demo/image/upload"`
	UploadPreset string `env:"FOODIE_UPLOAD_PRESET" envDefault:"foodie_unsigned"`

	// Client behavior
	NotificationPollInterval time.Duration `env:"FOODIE_NOTIFICATION_POLL_INTERVAL" envDefault:"30s"`
	SearchDebounce           time.Duration `env:"FOODIE_SEARCH_DEBOUNCE" envDefault:"400ms"`

	// Local state
	StatePath string `env:"FOODIE_STATE_PATH"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("invalid API base URL: %q", cfg.APIBaseURL)
	}
	if cfg.NotificationPollInterval < time.Second {
		return nil, fmt.Errorf("notification poll interval too small: %s", cfg.NotificationPollInterval)
	}
	if cfg.SearchDebounce <= 0 {
		return nil, fmt.Errorf("search debounce must be positive: %s", cfg.SearchDebounce)
	}
	return cfg, nil
}
