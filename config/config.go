package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"8080"`

		// Origins allowed by CORS; "*" allows any
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

		// Release mode silences gin's debug output
		GinMode string `env:"GIN_MODE" envDefault:"release"`
	}

	RTMS struct {
		BaseURL string `env:"RTMS_BASE_URL" envDefault:"https://apis.data.go.kr/1613000"`

		// Used when a request carries no X-Service-Key header
		ServiceKey string `env:"RTMS_SERVICE_KEY"`

		Timeout   time.Duration `env:"RTMS_TIMEOUT" envDefault:"30s"`
		PageSize  int           `env:"RTMS_PAGE_SIZE" envDefault:"1000"`
		UserAgent string        `env:"RTMS_USER_AGENT" envDefault:"aptdeals/1.0"`
	}

	Storage struct {
		// SQLite file holding the imported district table. When empty, DistrictFile is read directly.
		DatabasePath string `env:"DATABASE_PATH" envDefault:"data/aptdeals.db"`

		DistrictFile    string `env:"DISTRICT_FILE" envDefault:"data/district_codes.txt"`
		PreferencesPath string `env:"PREFERENCES_PATH" envDefault:"data/user_prefs.json"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
