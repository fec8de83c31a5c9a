package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration read from the environment.
type Config struct {
	DatabaseURL   string        `env:"MAFIA_DATABASE_URL"   envDefault:"sqlite://mafia.db"`
	MigrationsDir string        `env:"MAFIA_MIGRATIONS_DIR" envDefault:"./migrations"`
	APIPort       int           `env:"MAFIA_API_PORT"       envDefault:"9090"`
	WSPort        int           `env:"MAFIA_WS_PORT"        envDefault:"9091"`
	LogLevel      string        `env:"MAFIA_LOG_LEVEL"      envDefault:"info"`
	LoopInterval  time.Duration `env:"MAFIA_LOOP_INTERVAL"  envDefault:"50ms"`
	SaveInterval  time.Duration `env:"MAFIA_SAVE_INTERVAL"  envDefault:"10s"`
	// ForcedTieBreak picks a random leader among tied targets instead of blocking
	ForcedTieBreak bool `env:"MAFIA_FORCED_TIEBREAK" envDefault:"false"`
	// Seed drives role shuffling and tie breaks. Zero seeds from the clock.
	Seed int64 `env:"MAFIA_SEED" envDefault:"0"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LoopInterval <= 0 {
		return fmt.Errorf("MAFIA_LOOP_INTERVAL must be positive, got %s", c.LoopInterval)
	}
	if c.SaveInterval <= 0 {
		return fmt.Errorf("MAFIA_SAVE_INTERVAL must be positive, got %s", c.SaveInterval)
	}
	if _, _, err := c.Database(); err != nil {
		return err
	}
	return nil
}

// Database splits DatabaseURL into its scheme and the driver-specific location.
// Postgres URLs are returned whole since pgx parses them itself.
func (c *Config) Database() (scheme string, location string, err error) {
	scheme, rest, ok := strings.Cut(c.DatabaseURL, "://")
	if !ok {
		return "", "", fmt.Errorf("MAFIA_DATABASE_URL must look like scheme://location, got %q", c.DatabaseURL)
	}
	switch scheme {
	case "sqlite":
		if rest == "" {
			return "", "", fmt.Errorf("MAFIA_DATABASE_URL is missing the sqlite path")
		}
		return scheme, rest, nil
	case "postgres", "postgresql":
		return "postgresql", c.DatabaseURL, nil
	case "memory":
		return scheme, "", nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}
