package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// AuthServiceConfig holds the auth service configuration read from the environment.
type AuthServiceConfig struct {
	Addr     string `env:"AUTH_ADDR"      envDefault:":8081"`
	BasePath string `env:"AUTH_BASE_PATH" envDefault:"/interceptor"`
	LogLevel string `env:"LOG_LEVEL"      envDefault:"info"`

	// Users and sessions are kept in memory when MongoURI is empty.
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"money_tracker_auth"`

	Token TokenConfig `envPrefix:"TOKEN_"`
}

type TokenConfig struct {
	Issuer                string        `env:"ISSUER"                   envDefault:"money-tracker"`
	AccessTokenSecret     string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret    string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTokenExpiresIn  time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN"  envDefault:"15m"`
	RefreshTokenExpiresIn time.Duration `env:"REFRESH_TOKEN_EXPIRES_IN" envDefault:"168h"`
}

// NewAuthServiceConfig parses the configuration from the process environment.
func NewAuthServiceConfig() (*AuthServiceConfig, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*AuthServiceConfig, error) {
	cfg, err := env.ParseAsWithOptions[AuthServiceConfig](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks if the auth service configuration is valid.
func (c *AuthServiceConfig) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("missing AUTH_ADDR environment variable")
	}
	if c.Token.AccessTokenSecret == "" {
		return fmt.Errorf("missing TOKEN_ACCESS_TOKEN_SECRET environment variable")
	}
	if c.Token.RefreshTokenSecret == "" {
		return fmt.Errorf("missing TOKEN_REFRESH_TOKEN_SECRET environment variable")
	}
	if c.Token.AccessTokenExpiresIn <= 0 {
		return fmt.Errorf("TOKEN_ACCESS_TOKEN_EXPIRES_IN must be positive")
	}
	if c.Token.RefreshTokenExpiresIn <= 0 {
		return fmt.Errorf("TOKEN_REFRESH_TOKEN_EXPIRES_IN must be positive")
	}

	return nil
}
