package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
)

const (
	StorageDriverFile   = "file"
	StorageDriverMongo  = "mongo"
	StorageDriverMemory = "memory"
)

// WebConsoleConfig holds the web console configuration read from the environment.
type WebConsoleConfig struct {
	Addr     string `env:"CONSOLE_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL"    envDefault:"info"`

	// APIBaseURL prefixes every backend request. Ignored when APIConsulService is set,
	// in which case only the path of APIBaseURL is kept.
	APIBaseURL       string `env:"API_BASE_URL"       envDefault:"http://localhost:8081/interceptor"`
	APIConsulService string `env:"API_CONSUL_SERVICE"`
	ConsulAddr       string `env:"CONSUL_ADDR"`

	Storage StorageConfig `envPrefix:"STORAGE_"`
	Mongo   MongoConfig   `envPrefix:"MONGO_"`
}

// StorageConfig selects where the session tokens are persisted.
type StorageConfig struct {
	Driver string `env:"DRIVER" envDefault:"file"`
	// Path of the token file for the file driver; defaults to ~/.money-tracker/console-storage.json.
	Path string `env:"PATH"`
}

type MongoConfig struct {
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"money_tracker_console"`
}

// NewWebConsoleConfig parses the configuration from the process environment.
func NewWebConsoleConfig() (*WebConsoleConfig, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*WebConsoleConfig, error) {
	cfg, err := env.ParseAsWithOptions[WebConsoleConfig](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.Storage.Driver == StorageDriverFile && cfg.Storage.Path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("error locating user's home directory: %w", err)
		}
		cfg.Storage.Path = filepath.Join(home, ".money-tracker", "console-storage.json")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks if the web console configuration is valid.
func (c *WebConsoleConfig) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("missing CONSOLE_ADDR environment variable")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("missing API_BASE_URL environment variable")
	}

	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverMemory:
	case StorageDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("missing MONGO_URI environment variable")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}
