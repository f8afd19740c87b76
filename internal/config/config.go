// Package config loads the collector configuration from the environment
// and an optional YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/Sternrassler/rmp-collector/pkg/client"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the collector configuration. Environment variables override
// values from a config file.
type Config struct {
	RMP struct {
		AuthToken   string        `yaml:"auth_token" env:"RMP_AUTH_TOKEN" env-default:"dGVzdDp0ZXN0" env-description:"Basic authorization token"`
		Endpoint    string        `yaml:"endpoint" env:"RMP_ENDPOINT" env-default:"https://www.ratemyprofessors.com/graphql" env-description:"GraphQL endpoint"`
		HTTPTimeout time.Duration `yaml:"http_timeout" env:"RMP_HTTP_TIMEOUT" env-default:"0s" env-description:"Per-request timeout, 0 disables"`
		CacheTTL    time.Duration `yaml:"cache_ttl" env:"RMP_CACHE_TTL" env-default:"0s" env-description:"Redis response cache TTL, 0 disables"`
		MaxPages    int           `yaml:"max_pages" env:"RMP_MAX_PAGES" env-default:"0" env-description:"Department page cap, 0 is unbounded"`
	} `yaml:"rmp"`
	Redis struct {
		URL string `yaml:"url" env:"REDIS_URL" env-description:"Redis URL for caching and rate limit state"`
	} `yaml:"redis"`
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"false" env-description:"Console log output"`
	} `yaml:"log"`
	Pushgateway struct {
		URL string `yaml:"url" env:"PUSHGATEWAY_URL" env-description:"Prometheus Pushgateway for run metrics"`
	} `yaml:"pushgateway"`
}

// Load reads the configuration from path (when non-empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("%w; %s", err, desc)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges the environment parser cannot express.
func (c *Config) Validate() error {
	if c.RMP.AuthToken == "" {
		return fmt.Errorf("RMP_AUTH_TOKEN must not be empty")
	}
	if c.RMP.Endpoint == "" {
		return fmt.Errorf("RMP_ENDPOINT must not be empty")
	}
	if c.RMP.HTTPTimeout < 0 {
		return fmt.Errorf("RMP_HTTP_TIMEOUT must be >= 0 (got %s)", c.RMP.HTTPTimeout)
	}
	if c.RMP.CacheTTL < 0 {
		return fmt.Errorf("RMP_CACHE_TTL must be >= 0 (got %s)", c.RMP.CacheTTL)
	}
	if c.RMP.MaxPages < 0 {
		return fmt.Errorf("RMP_MAX_PAGES must be >= 0 (got %d)", c.RMP.MaxPages)
	}
	return nil
}

// ClientConfig maps the loaded values onto a client configuration. Redis is
// attached by the caller.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.RMP.AuthToken)
	cfg.Endpoint = c.RMP.Endpoint
	cfg.Timeout = c.RMP.HTTPTimeout
	cfg.CacheTTL = c.RMP.CacheTTL
	return cfg
}

// Usage describes every environment variable.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
