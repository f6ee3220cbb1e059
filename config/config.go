// Package config holds the settings shared by the gateway commands.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const envPrefix = "GQLGATE"

// EnvListen is the variable that sets Config.Listen.
const EnvListen = envPrefix + "_LISTEN"

// Store kinds accepted by Config.Store.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Listen      string `default:":4000"`
	Path        string `default:"/graphql"`
	Playground  bool   `default:"true"`
	LogLevel    string `split_words:"true" default:"info"`
	LogFormat   string `split_words:"true" default:"text"`
	Tracing     bool   `default:"false"`
	ServiceName string `split_words:"true" default:"gqlgate"`

	// MaxParallelism bounds concurrent field resolution per request.
	MaxParallelism int `split_words:"true" default:"10"`
	// RateLimit caps operations per second across all clients; 0 disables it.
	RateLimit float64 `split_words:"true"`
	RateBurst int     `split_words:"true" default:"20"`

	Store    string `default:"mongo"`
	MongoURL string `envconfig:"MONGODB_URL" default:"mongodb://localhost:27017"`
	Database string `default:"gqlgate"`

	UpstreamURL     string        `envconfig:"UPSTREAM_URL" default:"http://localhost:3000"`
	UpstreamTimeout time.Duration `split_words:"true"`

	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// Load fills a Config from GQLGATE_* environment variables, applying
// defaults for anything unset. MONGODB_URL is also honoured unprefixed.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, errors.Wrap(err, "loading config from environment")
	}
	return &c, c.Validate()
}

// Validate reports settings that can never work.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMongo, StoreMemory:
	default:
		return errors.Errorf("unknown store %q, want %q or %q", c.Store, StoreMongo, StoreMemory)
	}
	if c.Path == "" || c.Path[0] != '/' {
		return errors.Errorf("graphql path %q must start with /", c.Path)
	}
	if c.MaxParallelism < 1 {
		return errors.Errorf("max parallelism must be positive, got %d", c.MaxParallelism)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	if c.RateLimit < 0 {
		return errors.Errorf("rate limit must not be negative, got %g", c.RateLimit)
	}
	return nil
}
