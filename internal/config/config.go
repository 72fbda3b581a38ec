// Package config reads the lesson settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/on-the-ground/effect_ive_store/effects/configkeys"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	PostsURL           string        `env:"POSTS_URL"            envDefault:"https://jsonplaceholder.typicode.com/posts"`
	PostsTimeout       time.Duration `env:"POSTS_TIMEOUT"        envDefault:"10s"`
	PostsRetryMax      uint          `env:"POSTS_RETRY_MAX"      envDefault:"0"`
	PostsRetryInterval time.Duration `env:"POSTS_RETRY_INTERVAL" envDefault:"200ms"`
	// PostsCacheTTL of zero disables the response cache.
	PostsCacheTTL time.Duration `env:"POSTS_CACHE_TTL" envDefault:"0s"`

	StoreBufferSize             int    `env:"STORE_BUFFER_SIZE"              envDefault:"16"`
	EffectLogBufferSize         int    `env:"EFFECT_LOG_BUFFER_SIZE"         envDefault:"10"`
	EffectConcurrencyBufferSize int    `env:"EFFECT_CONCURRENCY_BUFFER_SIZE" envDefault:"10"`
	LogLevel                    string `env:"LOG_LEVEL"                      envDefault:"info"`
}

var ErrInvalid = errors.New("invalid config")

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom reads the configuration from vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.PostsURL == "" {
		return fmt.Errorf("%w: POSTS_URL is empty", ErrInvalid)
	}
	if c.PostsTimeout <= 0 {
		return fmt.Errorf("%w: POSTS_TIMEOUT must be positive, got %s", ErrInvalid, c.PostsTimeout)
	}
	if c.PostsCacheTTL < 0 {
		return fmt.Errorf("%w: POSTS_CACHE_TTL must not be negative", ErrInvalid)
	}
	for name, n := range map[string]int{
		"STORE_BUFFER_SIZE":              c.StoreBufferSize,
		"EFFECT_LOG_BUFFER_SIZE":         c.EffectLogBufferSize,
		"EFFECT_CONCURRENCY_BUFFER_SIZE": c.EffectConcurrencyBufferSize,
	} {
		if n <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, name, n)
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalid, err)
	}
	return nil
}

// Bindings exposes the settings read through the binding effect.
func (c Config) Bindings() map[string]any {
	return map[string]any{
		configkeys.ConfigPostsURL:                    c.PostsURL,
		configkeys.ConfigPostsTimeout:                c.PostsTimeout,
		configkeys.ConfigPostsRetryMax:               c.PostsRetryMax,
		configkeys.ConfigPostsRetryInterval:          c.PostsRetryInterval,
		configkeys.ConfigPostsCacheTTL:               c.PostsCacheTTL,
		configkeys.ConfigStoreBufferSize:             c.StoreBufferSize,
		configkeys.ConfigEffectLogBufferSize:         c.EffectLogBufferSize,
		configkeys.ConfigEffectConcurrencyBufferSize: c.EffectConcurrencyBufferSize,
	}
}
