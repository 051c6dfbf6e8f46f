// Package config loads configuration structs from environment variables,
// with an optional .env file picked up once for local development.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config target must be a non-nil pointer")
	ErrParsingConfig = errors.New("failed to parse config from environment")
)

var loadDotEnv sync.Once

// Load parses environment variables into the tagged struct pointed to by v.
//
//	type Config struct {
//		DatabaseURL string `env:"PG_CONN_URL,required"`
//		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv.Do(func() {
		// Missing .env is fine; production injects real env vars.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration the
// application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
