package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server binary needs from the environment.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	DSN       string `env:"DB_DSN,required"`
	JWTSecret string `env:"JWT_SECRET,required"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
