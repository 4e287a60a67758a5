// Package config loads runtime settings from the environment, with an
// optional .env overlay for local development.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings for the API server.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	JWTSecret string `envconfig:"JWT_SECRET" default:"supersecret"`
	// LatencyScale multiplies the store's simulated latencies.
	// 1 reproduces the mock backend's delays; 0 disables them.
	LatencyScale float64 `envconfig:"LATENCY_SCALE" default:"1"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load() // missing .env is fine
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
