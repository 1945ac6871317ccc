// Package config loads process configuration once at startup. Nothing
// else in the codebase reads environment variables directly; the loaded
// struct is passed into constructors.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the immutable process configuration.
type Config struct {
	Addr          string   // listen address, e.g. ":4000"
	DatabaseURL   string   // postgres connection string; empty selects the in-memory store
	JWTSecret     string   // HMAC secret for bearer tokens
	KafkaBrokers  []string // empty disables event publishing
	AllowedOrigin string   // CORS origin for the frontend
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Addr:          ":" + envOr("PORT", "4000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AllowedOrigin: envOr("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
