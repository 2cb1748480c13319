package config

import (
	"flag"
	"os"
	"strings"
)

type Config struct {
	RunAddress  string
	DatabaseURI string
}

func New() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8001", "server address and port")
	flag.StringVar(&cfg.DatabaseURI, "d", "bistro.db", "database URI (SQLite path or postgres:// DSN)")
	flag.Parse()

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.DatabaseURI = getEnv("DATABASE_URI", cfg.DatabaseURI)

	return cfg
}

// UsePostgres reports whether the database URI points at Postgres; anything
// else is treated as a SQLite file path.
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURI, "postgres://") ||
		strings.HasPrefix(c.DatabaseURI, "postgresql://")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
