// Package config builds runtime configuration from the environment.
package config

import "os"

// Config captures server and storage configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the SQLite database file used by default.
	DBPath string

	// DatabaseURL, when set, moves state to PostgreSQL instead of the
	// local SQLite file.
	DatabaseURL string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/upitrack.db"
	}
	return Config{
		Addr:        addr,
		DBPath:      dbPath,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}
