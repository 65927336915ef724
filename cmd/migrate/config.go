package main

import (
	"os"

	"bookstore/internal/config"
)

const diskMigrationsDir = "db/migrations"

// databaseDSN returns the PostgreSQL DSN shared with the API server.
func databaseDSN() string {
	if v := os.Getenv(config.EnvPrefix + "_STORAGE_DSN"); v != "" {
		return v
	}
	return config.Default().Storage.DSN
}

// migrationsDir reports where migrations are read from. Without an override
// the migrations embedded in the binary are used.
func migrationsDir() (dir string, embedded bool) {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v, false
	}
	return "migrations", true
}

// createDir is where new migration files are written.
func createDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return diskMigrationsDir
}
