// Package db holds the goose SQL migrations of the PostgreSQL schema.
package db

import "embed"

// MigrationsDir is the directory of the migrations inside Migrations.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
