package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"bookstore/internal/config"
)

func TestMigrationsDir(t *testing.T) {
	t.Run("embedded by default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		dir, embedded := migrationsDir()
		assert.True(t, embedded)
		assert.Equal(t, "migrations", dir)
		assert.Equal(t, diskMigrationsDir, createDir())
	})

	t.Run("env override reads from disk", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/custom/migrations")
		dir, embedded := migrationsDir()
		assert.False(t, embedded)
		assert.Equal(t, "/custom/migrations", dir)
		assert.Equal(t, "/custom/migrations", createDir())
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("BOOKSTORE_STORAGE_DSN", "")
	assert.Equal(t, config.Default().Storage.DSN, databaseDSN())

	t.Setenv("BOOKSTORE_STORAGE_DSN", "postgres://u:p@db:5432/books")
	assert.Equal(t, "postgres://u:p@db:5432/books", databaseDSN())
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(tmp+"/.env", []byte("BOOKSTORE_STORAGE_DSN=from_file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("BOOKSTORE_STORAGE_DSN", "from_env")
	t.Chdir(tmp)

	config.LoadEnvFiles()

	assert.Equal(t, "from_env", databaseDSN())
}

func TestRun_RejectsBadCommands(t *testing.T) {
	assert.ErrorIs(t, run("create", "", zap.NewNop()), errNameRequired)
}
