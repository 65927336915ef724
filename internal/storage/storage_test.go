package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/session"
	"bookstore/internal/user"
)

func TestOpen_Bolt(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverBolt
	cfg.Storage.BoltPath = filepath.Join(t.TempDir(), "bookstore.db")

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &book.BoltRepo{}, s.Books)
	assert.IsType(t, &user.BoltRepo{}, s.Users)
	assert.IsType(t, &session.BoltRepo{}, s.Revocations)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "sqlite"

	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestOpen_UnreachableRedisReleasesBolt(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverBolt
	cfg.Storage.BoltPath = filepath.Join(t.TempDir(), "bookstore.db")
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := Open(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)

	// The bolt file lock must have been released.
	cfg.Redis.Addr = ""
	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	s.Close()
}
