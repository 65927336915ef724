package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/storage"
	"bookstore/internal/user"
)

func TestRun_SeedsBolt(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverBolt
	cfg.Storage.BoltPath = filepath.Join(t.TempDir(), "seed.db")

	opts := options{users: []string{"alice", "bob"}, staff: []string{"admin"}, password: "Bookstore1!", count: 5}
	ctx := context.Background()

	require.NoError(t, run(ctx, cfg, opts, zap.NewNop()))
	// Users already exist on the second run.
	require.NoError(t, run(ctx, cfg, opts, zap.NewNop()))

	store, err := storage.Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	books, err := book.NewService(store.Books).List(ctx, book.Actor{}, book.Query{})
	require.NoError(t, err)
	assert.Len(t, books, 2*(len(catalog())+5))

	admin, err := user.NewService(store.Users).GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)
}

func TestRun_RequiresOwner(t *testing.T) {
	err := run(context.Background(), config.Default(), options{}, zap.NewNop())
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}

func TestGenerate(t *testing.T) {
	for _, in := range generate(50) {
		assert.True(t, in.Price.Valid(), in.Price.String())
		assert.NotEmpty(t, in.Name)
	}
}
