package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestService_Revoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockStore(ctrl)
	service := NewService(store, zap.NewNop())
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	store.EXPECT().Revoke(gomock.Any(), "jti-1", "u1", exp).Return(nil)
	require.NoError(t, service.Revoke(ctx, "jti-1", "u1", exp))

	// already expired: nothing to store
	require.NoError(t, service.Revoke(ctx, "jti-2", "u1", time.Now().Add(-time.Minute)))
}

func TestService_IsRevoked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockStore(ctrl)
	service := NewService(store, zap.NewNop())
	ctx := context.Background()

	store.EXPECT().IsRevoked(gomock.Any(), "jti-1").Return(true, nil)
	revoked, err := service.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = service.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestService_RunCleanup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockStore(ctrl)
	core, logs := observer.New(zap.WarnLevel)
	service := NewService(store, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 2)
	store.EXPECT().CleanupExpired(gomock.Any()).DoAndReturn(func(context.Context) error {
		select {
		case calls <- struct{}{}:
		default:
		}
		return errors.New("db down")
	}).MinTimes(2)

	done := make(chan error)
	go func() { done <- service.RunCleanup(ctx, 5*time.Millisecond) }()

	// The second call starts only after the first failure was logged.
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("cleanup was not called")
		}
	}
	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, logs.FilterMessage("revoked token cleanup failed").Len(), 1)
}
