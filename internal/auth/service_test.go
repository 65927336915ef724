package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore/internal/platform/crypto"
	"bookstore/internal/session"
	"bookstore/internal/testutil"
	"bookstore/internal/user"
)

type fixture struct {
	service  *Service
	users    *user.MockRepository
	sessions *session.MockStore
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	users := user.NewMockRepository(ctrl)
	sessions := session.NewMockStore(ctrl)
	service := NewService(testutil.Secret, time.Hour,
		user.NewService(users), session.NewService(sessions, zap.NewNop()))
	return fixture{service: service, users: users, sessions: sessions}
}

func TestService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hash, err := crypto.HashPassword("Secret1!")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user.User{ID: "u1", Password: hash, IsStaff: true}, nil)

		token, err := f.service.Login(ctx, "alice", "Secret1!")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.Equal(t, 3600, token.ExpiresIn)

		claims, err := crypto.ParseToken(testutil.Secret, token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Sub)
		assert.True(t, claims.Staff)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user.User{ID: "u1", Password: hash}, nil)

		_, err := f.service.Login(ctx, "alice", "nope")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		f.users.EXPECT().GetByUsername(gomock.Any(), "mallory").Return(user.User{}, user.ErrNotFound)

		_, err := f.service.Login(ctx, "mallory", "Secret1!")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("account without password", func(t *testing.T) {
		f.users.EXPECT().GetByUsername(gomock.Any(), "github:octo").Return(user.User{ID: "u2"}, nil)

		_, err := f.service.Login(ctx, "github:octo", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, jti, err := crypto.GenerateToken(testutil.Secret, "u1", false, time.Hour)
	require.NoError(t, err)
	claims, err := crypto.ParseToken(testutil.Secret, token)
	require.NoError(t, err)

	f.sessions.EXPECT().Revoke(gomock.Any(), jti, "u1", claims.ExpiresAt.Time).Return(nil)
	require.NoError(t, f.service.Logout(ctx, claims))

	assert.ErrorIs(t, f.service.Logout(ctx, nil), ErrUnauthorized)
}
