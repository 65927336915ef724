package user

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/platform/crypto"
)

func TestService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "alice").Return(User{}, ErrNotFound)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			assert.True(t, crypto.VerifyPassword(u.Password, "Secret1!"))
			assert.False(t, u.IsStaff)
			u.ID = "u1"
			return nil
		})

		u, err := service.Register(ctx, NewUser{Username: "alice", Password: "Secret1!"})
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("duplicate", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "alice").Return(User{ID: "u1"}, nil)

		_, err := service.Register(ctx, NewUser{Username: "alice", Password: "Secret1!"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("lookup failure", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "bob").Return(User{}, errors.New("boom"))

		_, err := service.Register(ctx, NewUser{Username: "bob", Password: "Secret1!"})
		assert.EqualError(t, err, "boom")
	})

	t.Run("no password", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "github:carol").Return(User{}, ErrNotFound)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			assert.Empty(t, u.Password)
			return nil
		})

		_, err := service.Register(ctx, NewUser{Username: "github:carol"})
		require.NoError(t, err)
	})
}

func TestService_FindOrCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "github:dave").Return(User{ID: "u9"}, nil)

		u, err := service.FindOrCreate(ctx, "github:dave", "")
		require.NoError(t, err)
		assert.Equal(t, "u9", u.ID)
	})

	t.Run("created", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsername(gomock.Any(), "github:erin").Return(User{}, ErrNotFound).Times(2)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			assert.Equal(t, "erin@example.com", u.Email)
			u.ID = "u10"
			return nil
		})

		u, err := service.FindOrCreate(ctx, "github:erin", "erin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u10", u.ID)
	})

	t.Run("concurrent first login", func(t *testing.T) {
		gomock.InOrder(
			mockRepo.EXPECT().GetByUsername(gomock.Any(), "github:finn").Return(User{}, ErrNotFound).Times(2),
			mockRepo.EXPECT().GetByUsername(gomock.Any(), "github:finn").Return(User{ID: "u11"}, nil),
		)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrAlreadyExists)

		u, err := service.FindOrCreate(ctx, "github:finn", "")
		require.NoError(t, err)
		assert.Equal(t, "u11", u.ID)
	})
}

func TestService_IsStaff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.EXPECT().GetByID(gomock.Any(), "admin").Return(User{ID: "admin", IsStaff: true}, nil)
	staff, err := service.IsStaff(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, staff)

	mockRepo.EXPECT().GetByID(gomock.Any(), "gone").Return(User{}, ErrNotFound)
	staff, err = service.IsStaff(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, staff)

	mockRepo.EXPECT().GetByID(gomock.Any(), "u1").Return(User{}, errors.New("boom"))
	_, err = service.IsStaff(ctx, "u1")
	assert.EqualError(t, err, "boom")
}
