package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository(entity.ModePixel)
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository(entity.ModePixel)
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_SetModeKeepsState(t *testing.T) {
	repo := storage.NewMemoryUserRepository(entity.ModePixel)
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.BeginCheck(ctx, 3, 30)
	require.NoError(t, err)

	user, err := svc.SetMode(ctx, 3, 30, entity.ModeBanana)
	require.NoError(t, err)
	require.Equal(t, entity.ModeBanana, user.Mode)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.ModeBanana, user.Mode)
}
