package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10, ModePixel)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, ModePixel, u.Mode)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
}

func TestUser_SetMode(t *testing.T) {
	u := NewUser(1, 10, ModePixel)
	u.SetMode(ModeBanana)
	require.Equal(t, ModeBanana, u.Mode)
}
