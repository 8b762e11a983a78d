package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("BANANA_MODE", "")
	t.Setenv("BANANA_WORKERS", "")
	t.Setenv("BANANA_MAX_SIDE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "token", cfg.TelegramToken)
	require.Equal(t, entity.ModePixel, cfg.Mode)
	require.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.Equal(t, DefaultMaxSide, cfg.MaxSide)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, entity.DefaultParams(), cfg.Params)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BANANA_MODE", "Banana")
	t.Setenv("BANANA_WORKERS", "3")
	t.Setenv("BANANA_MAX_SIDE", "0")
	t.Setenv("BANANA_LOG_FORMAT", "json")
	t.Setenv("BANANA_SPOT_RANGE", "4,20,20-29,255,190")
	t.Setenv("BANANA_MIN_BANANA_AREA", "1500.5")
	t.Setenv("BANANA_SPOT_THRESHOLD", "0.1")
	t.Setenv("BANANA_CANNY_HIGH", "300")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, entity.ModeBanana, cfg.Mode)
	require.Equal(t, 3, cfg.Workers)
	require.Zero(t, cfg.MaxSide)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, entity.HSV{H: 4, S: 20, V: 20}, cfg.Params.Spot.Low)
	require.Equal(t, 1500.5, cfg.Params.MinBananaArea)
	require.Equal(t, 0.1, cfg.Params.SpotThreshold)
	require.Equal(t, float32(300), cfg.Params.CannyHigh)
	require.Equal(t, entity.DefaultParams().Green, cfg.Params.Green)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"BANANA_MODE":            "video",
		"BANANA_WORKERS":         "many",
		"BANANA_MAX_SIDE":        "-1",
		"BANANA_GREEN_RANGE":     "65,80,80-32,255,255",
		"BANANA_SPOT_THRESHOLD":  "2",
		"BANANA_MAXIMA_KERNEL":   "0",
		"BANANA_MIN_SPOT_PIXELS": "x",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			require.Error(t, err)
			require.Contains(t, err.Error(), keyOrParams(key))
		})
	}
}

// keyOrParams ошибки Validate не содержат имени переменной
func keyOrParams(key string) string {
	switch key {
	case "BANANA_SPOT_THRESHOLD", "BANANA_MAXIMA_KERNEL":
		return entity.ErrInvalidParams.Error()
	default:
		return key
	}
}
