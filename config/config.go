package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

// DefaultMaxSide предел большей стороны изображения перед анализом
const DefaultMaxSide = 1024

type Config struct {
	TelegramToken string

	LogLevel  string
	LogFormat string

	Mode    entity.Mode
	Workers int
	MaxSide int // 0 значит без уменьшения, по умолчанию DefaultMaxSide

	Params entity.Params
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv читает настройки из переменных окружения без .env
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:      envString("BANANA_LOG_LEVEL", "info"),
		LogFormat:     envString("BANANA_LOG_FORMAT", "console"),
		MaxSide:       DefaultMaxSide,
		Params:        entity.DefaultParams(),
	}

	mode, err := entity.ParseMode(envString("BANANA_MODE", string(entity.ModePixel)))
	if err != nil {
		return nil, fmt.Errorf("BANANA_MODE: %w", err)
	}
	cfg.Mode = mode

	p := &cfg.Params
	fields := []struct {
		key   string
		apply func(string) error
	}{
		{"BANANA_WORKERS", intField(&cfg.Workers)},
		{"BANANA_MAX_SIDE", intField(&cfg.MaxSide)},
		{"BANANA_GREEN_RANGE", rangeField(&p.Green)},
		{"BANANA_YELLOW_RANGE", rangeField(&p.Yellow)},
		{"BANANA_SPOT_RANGE", rangeField(&p.Spot)},
		{"BANANA_MIN_CONTOUR_AREA", floatField(&p.MinContourArea)},
		{"BANANA_MIN_BANANA_AREA", floatField(&p.MinBananaArea)},
		{"BANANA_MIN_DISTANCE", float32Field(&p.MinDistance)},
		{"BANANA_MAXIMA_KERNEL", intField(&p.LocalMaximaKernel)},
		{"BANANA_INTERIOR_EROSION", intField(&p.BananaInteriorErosion)},
		{"BANANA_MIN_SPOT_PIXELS", intField(&p.MinSpotPixels)},
		{"BANANA_SPOT_THRESHOLD", floatField(&p.SpotThreshold)},
		{"BANANA_CANNY_LOW", float32Field(&p.CannyLow)},
		{"BANANA_CANNY_HIGH", float32Field(&p.CannyHigh)},
	}
	for _, f := range fields {
		v, ok := os.LookupEnv(f.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := f.apply(strings.TrimSpace(v)); err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.MaxSide < 0 {
		return nil, fmt.Errorf("BANANA_MAX_SIDE: must not be negative, got %d", cfg.MaxSide)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intField(dst *int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func floatField(dst *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func float32Field(dst *float32) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*dst = float32(v)
		return nil
	}
}

func rangeField(dst *entity.HSVRange) func(string) error {
	return func(s string) error {
		r, err := entity.ParseHSVRange(s)
		if err != nil {
			return err
		}
		*dst = r
		return nil
	}
}
