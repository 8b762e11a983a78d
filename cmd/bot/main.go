package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/nathaniel-sheetz/BananaVision/config"
	telegram "github.com/nathaniel-sheetz/BananaVision/internal/api"
	"github.com/nathaniel-sheetz/BananaVision/internal/container"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/imagefile"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/logging"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/report"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/storage"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/vision"
)

func main() {
	fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to set up logging")
	}

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository(cfg.Mode)

	// Собираем сервисы приложения
	appContainer := container.New(
		userRepo,
		vision.NewGoCVAnalyzer(cfg.Params),
		report.NewTextDescriber(),
		imagefile.NewSource(cfg.MaxSide),
		log,
	)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.RipenessService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("mode", string(cfg.Mode)).Msg("bot is running")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot error")
	}
	log.Info().Msg("bot stopped")
}
