package container

import (
	"github.com/rs/zerolog"

	app "github.com/nathaniel-sheetz/BananaVision/internal/application"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

type Container struct {
	UserService     *app.UserService
	RipenessService *app.RipenessService
}

func New(
	userRepo port.UserRepository,
	analyzer port.RipenessAnalyzer,
	describer port.ResultDescriber,
	images port.ImageSource,
	log zerolog.Logger,
) *Container {
	userService := app.NewUserService(userRepo)
	ripenessService := app.NewRipenessService(userService, analyzer, describer, images, log)

	return &Container{
		UserService:     userService,
		RipenessService: ripenessService,
	}
}
