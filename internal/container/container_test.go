package container

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/imagefile"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/report"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/storage"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/vision"
)

func TestNew_WiresServices(t *testing.T) {
	c := New(
		storage.NewMemoryUserRepository(entity.ModePixel),
		vision.NewGoCVAnalyzer(entity.DefaultParams()),
		report.NewTextDescriber(),
		imagefile.NewSource(0),
		zerolog.Nop(),
	)

	require.NotNil(t, c.UserService)
	require.NotNil(t, c.RipenessService)
}
