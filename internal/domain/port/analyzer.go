package port

import (
	"context"
	"image"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

// RipenessAnalyzer интерфейс анализатора спелости
type RipenessAnalyzer interface {
	// Analyze анализирует изображение в заданном режиме
	Analyze(ctx context.Context, img image.Image, mode entity.Mode) (*entity.AnalysisResult, error)

	// Debug возвращает результат вместе с промежуточными масками и оверлеями
	Debug(ctx context.Context, img image.Image, mode entity.Mode) (*entity.DebugArtifacts, error)

	// Highlight рисует контуры найденных областей в цветах категорий и возвращает новую картинку
	Highlight(img image.Image, result *entity.AnalysisResult) (image.Image, error)
}
