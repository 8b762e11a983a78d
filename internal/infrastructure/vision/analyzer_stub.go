//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

// GoCVAnalyzer заглушка анализатора для сборки без OpenCV
type GoCVAnalyzer struct {
	params entity.Params
}

// NewGoCVAnalyzer создаёт анализатор-заглушку (без OpenCV).
func NewGoCVAnalyzer(p entity.Params) *GoCVAnalyzer {
	return &GoCVAnalyzer{params: p}
}

// Params возвращает настройки анализатора
func (a *GoCVAnalyzer) Params() entity.Params {
	return a.params
}

// Analyze возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) Analyze(ctx context.Context, img image.Image, mode entity.Mode) (*entity.AnalysisResult, error) {
	return nil, entity.ErrVisionDisabled
}

// Debug возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) Debug(ctx context.Context, img image.Image, mode entity.Mode) (*entity.DebugArtifacts, error) {
	return nil, entity.ErrVisionDisabled
}

// Highlight возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) Highlight(img image.Image, result *entity.AnalysisResult) (image.Image, error) {
	return nil, entity.ErrVisionDisabled
}

var _ port.RipenessAnalyzer = (*GoCVAnalyzer)(nil)
