package port

import "github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"

// ResultDescriber интерфейс описателя результатов
type ResultDescriber interface {
	// Describe генерирует текстовый отчёт по результату анализа
	Describe(name string, result *entity.AnalysisResult) string
}
