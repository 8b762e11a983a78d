package entity

import (
	"fmt"
	"image"
	"strings"
)

// Mode режим анализа
type Mode string

const (
	ModePixel  Mode = "pixel"  // попиксельная классификация всей маски
	ModeBanana Mode = "banana" // сегментация и классификация каждого банана
	ModeRegion Mode = "region" // классификация каждого найденного контура целиком
)

// Modes все поддерживаемые режимы
var Modes = [...]Mode{ModePixel, ModeBanana, ModeRegion}

// ParseMode разбирает имя режима
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModePixel, ModeBanana, ModeRegion:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// CountsObjects сообщает, считает ли режим объекты, а не пиксели
func (m Mode) CountsObjects() bool {
	return m == ModeBanana || m == ModeRegion
}

// ClassifiedRegion контур в режиме region вместе с категорией
type ClassifiedRegion struct {
	Boundary Polygon
	Pixels   int
	Category Category
}

// AnalysisResult хранит итог анализа одного изображения.
// Не изменяется после создания.
type AnalysisResult struct {
	Mode        Mode
	ImageWidth  int
	ImageHeight int
	Counts      CategoryCounts      // пиксели, бананы или регионы в зависимости от режима
	Percentages CategoryPercentages // доли от Total
	Total       int

	Regions   []Polygon            // контуры найденных областей (все режимы)
	Instances []ClassifiedInstance // только ModeBanana
	Classes   []ClassifiedRegion   // только ModeRegion
}

// NewAnalysisResult собирает результат и считает проценты
func NewAnalysisResult(mode Mode, size image.Point, counts CategoryCounts, total int) *AnalysisResult {
	return &AnalysisResult{
		Mode:        mode,
		ImageWidth:  size.X,
		ImageHeight: size.Y,
		Counts:      counts,
		Percentages: Aggregate(counts, total),
		Total:       total,
	}
}

// Summary плоское представление результата для JSON и отчётов
type Summary struct {
	Mode                 Mode    `json:"mode"`
	GreenPercent         float64 `json:"green_percent"`
	YellowCleanPercent   float64 `json:"yellow_clean_percent"`
	YellowSpottedPercent float64 `json:"yellow_spotted_percent"`

	TotalBananaPixels *int `json:"total_banana_pixels,omitempty"`

	GreenCount         *int `json:"green_count,omitempty"`
	YellowCleanCount   *int `json:"yellow_clean_count,omitempty"`
	YellowSpottedCount *int `json:"yellow_spotted_count,omitempty"`
	TotalBananas       *int `json:"total_bananas,omitempty"`
	TotalRegions       *int `json:"total_regions,omitempty"`
}

// Summary возвращает поля, которые ожидают потребители для данного режима
func (r *AnalysisResult) Summary() Summary {
	s := Summary{
		Mode:                 r.Mode,
		GreenPercent:         r.Percentages.Green,
		YellowCleanPercent:   r.Percentages.YellowClean,
		YellowSpottedPercent: r.Percentages.YellowSpotted,
	}
	total := r.Total
	if !r.Mode.CountsObjects() {
		s.TotalBananaPixels = &total
		return s
	}

	green, clean, spotted := r.Counts.Green, r.Counts.YellowClean, r.Counts.YellowSpotted
	s.GreenCount, s.YellowCleanCount, s.YellowSpottedCount = &green, &clean, &spotted
	if r.Mode == ModeBanana {
		s.TotalBananas = &total
	} else {
		s.TotalRegions = &total
	}
	return s
}

// Artifact промежуточное изображение для отладки
type Artifact struct {
	Name  string
	Image image.Image
	Count int // число экземпляров на оверлее категории, иначе 0
}

// DebugArtifacts набор отладочных изображений, не влияет на результат
type DebugArtifacts struct {
	Result    *AnalysisResult
	Artifacts []Artifact
}

// Get ищет артефакт по имени
func (d *DebugArtifacts) Get(name string) (Artifact, bool) {
	for _, a := range d.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}
