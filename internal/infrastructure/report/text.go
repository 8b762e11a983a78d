// Package report формирует текстовые отчёты по результатам анализа.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

const width = 45

// TextDescriber печатает отчёт фиксированной ширины
type TextDescriber struct {
	numbers *message.Printer // разделитель разрядов в площади
}

// NewTextDescriber создаёт описатель
func NewTextDescriber() *TextDescriber {
	return &TextDescriber{numbers: message.NewPrinter(language.English)}
}

// Describe возвращает отчёт по одному изображению. name печатается без каталога.
func (d *TextDescriber) Describe(name string, r *entity.AnalysisResult) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	double, single := strings.Repeat("=", width), strings.Repeat("-", width)

	line("Analyzing: %s", filepath.Base(name))
	line(double)
	line("Banana Ripeness Analysis (%s mode)", r.Mode)
	line(single)
	line("Green:              %6.1f%%", r.Percentages.Green)
	line("Yellow (no spots):  %6.1f%%", r.Percentages.YellowClean)
	line("Yellow (spotted):   %6.1f%%", r.Percentages.YellowSpotted)
	line(single)

	switch r.Mode {
	case entity.ModeBanana, entity.ModeRegion:
		unit := "bananas"
		if r.Mode == entity.ModeRegion {
			unit = "regions"
		}
		line("Green:              %6d", r.Counts.Green)
		line("Yellow (no spots):  %6d", r.Counts.YellowClean)
		line("Yellow (spotted):   %6d", r.Counts.YellowSpotted)
		line("Total %s: %d", unit, r.Total)
	default:
		line("Total banana area: %s pixels", d.numbers.Sprintf("%d", r.Total))
	}
	b.WriteString(double)

	return b.String()
}

var _ port.ResultDescriber = (*TextDescriber)(nil)
