//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

const overlayAlpha = 0.5

var (
	contourColor = color.RGBA{G: 255, A: 255}
	greenColor   = color.RGBA{G: 255, A: 255}
	yellowColor  = color.RGBA{R: 255, G: 255, A: 255}
	spotColor    = color.RGBA{R: 255, A: 255}
)

// Debug выполняет анализ и дополнительно возвращает промежуточные маски и оверлеи.
// Артефакты не влияют на результат.
func (a *GoCVAnalyzer) Debug(ctx context.Context, img image.Image, mode entity.Mode) (*entity.DebugArtifacts, error) {
	p, err := a.prepare(ctx, img, mode)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := a.evaluate(p, mode)
	if err != nil {
		return nil, err
	}

	out := &entity.DebugArtifacts{Result: result}
	add := func(name string, m gocv.Mat, count int) error {
		defer m.Close()
		im, err := m.ToImage()
		if err != nil {
			return fmt.Errorf("artifact %s: %w", name, err)
		}
		out.Artifacts = append(out.Artifacts, entity.Artifact{Name: name, Image: im, Count: count})
		return nil
	}

	original := p.img.Clone()
	drawPolygons(&original, p.det.Contours, contourColor)

	spots := p.cls.SpotMask(p.det.Mask)
	defer spots.Close()

	steps := []struct {
		name string
		mat  gocv.Mat
	}{
		{"original", original},
		{"green_mask", overlay(p.img, p.cls.masks.green, greenColor)},
		{"yellow_mask", overlay(p.img, p.cls.masks.yellow, yellowColor)},
		{"spot_mask", overlay(p.img, spots, spotColor)},
		{"combined_mask", p.det.Mask.Clone()},
	}
	for i, s := range steps {
		if err := add(s.name, s.mat, 0); err != nil {
			for _, rest := range steps[i+1:] {
				rest.mat.Close()
			}
			return nil, err
		}
	}

	if mode != entity.ModeBanana {
		return out, nil
	}

	cats := make(map[int]entity.Category, len(result.Instances))
	for _, in := range result.Instances {
		cats[in.Label] = in.Category
	}
	for _, cat := range entity.Categories {
		m, n := a.instanceOverlay(p, cats, cat)
		if err := add("instances_"+cat.String(), m, n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// instanceOverlay закрашивает экземпляры одной категории и обводит их контуры
func (a *GoCVAnalyzer) instanceOverlay(p *pass, cats map[int]entity.Category, cat entity.Category) (gocv.Mat, int) {
	union := gocv.Zeros(p.img.Rows(), p.img.Cols(), gocv.MatTypeCV8U)
	defer union.Close()

	boundaries := make([]entity.Polygon, 0, len(p.instances))
	for _, in := range p.instances {
		if cats[in.Label] != cat {
			continue
		}
		gocv.BitwiseOr(union, in.Mask, &union)
		boundaries = append(boundaries, in.Boundary)
	}

	c := a.params.RangeFor(cat).DisplayColor()
	out := overlay(p.img, union, c)
	drawPolygons(&out, boundaries, c)
	return out, len(boundaries)
}

// overlay накладывает цвет c на пиксели маски с прозрачностью overlayAlpha
func overlay(img, mask gocv.Mat, c color.RGBA) gocv.Mat {
	solid := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		img.Rows(), img.Cols(), img.Type(),
	)
	defer solid.Close()

	painted := img.Clone()
	defer painted.Close()
	solid.CopyToWithMask(&painted, mask)

	out := gocv.NewMat()
	gocv.AddWeighted(img, 1-overlayAlpha, painted, overlayAlpha, 0, &out)
	return out
}
