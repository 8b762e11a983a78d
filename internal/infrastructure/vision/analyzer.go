//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"gocv.io/x/gocv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

// plainColor цвет контуров в попиксельном режиме, где у регионов нет категории
var plainColor = color.RGBA{R: 255, B: 255, A: 255}

// GoCVAnalyzer анализатор спелости на OpenCV.
// Не хранит состояния между вызовами, безопасен для параллельного использования.
type GoCVAnalyzer struct {
	params entity.Params
}

// NewGoCVAnalyzer создаёт анализатор с заданными настройками.
func NewGoCVAnalyzer(p entity.Params) *GoCVAnalyzer {
	return &GoCVAnalyzer{params: p}
}

// Params возвращает настройки анализатора
func (a *GoCVAnalyzer) Params() entity.Params {
	return a.params
}

// pass промежуточные данные одного анализа
type pass struct {
	img       gocv.Mat
	size      image.Point
	cls       *Classifier
	det       Detection
	instances []Instance
}

func (p *pass) Close() {
	CloseInstances(p.instances)
	p.det.Close()
	p.cls.Close()
	p.img.Close()
}

// Analyze запускает конвейер поиска и классификации бананов.
func (a *GoCVAnalyzer) Analyze(ctx context.Context, img image.Image, mode entity.Mode) (*entity.AnalysisResult, error) {
	p, err := a.prepare(ctx, img, mode)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return a.evaluate(p, mode)
}

func (a *GoCVAnalyzer) prepare(ctx context.Context, img image.Image, mode entity.Mode) (*pass, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !slices.Contains(entity.Modes[:], mode) {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownMode, mode)
	}

	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}

	cls := NewClassifier(mat, a.params)
	det := detectFromMasks(cls.masks, mat.Rows(), mat.Cols(), a.params)

	return &pass{
		img:  mat,
		size: image.Pt(mat.Cols(), mat.Rows()),
		cls:  cls,
		det:  det,
	}, nil
}

func (a *GoCVAnalyzer) evaluate(p *pass, mode entity.Mode) (*entity.AnalysisResult, error) {
	switch mode {
	case entity.ModePixel:
		counts := p.cls.ClassifyPixels(p.det.Mask)
		result := entity.NewAnalysisResult(mode, p.size, counts, counts.Sum())
		result.Regions = p.det.Contours
		return result, nil

	case entity.ModeBanana:
		instances, err := SegmentInstances(p.img, p.det.Mask, a.params)
		if err != nil {
			return nil, fmt.Errorf("segment instances: %w", err)
		}
		p.instances = instances
		fruits := make([]entity.FruitInstance, len(p.instances))
		for i, in := range p.instances {
			fruits[i] = in.FruitInstance
		}

		classified, counts, err := entity.MergeCategories(fruits, p.cls.ClassifyInstances(p.instances))
		if err != nil {
			return nil, fmt.Errorf("merge categories: %w", err)
		}
		result := entity.NewAnalysisResult(mode, p.size, counts, len(classified))
		result.Regions = p.det.Contours
		result.Instances = classified
		return result, nil

	case entity.ModeRegion:
		var counts entity.CategoryCounts
		classes := make([]entity.ClassifiedRegion, 0, len(p.det.Contours))
		for _, region := range p.det.Contours {
			cat, pixels := p.cls.ClassifyRegion(region)
			counts = counts.Add(cat, 1)
			classes = append(classes, entity.ClassifiedRegion{Boundary: region, Pixels: pixels, Category: cat})
		}
		result := entity.NewAnalysisResult(mode, p.size, counts, len(classes))
		result.Regions = p.det.Contours
		result.Classes = classes
		return result, nil

	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownMode, mode)
	}
}

// Highlight рисует контуры результата поверх копии изображения.
func (a *GoCVAnalyzer) Highlight(img image.Image, result *entity.AnalysisResult) (image.Image, error) {
	if result == nil {
		return nil, errors.New("highlight: nil result")
	}
	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	switch result.Mode {
	case entity.ModeBanana:
		for _, in := range result.Instances {
			drawPolygons(&mat, []entity.Polygon{in.Boundary}, a.params.RangeFor(in.Category).DisplayColor())
		}
	case entity.ModeRegion:
		for _, c := range result.Classes {
			drawPolygons(&mat, []entity.Polygon{c.Boundary}, a.params.RangeFor(c.Category).DisplayColor())
		}
	default:
		drawPolygons(&mat, result.Regions, plainColor)
	}

	return mat.ToImage()
}

// imageToMat переводит image.Image в BGR Mat
func imageToMat(img image.Image) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.Mat{}, entity.ErrEmptyImage
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, entity.ErrEmptyImage
	}
	return mat, nil
}

// drawPolygons обводит контуры линией толщиной 2
func drawPolygons(dst *gocv.Mat, polygons []entity.Polygon, c color.RGBA) {
	if len(polygons) == 0 {
		return
	}
	pv := gocv.NewPointsVectorFromPoints(toPointSlices(polygons))
	defer pv.Close()
	gocv.DrawContours(dst, pv, -1, c, 2)
}

// Проверка реализации интерфейса
var _ port.RipenessAnalyzer = (*GoCVAnalyzer)(nil)
