//go:build gocv
// +build gocv

package vision

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"gocv.io/x/gocv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

const (
	boundaryLabel   = -1 // линия водораздела
	backgroundLabel = 1  // метка "точно фона" в маркерах водораздела
	firstSeedLabel  = 2
)

// Instance отдельный банан вместе с его маской.
// Маску нужно закрыть через Close.
type Instance struct {
	entity.FruitInstance
	Mask gocv.Mat
}

func (in Instance) Close() {
	in.Mask.Close()
}

// CloseInstances закрывает маски всех экземпляров
func CloseInstances(instances []Instance) {
	for _, in := range instances {
		in.Close()
	}
}

// SegmentInstances разделяет соприкасающиеся бананы внутри маски mask.
// Сначала маска режется по границам Canny, затем затравки берутся из
// локальных максимумов карты расстояний и растут водоразделом по исходному изображению.
// Маска каждого экземпляра является подмножеством mask.
// Если подходящих затравок нет, возвращается пустой результат без ошибки.
func SegmentInstances(img, mask gocv.Mat, p entity.Params) ([]Instance, error) {
	if mask.Empty() || gocv.CountNonZero(mask) == 0 {
		return nil, nil
	}
	if !mask.IsContinuous() {
		mask = mask.Clone()
		defer mask.Close()
	}

	separated := separateByEdges(img, mask, p)
	defer separated.Close()

	// Рамка фона в 1 пиксель: у маски без фона карта расстояний не определена
	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(separated, &padded, 1, 1, 1, 1, gocv.BorderConstant, color.RGBA{})

	dist := gocv.NewMat()
	defer dist.Close()
	labels := gocv.NewMat()
	defer labels.Close()
	gocv.DistanceTransform(padded, &dist, &labels, gocv.DistL2, gocv.DistanceMask5, gocv.DistanceLabelCComp)

	_, maxDist, _, _ := gocv.MinMaxLoc(dist)
	if maxDist == 0 {
		return nil, nil
	}

	seeds, err := findSeeds(dist, mask.Rows(), mask.Cols(), p)
	if err != nil {
		return nil, err
	}
	defer seeds.Close()

	markers, seedCount, err := buildMarkers(mask, seeds, p)
	if err != nil {
		return nil, err
	}
	defer markers.Close()
	if seedCount == 0 {
		return nil, nil
	}

	gocv.Watershed(img, &markers)

	return extractInstances(markers, mask, p)
}

// separateByEdges вычитает расширенные границы Canny из маски,
// ослабляя перемычки между соприкасающимися бананами.
func separateByEdges(img, mask gocv.Mat, p entity.Params) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, p.CannyLow, p.CannyHigh)

	inside := and(edges, mask)
	defer inside.Close()

	cuts := dilate(inside, p.EdgeKernel, p.EdgeDilateIterations)
	defer cuts.Close()

	cut := gocv.NewMat()
	defer cut.Close()
	gocv.Subtract(mask, cuts, &cut)

	kernel := ellipse(p.EdgeKernel)
	defer kernel.Close()

	out := gocv.NewMat()
	gocv.MorphologyEx(cut, &out, gocv.MorphOpen, kernel)
	return out
}

// findSeeds отмечает локальные максимумы карты расстояний не ниже MinDistance
// и слегка расширяет их, чтобы затравка была связным пятном.
// dist содержит рамку в 1 пиксель, результат имеет размер rows×cols.
func findSeeds(dist gocv.Mat, rows, cols int, p entity.Params) (gocv.Mat, error) {
	kernel := ellipse(p.LocalMaximaKernel)
	defer kernel.Close()

	neighborhood := gocv.NewMat()
	defer neighborhood.Close()
	gocv.Dilate(dist, &neighborhood, kernel)

	d, err := dist.DataPtrFloat32()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("distance map: %w", err)
	}
	nb, err := neighborhood.DataPtrFloat32()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("distance maxima: %w", err)
	}

	maxima := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)
	defer maxima.Close()
	out, err := maxima.DataPtrUint8()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("seed mask: %w", err)
	}

	stride := cols + 2
	for y := 0; y < rows; y++ {
		row := (y+1)*stride + 1
		for x := 0; x < cols; x++ {
			v := d[row+x]
			if v < p.MinDistance {
				continue
			}
			if abs32(v-nb[row+x]) < p.MaximaTolerance {
				out[y*cols+x] = 255
			}
		}
	}

	return dilate(maxima, p.EdgeKernel, 1), nil
}

// buildMarkers размечает затравки метками начиная с 2, "точно фон" меткой 1,
// а зону между ними оставляет нулевой для затопления.
func buildMarkers(mask, seeds gocv.Mat, p entity.Params) (gocv.Mat, int, error) {
	markers := gocv.NewMat()
	n := gocv.ConnectedComponents(seeds, &markers)

	sureBackground := dilate(mask, p.EdgeKernel, p.BackgroundDilateIterations)
	defer sureBackground.Close()

	grid, err := labelsOf(&markers)
	if err != nil {
		markers.Close()
		return gocv.Mat{}, 0, err
	}
	bg, err := sureBackground.DataPtrUint8()
	if err != nil {
		markers.Close()
		return gocv.Mat{}, 0, fmt.Errorf("background mask: %w", err)
	}

	for i, b := range bg {
		label := grid.at(i)
		switch {
		case label > 0:
			grid.set(i, label+1)
		case b != 0:
			grid.set(i, 0)
		default:
			grid.set(i, backgroundLabel)
		}
	}

	return markers, n - 1, nil
}

// extractInstances собирает маски по меткам затравок, обрезает их исходной маской
// и отбрасывает экземпляры площадью меньше MinBananaArea.
// Пиксели линии водораздела внутри маски отходят соседней затравке,
// так что экземпляры целиком покрывают свою область.
// Первый проход находит прямоугольники меток, маски строятся по одной
// только для меток, чей прямоугольник может вместить MinBananaArea.
func extractInstances(markers, mask gocv.Mat, p entity.Params) ([]Instance, error) {
	rows, cols := mask.Rows(), mask.Cols()

	grid, err := labelsOf(&markers)
	if err != nil {
		return nil, err
	}
	fg, err := mask.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("region mask: %w", err)
	}
	absorbBoundary(grid, fg, rows, cols)

	// ограничивающие прямоугольники меток внутри маски
	boxes := make(map[int32]image.Rectangle)
	for i, v := range fg {
		label := grid.at(i)
		if label < firstSeedLabel || v == 0 {
			continue
		}
		pt := image.Pt(i%cols, i/cols)
		px := image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))}
		if box, ok := boxes[label]; ok {
			px = box.Union(px)
		}
		boxes[label] = px
	}

	labels := make([]int32, 0, len(boxes))
	for label, box := range boxes {
		// площадь внешнего контура не превышает площади прямоугольника
		if float64(box.Dx()*box.Dy()) < p.MinBananaArea {
			continue
		}
		labels = append(labels, label)
	}
	slices.Sort(labels)

	instances := make([]Instance, 0, len(labels))
	for _, label := range labels {
		m, err := labelMask(grid, fg, label, boxes[label], rows, cols)
		if err != nil {
			CloseInstances(instances)
			return nil, err
		}
		boundary, area, ok := largestContour(m)
		if !ok || area < p.MinBananaArea {
			m.Close()
			continue
		}
		instances = append(instances, Instance{
			FruitInstance: entity.FruitInstance{Label: int(label), Boundary: boundary, Area: area},
			Mask:          m,
		})
	}
	return instances, nil
}

// absorbBoundary переносит пиксели линии водораздела внутри fg
// в наименьшую соседнюю метку затравки
func absorbBoundary(grid labelGrid, fg []uint8, rows, cols int) {
	type fix struct {
		i     int
		label int32
	}
	var fixes []fix
	for i, v := range fg {
		if v == 0 || grid.at(i) != boundaryLabel {
			continue
		}
		if label := neighborSeed(grid, i/cols, i%cols, rows, cols); label != 0 {
			fixes = append(fixes, fix{i: i, label: label})
		}
	}
	for _, f := range fixes {
		grid.set(f.i, f.label)
	}
}

// neighborSeed наименьшая метка затравки среди 8 соседей или 0
func neighborSeed(grid labelGrid, y, x, rows, cols int) int32 {
	var best int32
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			ny, nx := y+dy, x+dx
			if (dy == 0 && dx == 0) || ny < 0 || nx < 0 || ny >= rows || nx >= cols {
				continue
			}
			if l := grid.at(ny*cols + nx); l >= firstSeedLabel && (best == 0 || l < best) {
				best = l
			}
		}
	}
	return best
}

// labelMask маска пикселей метки label внутри fg, просматривается только box
func labelMask(grid labelGrid, fg []uint8, label int32, box image.Rectangle, rows, cols int) (gocv.Mat, error) {
	m := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)
	out, err := m.DataPtrUint8()
	if err != nil {
		m.Close()
		return gocv.Mat{}, fmt.Errorf("instance mask: %w", err)
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			i := y*cols + x
			if fg[i] != 0 && grid.at(i) == label {
				out[i] = 255
			}
		}
	}
	return m, nil
}

// labelGrid матрица меток CV32S поверх памяти OpenCV.
// В gocv нет DataPtrInt32, поэтому метки читаются из байтов.
type labelGrid []byte

func labelsOf(m *gocv.Mat) (labelGrid, error) {
	if m.Type() != gocv.MatTypeCV32S {
		return nil, fmt.Errorf("labels: unexpected mat type %v", m.Type())
	}
	b, err := m.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	return labelGrid(b), nil
}

func (g labelGrid) at(i int) int32 {
	return int32(binary.NativeEndian.Uint32(g[4*i:]))
}

func (g labelGrid) set(i int, v int32) {
	binary.NativeEndian.PutUint32(g[4*i:], uint32(v))
}

// largestContour внешний контур наибольшей площади
func largestContour(mask gocv.Mat) (entity.Polygon, float64, bool) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best, bestArea := -1, -1.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			best, bestArea = i, a
		}
	}
	if best < 0 {
		return nil, 0, false
	}

	pts := contours.At(best).ToPoints()
	return entity.Polygon(append([]image.Point(nil), pts...)), bestArea, true
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
