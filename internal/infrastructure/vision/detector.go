//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Detection маска найденных бананов и их внешние контуры.
// Маску нужно закрыть через Close.
type Detection struct {
	Mask     gocv.Mat
	Contours []entity.Polygon
}

func (d Detection) Close() {
	d.Mask.Close()
}

// DetectRegions ищет области банановых цветов на BGR-изображении.
// Маска чистится открытием, затем закрытием, мелкие контуры отбрасываются,
// а итоговая маска заново рисуется только по выжившим контурам.
func DetectRegions(img gocv.Mat, p entity.Params) Detection {
	masks := newColorMasks(img, p)
	defer masks.Close()

	return detectFromMasks(masks, img.Rows(), img.Cols(), p)
}

func detectFromMasks(masks colorMasks, rows, cols int, p entity.Params) Detection {
	combined := masks.union()
	defer combined.Close()

	kernel := ellipse(p.CleanupKernel)
	defer kernel.Close()

	// Открытие до закрытия, иначе закрытие "залечит" шум
	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(combined, &opened, gocv.MorphOpen, kernel)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(opened, &closed, gocv.MorphClose, kernel)

	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	kept := make([][]image.Point, 0, contours.Size())
	polygons := make([]entity.Polygon, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		if gocv.ContourArea(c) < p.MinContourArea {
			continue
		}
		pts := c.ToPoints()
		kept = append(kept, pts)
		polygons = append(polygons, entity.Polygon(pts))
	}

	return Detection{
		Mask:     fillPolygons(kept, rows, cols),
		Contours: polygons,
	}
}

// fillPolygons рисует залитые контуры на пустой маске
func fillPolygons(polygons [][]image.Point, rows, cols int) gocv.Mat {
	mask := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)
	if len(polygons) == 0 {
		return mask
	}

	pv := gocv.NewPointsVectorFromPoints(polygons)
	defer pv.Close()
	gocv.DrawContours(&mask, pv, -1, white, -1)
	return mask
}

func toPointSlices(polygons []entity.Polygon) [][]image.Point {
	out := make([][]image.Point, len(polygons))
	for i, p := range polygons {
		out[i] = p
	}
	return out
}
