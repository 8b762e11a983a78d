//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

// ColorMask возвращает бинарную маску пикселей HSV-изображения, попавших в диапазон.
// Границы включены, каналы проверяются независимо.
func ColorMask(hsv gocv.Mat, r entity.HSVRange) gocv.Mat {
	mask := gocv.NewMat()
	lb := gocv.NewScalar(float64(r.Low.H), float64(r.Low.S), float64(r.Low.V), 0)
	ub := gocv.NewScalar(float64(r.High.H), float64(r.High.S), float64(r.High.V), 0)
	gocv.InRangeWithScalar(hsv, lb, ub, &mask)
	return mask
}

// colorMasks маски трёх цветовых классов, полученные из одного перевода в HSV
type colorMasks struct {
	green  gocv.Mat
	yellow gocv.Mat
	spot   gocv.Mat
}

func newColorMasks(img gocv.Mat, p entity.Params) colorMasks {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	return colorMasks{
		green:  ColorMask(hsv, p.Green),
		yellow: ColorMask(hsv, p.Yellow),
		spot:   ColorMask(hsv, p.Spot),
	}
}

// union маска "банановых" пикселей: зелёный или жёлтый
func (m colorMasks) union() gocv.Mat {
	out := gocv.NewMat()
	gocv.BitwiseOr(m.green, m.yellow, &out)
	return out
}

func (m colorMasks) Close() {
	m.green.Close()
	m.yellow.Close()
	m.spot.Close()
}

// ellipse структурный элемент-эллипс размера size×size
func ellipse(size int) gocv.Mat {
	return gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(size, size))
}

// and пересечение двух масок
func and(a, b gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.BitwiseAnd(a, b, &out)
	return out
}

// erode однократная эрозия эллипсом
func erode(src gocv.Mat, size int) gocv.Mat {
	kernel := ellipse(size)
	defer kernel.Close()

	out := gocv.NewMat()
	gocv.Erode(src, &out, kernel)
	return out
}

// dilate расширение эллипсом iterations раз
func dilate(src gocv.Mat, size, iterations int) gocv.Mat {
	kernel := ellipse(size)
	defer kernel.Close()

	out := src.Clone()
	for i := 0; i < iterations; i++ {
		next := gocv.NewMat()
		gocv.Dilate(out, &next, kernel)
		out.Close()
		out = next
	}
	return out
}
