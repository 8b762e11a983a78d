//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

// Classifier относит области к категориям спелости.
// Цветовые маски считаются один раз на изображение.
type Classifier struct {
	params entity.Params
	masks  colorMasks
}

// NewClassifier готовит классификатор для BGR-изображения img. Нужно закрыть через Close.
func NewClassifier(img gocv.Mat, p entity.Params) *Classifier {
	return &Classifier{params: p, masks: newColorMasks(img, p)}
}

func (c *Classifier) Close() {
	c.masks.Close()
}

// ClassifyInstance определяет категорию одного банана по его маске.
// Зелёный побеждает только строгим большинством, ничья уходит в жёлтую ветку.
// Пятна ищутся только во внутренней части маски, без кончиков и краёв.
func (c *Classifier) ClassifyInstance(mask gocv.Mat) entity.Category {
	if gocv.CountNonZero(mask) == 0 {
		return entity.CategoryYellowClean
	}

	green := countIn(c.masks.green, mask)
	yellow := countIn(c.masks.yellow, mask)

	if green > yellow {
		return entity.CategoryGreen
	}
	if yellow == 0 {
		return entity.CategoryYellowClean
	}

	interior := erode(mask, c.params.BananaInteriorErosion)
	defer interior.Close()

	if countIn(c.masks.spot, interior) >= c.params.MinSpotPixels {
		return entity.CategoryYellowSpotted
	}
	return entity.CategoryYellowClean
}

// ClassifyInstances возвращает категории экземпляров по их меткам
func (c *Classifier) ClassifyInstances(instances []Instance) map[int]entity.Category {
	out := make(map[int]entity.Category, len(instances))
	for _, in := range instances {
		out[in.Label] = c.ClassifyInstance(in.Mask)
	}
	return out
}

// ClassifyPixels считает пиксели маски по категориям.
// Пятна ищутся во внутренней части жёлтой области, затем расширяются
// и забирают соседние жёлтые пиксели, включая кромку.
func (c *Classifier) ClassifyPixels(mask gocv.Mat) entity.CategoryCounts {
	if gocv.CountNonZero(mask) == 0 {
		return entity.CategoryCounts{}
	}

	green := countIn(c.masks.green, mask)

	yellowIn := and(c.masks.yellow, mask)
	defer yellowIn.Close()
	totalYellow := gocv.CountNonZero(yellowIn)

	interior := erode(yellowIn, c.params.PixelInteriorErosion)
	defer interior.Close()

	spots := and(c.masks.spot, interior)
	defer spots.Close()

	spread := dilate(spots, c.params.SpotDilation, 1)
	defer spread.Close()

	spotted := countIn(yellowIn, spread)

	return entity.CategoryCounts{
		Green:         green,
		YellowClean:   max(0, totalYellow-spotted),
		YellowSpotted: spotted,
	}
}

// ClassifyRegion относит целый контур к категории по большинству цвета.
// Жёлтый регион пятнистый, если доля пятен в жёлтых пикселях больше SpotThreshold.
// Возвращает категорию и число зелёных и жёлтых пикселей региона.
func (c *Classifier) ClassifyRegion(region entity.Polygon) (entity.Category, int) {
	mask := fillPolygons(toPointSlices([]entity.Polygon{region}), c.masks.green.Rows(), c.masks.green.Cols())
	defer mask.Close()

	green := countIn(c.masks.green, mask)

	yellowIn := and(c.masks.yellow, mask)
	defer yellowIn.Close()
	yellow := gocv.CountNonZero(yellowIn)

	total := green + yellow
	switch {
	case total == 0:
		return entity.CategoryYellowClean, 0
	case green > yellow:
		return entity.CategoryGreen, total
	}

	spots := countIn(c.masks.spot, yellowIn)
	if float64(spots)/float64(yellow) > c.params.SpotThreshold {
		return entity.CategoryYellowSpotted, total
	}
	return entity.CategoryYellowClean, total
}

// SpotMask пятна внутри маски бананов
func (c *Classifier) SpotMask(mask gocv.Mat) gocv.Mat {
	return and(c.masks.spot, mask)
}

// countIn число ненулевых пикселей a внутри b
func countIn(a, b gocv.Mat) int {
	m := and(a, b)
	defer m.Close()
	return gocv.CountNonZero(m)
}
