package entity

import "fmt"

// Params настройки конвейера распознавания спелости.
// Все размеры ядер в пикселях, площади в квадратных пикселях.
type Params struct {
	Green  HSVRange // зелёные бананы
	Yellow HSVRange // жёлтые бананы
	Spot   HSVRange // коричневые пятна

	// Поиск областей
	CleanupKernel  int     // эллипс для открытия/закрытия маски
	MinContourArea float64 // контуры меньше отбрасываются как шум

	// Разделение соприкасающихся бананов
	CannyLow                   float32 // нижний порог Canny
	CannyHigh                  float32 // верхний порог Canny
	EdgeKernel                 int     // эллипс для расширения границ и затравок
	EdgeDilateIterations       int     // сколько раз расширять линии разреза
	LocalMaximaKernel          int     // окрестность поиска локальных максимумов
	MaximaTolerance            float32 // допуск сравнения с максимумом окрестности
	MinDistance                float32 // минимальное расстояние до фона у затравки
	BackgroundDilateIterations int     // расширение маски для "точно фона"
	MinBananaArea              float64 // экземпляры меньше отбрасываются

	// Классификация
	BananaInteriorErosion int     // эрозия маски банана перед поиском пятен
	MinSpotPixels         int     // сколько пятнистых пикселей делает банан пятнистым
	PixelInteriorErosion  int     // эрозия жёлтой маски в попиксельном режиме
	SpotDilation          int     // расширение пятен в попиксельном режиме
	SpotThreshold         float64 // доля пятен в жёлтом регионе для режима region
}

// DefaultParams возвращает настройки по умолчанию
func DefaultParams() Params {
	return Params{
		Green:  HSVRange{Low: HSV{32, 80, 80}, High: HSV{65, 255, 255}},
		Yellow: HSVRange{Low: HSV{15, 100, 100}, High: HSV{32, 255, 255}},
		Spot:   HSVRange{Low: HSV{5, 30, 30}, High: HSV{30, 255, 200}},

		CleanupKernel:  5,
		MinContourArea: 500,

		CannyLow:                   120,
		CannyHigh:                  240,
		EdgeKernel:                 3,
		EdgeDilateIterations:       2,
		LocalMaximaKernel:          15,
		MaximaTolerance:            0.01,
		MinDistance:                10,
		BackgroundDilateIterations: 3,
		MinBananaArea:              2000,

		BananaInteriorErosion: 15,
		MinSpotPixels:         1,
		PixelInteriorErosion:  15,
		SpotDilation:          12,
		SpotThreshold:         0.05,
	}
}

// RangeFor диапазон цвета, которым рисуется категория
func (p Params) RangeFor(c Category) HSVRange {
	switch c {
	case CategoryGreen:
		return p.Green
	case CategoryYellowSpotted:
		return p.Spot
	default:
		return p.Yellow
	}
}

// Validate проверяет согласованность настроек
func (p Params) Validate() error {
	for name, r := range map[string]HSVRange{"green": p.Green, "yellow": p.Yellow, "spot": p.Spot} {
		if !r.Valid() {
			return fmt.Errorf("%w: %s range %s", ErrInvalidParams, name, r)
		}
	}
	kernels := []struct {
		name string
		size int
	}{
		{"cleanup kernel", p.CleanupKernel},
		{"edge kernel", p.EdgeKernel},
		{"local maxima kernel", p.LocalMaximaKernel},
		{"banana interior erosion", p.BananaInteriorErosion},
		{"pixel interior erosion", p.PixelInteriorErosion},
		{"spot dilation", p.SpotDilation},
	}
	for _, k := range kernels {
		if k.size < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParams, k.name, k.size)
		}
	}
	if p.CannyLow < 0 || p.CannyHigh < p.CannyLow {
		return fmt.Errorf("%w: canny thresholds %v/%v", ErrInvalidParams, p.CannyLow, p.CannyHigh)
	}
	if p.EdgeDilateIterations < 0 || p.BackgroundDilateIterations < 0 {
		return fmt.Errorf("%w: negative dilate iterations", ErrInvalidParams)
	}
	if p.MinContourArea < 0 || p.MinBananaArea < 0 || p.MinDistance < 0 || p.MaximaTolerance < 0 || p.MinSpotPixels < 0 {
		return fmt.Errorf("%w: thresholds must not be negative", ErrInvalidParams)
	}
	if p.SpotThreshold < 0 || p.SpotThreshold > 1 {
		return fmt.Errorf("%w: spot threshold %v outside [0,1]", ErrInvalidParams, p.SpotThreshold)
	}
	return nil
}
