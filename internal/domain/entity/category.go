package entity

import "fmt"

// Category категория спелости банана
type Category int

const (
	CategoryGreen         Category = iota // зелёный
	CategoryYellowClean                   // жёлтый без пятен
	CategoryYellowSpotted                 // жёлтый с пятнами
)

// Categories перечисляет все категории в порядке отчёта
var Categories = [...]Category{CategoryGreen, CategoryYellowClean, CategoryYellowSpotted}

// String возвращает каноническое имя категории
func (c Category) String() string {
	switch c {
	case CategoryGreen:
		return "green"
	case CategoryYellowClean:
		return "yellow_clean"
	case CategoryYellowSpotted:
		return "yellow_spotted"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Valid сообщает, входит ли значение в закрытый набор категорий
func (c Category) Valid() bool {
	switch c {
	case CategoryGreen, CategoryYellowClean, CategoryYellowSpotted:
		return true
	default:
		return false
	}
}

// CategoryCounts счётчики по категориям (пиксели, бананы или регионы)
type CategoryCounts struct {
	Green         int `json:"green"`
	YellowClean   int `json:"yellow_clean"`
	YellowSpotted int `json:"yellow_spotted"`
}

// Get возвращает счётчик категории
func (c CategoryCounts) Get(cat Category) int {
	switch cat {
	case CategoryGreen:
		return c.Green
	case CategoryYellowClean:
		return c.YellowClean
	case CategoryYellowSpotted:
		return c.YellowSpotted
	default:
		return 0
	}
}

// Add возвращает копию счётчиков, увеличенную на n для категории
func (c CategoryCounts) Add(cat Category, n int) CategoryCounts {
	switch cat {
	case CategoryGreen:
		c.Green += n
	case CategoryYellowClean:
		c.YellowClean += n
	case CategoryYellowSpotted:
		c.YellowSpotted += n
	}
	return c
}

// Sum сумма всех счётчиков
func (c CategoryCounts) Sum() int {
	return c.Green + c.YellowClean + c.YellowSpotted
}

// CategoryPercentages доли категорий в процентах (0-100)
type CategoryPercentages struct {
	Green         float64 `json:"green_percent"`
	YellowClean   float64 `json:"yellow_clean_percent"`
	YellowSpotted float64 `json:"yellow_spotted_percent"`
}

// Get возвращает процент категории
func (p CategoryPercentages) Get(cat Category) float64 {
	switch cat {
	case CategoryGreen:
		return p.Green
	case CategoryYellowClean:
		return p.YellowClean
	case CategoryYellowSpotted:
		return p.YellowSpotted
	default:
		return 0
	}
}

// Aggregate переводит счётчики в проценты от total.
// При total <= 0 все проценты нулевые.
func Aggregate(counts CategoryCounts, total int) CategoryPercentages {
	if total <= 0 {
		return CategoryPercentages{}
	}
	pct := func(n int) float64 {
		return float64(n) / float64(total) * 100
	}
	return CategoryPercentages{
		Green:         pct(counts.Green),
		YellowClean:   pct(counts.YellowClean),
		YellowSpotted: pct(counts.YellowSpotted),
	}
}
