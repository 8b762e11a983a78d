package entity

import (
	"fmt"
	"image"
)

// Polygon замкнутый контур области в пиксельных координатах
type Polygon []image.Point

// Bounds ограничивающий прямоугольник контура (Max не включается)
func (p Polygon) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p[0], Max: p[0].Add(image.Pt(1, 1))}
	for _, pt := range p[1:] {
		r = r.Union(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))})
	}
	return r
}

// Center возвращает координаты центра ограничивающего прямоугольника
func (p Polygon) Center() (x, y int) {
	b := p.Bounds()
	return b.Min.X + b.Dx()/2, b.Min.Y + b.Dy()/2
}

// FruitInstance отдельный банан, выделенный сегментацией
type FruitInstance struct {
	Label    int     // метка затравки водораздела
	Boundary Polygon // внешний контур
	Area     float64 // площадь контура в пикселях
}

// ClassifiedInstance банан вместе с присвоенной категорией
type ClassifiedInstance struct {
	FruitInstance
	Category Category
}

// MergeCategories соединяет экземпляры с категориями, полученными классификатором
// отдельно по меткам, и считает бананы по категориям.
func MergeCategories(instances []FruitInstance, categories map[int]Category) ([]ClassifiedInstance, CategoryCounts, error) {
	out := make([]ClassifiedInstance, 0, len(instances))
	var counts CategoryCounts
	for _, inst := range instances {
		cat, ok := categories[inst.Label]
		if !ok || !cat.Valid() {
			return nil, CategoryCounts{}, fmt.Errorf("%w: label %d", ErrUnclassifiedInstance, inst.Label)
		}
		out = append(out, ClassifiedInstance{FruitInstance: inst, Category: cat})
		counts = counts.Add(cat, 1)
	}
	return out, counts, nil
}
