package entity

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSV цвет в шкале OpenCV: H 0-179, S 0-255, V 0-255
type HSV struct {
	H uint8
	S uint8
	V uint8
}

// HSVRange замкнутый диапазон [Low, High], каждый канал проверяется отдельно
type HSVRange struct {
	Low  HSV
	High HSV
}

// Contains проверяет попадание цвета в диапазон (границы включены)
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Low.H && c.H <= r.High.H &&
		c.S >= r.Low.S && c.S <= r.High.S &&
		c.V >= r.Low.V && c.V <= r.High.V
}

// Valid сообщает, что нижняя граница не превышает верхнюю и H лежит в 0-179
func (r HSVRange) Valid() bool {
	return r.Low.H <= r.High.H && r.Low.S <= r.High.S && r.Low.V <= r.High.V && r.High.H <= 179
}

// Center середина диапазона
func (r HSVRange) Center() HSV {
	mid := func(a, b uint8) uint8 { return uint8((int(a) + int(b)) / 2) }
	return HSV{H: mid(r.Low.H, r.High.H), S: mid(r.Low.S, r.High.S), V: mid(r.Low.V, r.High.V)}
}

// DisplayColor цвет середины диапазона для отрисовки оверлеев
func (r HSVRange) DisplayColor() color.RGBA {
	c := r.Center()
	rr, gg, bb := colorful.Hsv(float64(c.H)*2, float64(c.S)/255, float64(c.V)/255).RGB255()
	return color.RGBA{R: rr, G: gg, B: bb, A: 255}
}

// String формат "h,s,v-h,s,v", тот же, что принимает ParseHSVRange
func (r HSVRange) String() string {
	return fmt.Sprintf("%d,%d,%d-%d,%d,%d", r.Low.H, r.Low.S, r.Low.V, r.High.H, r.High.S, r.High.V)
}

// ParseHSVRange разбирает строку вида "32,80,80-65,255,255"
func ParseHSVRange(s string) (HSVRange, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return HSVRange{}, fmt.Errorf("hsv range %q: want low-high", s)
	}
	low, err := parseHSV(parts[0])
	if err != nil {
		return HSVRange{}, fmt.Errorf("hsv range %q: %w", s, err)
	}
	high, err := parseHSV(parts[1])
	if err != nil {
		return HSVRange{}, fmt.Errorf("hsv range %q: %w", s, err)
	}
	r := HSVRange{Low: low, High: high}
	if !r.Valid() {
		return HSVRange{}, fmt.Errorf("hsv range %q: low exceeds high", s)
	}
	return r, nil
}

func parseHSV(s string) (HSV, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return HSV{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var v [3]uint8
	for i, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return HSV{}, err
		}
		v[i] = uint8(n)
	}
	return HSV{H: v[0], S: v[1], V: v[2]}, nil
}
