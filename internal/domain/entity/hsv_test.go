package entity

import (
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

// hsvOf переводит цвет в HSV с масштабом OpenCV (H в полуградусах)
func hsvOf(c color.Color) HSV {
	col, _ := colorful.MakeColor(c)
	h, s, v := col.Hsv()
	return HSV{
		H: uint8(math.Round(h/2)) % 180,
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

func inRange(r HSVRange, c color.Color) bool {
	return r.Contains(hsvOf(c))
}

func TestHSVOf_OpenCVScale(t *testing.T) {
	require.Equal(t, HSV{H: 30, S: 255, V: 255}, hsvOf(color.RGBA{R: 255, G: 255, A: 255}))
	require.Equal(t, HSV{H: 60, S: 255, V: 255}, hsvOf(color.RGBA{G: 255, A: 255}))
	require.Equal(t, HSV{H: 0, S: 0, V: 0}, hsvOf(color.Black))
}

func TestDefaultRanges_Classify(t *testing.T) {
	p := DefaultParams()

	green := color.RGBA{G: 255, A: 255}
	yellow := color.RGBA{R: 255, G: 255, A: 255}
	brown := color.RGBA{R: 139, G: 69, B: 19, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	require.True(t, inRange(p.Green, green))
	require.False(t, inRange(p.Yellow, green))

	require.True(t, inRange(p.Yellow, yellow))
	require.False(t, inRange(p.Spot, yellow))

	require.True(t, inRange(p.Spot, brown))
	require.False(t, inRange(p.Yellow, brown))

	for _, r := range []HSVRange{p.Green, p.Yellow, p.Spot} {
		require.False(t, inRange(r, blue))
	}
}

func TestHSVRange_BoundsInclusive(t *testing.T) {
	r := HSVRange{Low: HSV{15, 100, 100}, High: HSV{32, 255, 255}}
	require.True(t, r.Contains(HSV{15, 100, 100}))
	require.True(t, r.Contains(HSV{32, 255, 255}))
	require.False(t, r.Contains(HSV{33, 200, 200}))
	require.False(t, r.Contains(HSV{20, 99, 200}))
}

func TestParseHSVRange(t *testing.T) {
	r, err := ParseHSVRange(" 32,80,80-65,255,255 ")
	require.NoError(t, err)
	require.Equal(t, DefaultParams().Green, r)
	require.Equal(t, "32,80,80-65,255,255", r.String())

	for _, bad := range []string{"", "1,2,3", "1,2-3,4,5", "40,0,0-30,0,0", "1,2,300-4,5,6", "1,2,3-200,5,6"} {
		_, err := ParseHSVRange(bad)
		require.Error(t, err, bad)
	}
}

func TestHSVRange_DisplayColorIsInsideRange(t *testing.T) {
	p := DefaultParams()
	for _, r := range []HSVRange{p.Green, p.Yellow, p.Spot} {
		require.True(t, inRange(r, r.DisplayColor()), r.String())
	}
}
