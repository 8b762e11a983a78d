package report

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

func TestDescribe_Pixel(t *testing.T) {
	counts := entity.CategoryCounts{Green: 1000, YellowClean: 234567, YellowSpotted: 0}
	r := entity.NewAnalysisResult(entity.ModePixel, image.Pt(640, 480), counts, counts.Sum())

	out := NewTextDescriber().Describe("/tmp/photos/bunch.jpg", r)
	lines := strings.Split(out, "\n")

	require.Equal(t, "Analyzing: bunch.jpg", lines[0])
	require.Equal(t, strings.Repeat("=", 45), lines[1])
	require.Contains(t, out, "Green:                 0.4%")
	require.Contains(t, out, "Yellow (no spots):    99.6%")
	require.Contains(t, out, "Yellow (spotted):      0.0%")
	require.Contains(t, out, "Total banana area: 235,567 pixels")
	require.Equal(t, strings.Repeat("=", 45), lines[len(lines)-1])
}

func TestDescribe_BananaCounts(t *testing.T) {
	counts := entity.CategoryCounts{Green: 1, YellowClean: 2, YellowSpotted: 1}
	r := entity.NewAnalysisResult(entity.ModeBanana, image.Pt(10, 10), counts, 4)

	out := NewTextDescriber().Describe("b.png", r)
	require.Contains(t, out, "(banana mode)")
	require.Contains(t, out, "Total bananas: 4")
	require.Contains(t, out, "Yellow (no spots):       2")
	require.NotContains(t, out, "pixels")
}

func TestDescribe_RegionEmpty(t *testing.T) {
	r := entity.NewAnalysisResult(entity.ModeRegion, image.Pt(10, 10), entity.CategoryCounts{}, 0)

	out := NewTextDescriber().Describe("c.png", r)
	require.Contains(t, out, "Total regions: 0")
	require.Contains(t, out, "Green:                 0.0%")
}

func TestDescribe_PixelAreaGrouping(t *testing.T) {
	d := NewTextDescriber()
	cases := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567"}
	for n, want := range cases {
		r := entity.NewAnalysisResult(entity.ModePixel, image.Pt(10, 10), entity.CategoryCounts{YellowClean: n}, n)
		require.Contains(t, d.Describe("a.png", r), "Total banana area: "+want+" pixels")
	}
}
