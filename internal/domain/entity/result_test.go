package entity

import (
	"encoding/json"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		parsed, err := ParseMode(string(m))
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}

	m, err := ParseMode(" Banana ")
	require.NoError(t, err)
	require.Equal(t, ModeBanana, m)

	_, err = ParseMode("video")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestAnalysisResult_PixelSummary(t *testing.T) {
	counts := CategoryCounts{Green: 250, YellowClean: 500, YellowSpotted: 250}
	r := NewAnalysisResult(ModePixel, image.Pt(64, 48), counts, counts.Sum())

	raw, err := json.Marshal(r.Summary())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, "pixel", got["mode"])
	require.Equal(t, 25.0, got["green_percent"])
	require.Equal(t, 50.0, got["yellow_clean_percent"])
	require.Equal(t, 1000.0, got["total_banana_pixels"])
	require.NotContains(t, got, "total_bananas")
	require.NotContains(t, got, "green_count")
}

func TestAnalysisResult_BananaSummary(t *testing.T) {
	counts := CategoryCounts{YellowClean: 1, YellowSpotted: 1}
	r := NewAnalysisResult(ModeBanana, image.Pt(10, 10), counts, 2)
	s := r.Summary()

	require.Nil(t, s.TotalBananaPixels)
	require.Nil(t, s.TotalRegions)
	require.Equal(t, 2, *s.TotalBananas)
	require.Equal(t, 0, *s.GreenCount)
	require.Equal(t, 50.0, s.YellowSpottedPercent)
}

func TestAnalysisResult_Empty(t *testing.T) {
	r := NewAnalysisResult(ModeBanana, image.Pt(10, 10), CategoryCounts{}, 0)
	require.Equal(t, CategoryPercentages{}, r.Percentages)
	require.Equal(t, 0, *r.Summary().TotalBananas)
}

func TestDebugArtifacts_Get(t *testing.T) {
	d := &DebugArtifacts{Artifacts: []Artifact{{Name: "spot_mask"}, {Name: "instances_green", Count: 2}}}

	a, ok := d.Get("instances_green")
	require.True(t, ok)
	require.Equal(t, 2, a.Count)

	_, ok = d.Get("missing")
	require.False(t, ok)
}
