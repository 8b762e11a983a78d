package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nathaniel-sheetz/BananaVision/config"
	app "github.com/nathaniel-sheetz/BananaVision/internal/application"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
)

func TestParseFlags(t *testing.T) {
	cfg := &config.Config{Mode: entity.ModePixel, Workers: 4}
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-mode", "banana", "-workers", "2", "-json", "a.jpg", "dir/"}, cfg, &stderr)
	require.NoError(t, err)
	require.Equal(t, entity.ModeBanana, opts.mode)
	require.Equal(t, 2, opts.workers)
	require.True(t, opts.json)
	require.Equal(t, []string{"a.jpg", "dir/"}, opts.paths)

	opts, err = parseFlags([]string{"x.png"}, cfg, &stderr)
	require.NoError(t, err)
	require.Equal(t, entity.ModePixel, opts.mode)
	require.Equal(t, 4, opts.workers)

	_, err = parseFlags([]string{"-mode", "video", "x.png"}, cfg, &stderr)
	require.ErrorIs(t, err, entity.ErrUnknownMode)

	_, err = parseFlags(nil, cfg, &stderr)
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	counts := entity.CategoryCounts{Green: 1, YellowSpotted: 1}
	items := []app.BatchItem{
		{Path: "a.jpg", Analysis: &app.Analysis{
			RunID:  "run-1",
			Result: entity.NewAnalysisResult(entity.ModeBanana, image.Pt(1, 1), counts, 2),
		}},
		{Path: "b.jpg", Err: errors.New("decode failed")},
	}

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, items))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	require.Equal(t, "a.jpg", got[0]["image"])
	require.Equal(t, "banana", got[0]["mode"])
	require.Equal(t, 50.0, got[0]["green_percent"])
	require.Equal(t, 2.0, got[0]["total_bananas"])
	require.NotContains(t, got[0], "error")

	require.Equal(t, "decode failed", got[1]["error"])
	require.NotContains(t, got[1], "mode")
}

func TestArtifactPath(t *testing.T) {
	require.Equal(t, filepath.Join("out", "bunch_spot_mask.png"), artifactPath("out", "photos/bunch.JPG", "spot_mask"))
}

func TestWriteDebug(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	items := []app.BatchItem{
		{Path: "in/one.jpg", Analysis: &app.Analysis{Artifacts: []entity.Artifact{
			{Name: "spot_mask", Image: img},
			{Name: "instances_green", Image: img, Count: 2},
		}}},
		{Path: "in/two.jpg", Err: errors.New("decode failed")},
	}

	writeDebug(dir, items, zerolog.Nop())

	for _, name := range []string{"one_spot_mask.png", "one_instances_green.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "two_*"))
	require.NoError(t, err)
	require.Empty(t, matches)
}
