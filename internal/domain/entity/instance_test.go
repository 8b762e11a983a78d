package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolygon_BoundsAndCenter(t *testing.T) {
	square := Polygon{{10, 20}, {18, 20}, {18, 26}, {10, 26}}

	x, y := square.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
	require.Equal(t, image.Rect(10, 20, 19, 27), square.Bounds())

	require.Equal(t, image.Rectangle{}, Polygon{}.Bounds())
}

func TestMergeCategories(t *testing.T) {
	instances := []FruitInstance{{Label: 2, Area: 3000}, {Label: 3, Area: 4000}, {Label: 5, Area: 2500}}
	cats := map[int]Category{2: CategoryGreen, 3: CategoryYellowSpotted, 5: CategoryYellowSpotted}

	merged, counts, err := MergeCategories(instances, cats)
	require.NoError(t, err)
	require.Len(t, merged, 3)
	require.Equal(t, CategoryYellowSpotted, merged[1].Category)
	require.Equal(t, 4000.0, merged[1].Area)
	require.Equal(t, CategoryCounts{Green: 1, YellowSpotted: 2}, counts)
}

func TestMergeCategories_MissingLabel(t *testing.T) {
	_, _, err := MergeCategories([]FruitInstance{{Label: 9}}, map[int]Category{})
	require.ErrorIs(t, err, ErrUnclassifiedInstance)
}
