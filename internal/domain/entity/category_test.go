package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategory_NamesAndValidity(t *testing.T) {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		require.True(t, c.Valid())
		names = append(names, c.String())
	}
	require.Equal(t, []string{"green", "yellow_clean", "yellow_spotted"}, names)

	require.False(t, Category(7).Valid())
	require.Equal(t, "category(7)", Category(7).String())
}

func TestCategoryCounts_AddDoesNotMutate(t *testing.T) {
	var c CategoryCounts
	next := c.Add(CategoryYellowSpotted, 3).Add(CategoryGreen, 1)

	require.Equal(t, 0, c.Sum())
	require.Equal(t, 3, next.Get(CategoryYellowSpotted))
	require.Equal(t, 1, next.Get(CategoryGreen))
	require.Equal(t, 4, next.Sum())
}

func TestAggregate_ZeroTotal(t *testing.T) {
	p := Aggregate(CategoryCounts{Green: 5}, 0)
	require.Equal(t, CategoryPercentages{}, p)
}

func TestAggregate_SumsToHundred(t *testing.T) {
	counts := CategoryCounts{Green: 1, YellowClean: 1, YellowSpotted: 1}
	p := Aggregate(counts, counts.Sum())

	require.InDelta(t, 100.0, p.Green+p.YellowClean+p.YellowSpotted, 1e-9)
	require.InDelta(t, 33.333, p.Get(CategoryYellowClean), 1e-3)
}
