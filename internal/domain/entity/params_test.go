package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultParams_Valid(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
}

func TestParams_ValidateRejects(t *testing.T) {
	cases := map[string]func(p *Params){
		"inverted range":   func(p *Params) { p.Spot = HSVRange{Low: HSV{30, 0, 0}, High: HSV{5, 0, 0}} },
		"zero kernel":      func(p *Params) { p.LocalMaximaKernel = 0 },
		"canny order":      func(p *Params) { p.CannyLow, p.CannyHigh = 200, 100 },
		"negative area":    func(p *Params) { p.MinBananaArea = -1 },
		"spot threshold":   func(p *Params) { p.SpotThreshold = 1.5 },
		"negative dilates": func(p *Params) { p.EdgeDilateIterations = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams()
			mutate(&p)
			require.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestParams_RangeFor(t *testing.T) {
	p := DefaultParams()
	require.Equal(t, p.Green, p.RangeFor(CategoryGreen))
	require.Equal(t, p.Yellow, p.RangeFor(CategoryYellowClean))
	require.Equal(t, p.Spot, p.RangeFor(CategoryYellowSpotted))
}
