package lightning

import (
	"math"
	"testing"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	p, err := DefaultSettings().Resolve()
	require.NoError(t, err)

	assert.Equal(t, geom.Scale(0.45), p.InfillExtrusionWidth)
	assert.Equal(t, geom.Scale(1.125), p.SupportingRadius, "half of 0.45*100/20")
	assert.Equal(t, geom.Scale(0.2), p.WallSupportingRadius)
	assert.Equal(t, geom.Scale(0.2), p.StraighteningMaxDistance)
	assert.Equal(t, geom.Scale(2), p.PruneLength)
	assert.Zero(t, p.BranchReach)

	full := p.withDefaults()
	assert.Equal(t, 2*p.SupportingRadius, full.BranchReach)
	assert.Equal(t, p.InfillExtrusionWidth, full.SampleSpacing)
	assert.Positive(t, full.Workers)
}

func TestSampleSpacingIndependentOfRadius(t *testing.T) {
	for _, r := range []float64{0.5, 1, 2.5} {
		p := Params{InfillExtrusionWidth: geom.Scale(0.4), SupportingRadius: geom.Scale(r)}
		assert.Equal(t, geom.Scale(0.4), p.withDefaults().SampleSpacing, "radius %v", r)
	}
	bare := Params{SupportingRadius: geom.Scale(1)}
	assert.Equal(t, geom.Scale(1), bare.withDefaults().SampleSpacing)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.ExtrusionWidth = 0 }},
		{"zero density", func(s *Settings) { s.Density = 0 }},
		{"density above 100", func(s *Settings) { s.Density = 150 }},
		{"zero layer height", func(s *Settings) { s.LayerHeight = 0 }},
		{"vertical overhang angle", func(s *Settings) { s.OverhangAngle = 90 }},
		{"negative prune length", func(s *Settings) { s.PruneLength = -1 }},
		{"nan angle", func(s *Settings) { s.StraighteningAngle = math.NaN() }},
		{"negative workers", func(s *Settings) { s.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			_, err := s.Resolve()
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestResolveDensity(t *testing.T) {
	s := DefaultSettings()
	s.Density = 100
	p, err := s.Resolve()
	require.NoError(t, err)
	assert.Equal(t, geom.Scale(0.225), p.SupportingRadius)
}
