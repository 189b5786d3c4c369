package lightning

import (
	"math"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/geom"
)

// Settings are the user-facing generator settings in millimetres, percent
// and degrees. Resolve turns them into Params.
type Settings struct {
	ExtrusionWidth     float64 `toml:"extrusion_width"`     // mm
	Density            float64 `toml:"density"`             // percent, (0, 100]
	LayerHeight        float64 `toml:"layer_height"`        // mm
	OverhangAngle      float64 `toml:"overhang_angle"`      // degrees from vertical
	PruneLength        float64 `toml:"prune_length"`        // mm
	StraighteningAngle float64 `toml:"straightening_angle"` // degrees from vertical
	BranchReach        float64 `toml:"branch_reach"`        // mm, 0 = default
	WallGrounding      bool    `toml:"wall_grounding"`
	Workers            int     `toml:"workers"`
}

// DefaultSettings returns settings for a 0.45 mm line at 20% density.
func DefaultSettings() Settings {
	return Settings{
		ExtrusionWidth:     0.45,
		Density:            20,
		LayerHeight:        0.2,
		OverhangAngle:      45,
		PruneLength:        2,
		StraighteningAngle: 45,
	}
}

// Resolve derives scaled parameters:
//
//	line distance          = width * 100 / density
//	supporting radius      = line distance / 2
//	wall supporting radius = layer height * tan(overhang angle)
//	straightening distance = layer height * tan(straightening angle)
func (s Settings) Resolve() (Params, error) {
	floats := []struct {
		name string
		v    float64
	}{
		{"extrusion width", s.ExtrusionWidth},
		{"density", s.Density},
		{"layer height", s.LayerHeight},
		{"overhang angle", s.OverhangAngle},
		{"prune length", s.PruneLength},
		{"straightening angle", s.StraighteningAngle},
		{"branch reach", s.BranchReach},
	}
	for _, f := range floats {
		if err := errors.ValidateFinite(f.name, f.v, false); err != nil {
			return Params{}, err
		}
	}
	if s.ExtrusionWidth == 0 {
		return Params{}, errors.New(errors.ErrCodeInvalidConfig, "extrusion width must be positive")
	}
	if s.Density == 0 || s.Density > 100 {
		return Params{}, errors.New(errors.ErrCodeInvalidConfig, "density must be in (0, 100], got %v", s.Density)
	}
	if s.LayerHeight == 0 {
		return Params{}, errors.New(errors.ErrCodeInvalidConfig, "layer height must be positive")
	}
	for _, a := range []struct {
		name string
		v    float64
	}{{"overhang angle", s.OverhangAngle}, {"straightening angle", s.StraighteningAngle}} {
		if a.v >= 90 {
			return Params{}, errors.New(errors.ErrCodeInvalidConfig, "%s must be below 90 degrees, got %v", a.name, a.v)
		}
	}

	lineDistance := s.ExtrusionWidth * 100 / s.Density
	p := Params{
		InfillExtrusionWidth:     geom.Scale(s.ExtrusionWidth),
		SupportingRadius:         geom.Scale(lineDistance / 2),
		WallSupportingRadius:     geom.Scale(s.LayerHeight * math.Tan(s.OverhangAngle*math.Pi/180)),
		PruneLength:              geom.Scale(s.PruneLength),
		StraighteningMaxDistance: geom.Scale(s.LayerHeight * math.Tan(s.StraighteningAngle*math.Pi/180)),
		BranchReach:              geom.Scale(s.BranchReach),
		WallGrounding:            s.WallGrounding,
		Workers:                  s.Workers,
	}
	if s.Workers < 0 {
		return Params{}, errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", s.Workers)
	}
	return p, p.Validate()
}
