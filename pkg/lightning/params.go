package lightning

import (
	"runtime"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/geom"
)

// Params are the resolved generator parameters. All lengths are in scaled
// units (geom.ScaleFactor per millimetre).
type Params struct {
	InfillExtrusionWidth     geom.Coord
	SupportingRadius         geom.Coord
	WallSupportingRadius     geom.Coord
	PruneLength              geom.Coord
	StraighteningMaxDistance geom.Coord

	// BranchReach is how far a new need point may be connected to an
	// existing node. Zero selects 2*SupportingRadius.
	BranchReach geom.Coord
	// SampleSpacing is the pitch of the need classification grid. Zero
	// selects InfillExtrusionWidth, or SupportingRadius when the width is
	// zero too. The grid does not move with the supporting radius.
	SampleSpacing geom.Coord
	// WallGrounding anchors fresh trees on the layer outline when the
	// outline is within BranchReach.
	WallGrounding bool
	// Workers bounds the overhang worker pool. Zero selects GOMAXPROCS.
	Workers int
}

// Validate returns an INVALID_CONFIG error for any negative length or a
// non-positive supporting radius.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    geom.Coord
	}{
		{"infill extrusion width", p.InfillExtrusionWidth},
		{"wall supporting radius", p.WallSupportingRadius},
		{"prune length", p.PruneLength},
		{"straightening max distance", p.StraighteningMaxDistance},
		{"branch reach", p.BranchReach},
		{"sample spacing", p.SampleSpacing},
	}
	if err := errors.ValidatePositive("supporting radius", p.SupportingRadius); err != nil {
		return err
	}
	for _, c := range checks {
		if err := errors.ValidateNonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	if p.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", p.Workers)
	}
	return nil
}

// withDefaults fills the zero-means-default fields.
func (p Params) withDefaults() Params {
	if p.BranchReach == 0 {
		p.BranchReach = 2 * p.SupportingRadius
	}
	if p.SampleSpacing == 0 {
		p.SampleSpacing = p.InfillExtrusionWidth
	}
	if p.SampleSpacing == 0 {
		p.SampleSpacing = p.SupportingRadius
	}
	if p.Workers == 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return p
}
