package lightning

import (
	"math"

	"github.com/chazu/lightning/pkg/geom"
)

// Representative picks the point at which an uncovered need component is
// attached to the forest. samples are the component's uncovered grid points
// in row-major order, never empty. The builder falls back to the first
// sample when the pick is outside the overhang or covers none of samples.
type Representative interface {
	Pick(samples []geom.Point, l *Layer) geom.Point
}

// CentroidPicker picks the component centroid.
type CentroidPicker struct{}

// Pick implements Representative.
func (CentroidPicker) Pick(samples []geom.Point, _ *Layer) geom.Point {
	return geom.Centroid(samples)
}

// FarthestPicker picks the sample farthest from every existing node, which
// pushes new nodes toward the far end of the need. On an empty layer it
// picks the first sample.
type FarthestPicker struct{}

// Pick implements Representative.
func (FarthestPicker) Pick(samples []geom.Point, l *Layer) geom.Point {
	best, bestD := samples[0], -1.0
	for _, s := range samples {
		d := math.Inf(1)
		l.Walk(func(_ NodeID, n Node, _ int) {
			d = math.Min(d, n.Pos.Distance(s))
		})
		if math.IsInf(d, 1) {
			return samples[0]
		}
		if d > bestD {
			best, bestD = s, d
		}
	}
	return best
}
