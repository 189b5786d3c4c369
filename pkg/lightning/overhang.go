package lightning

import (
	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/kernel"
)

// LayerGeometry is the sliced cross-section of one infill-bearing layer.
type LayerGeometry struct {
	Index     int
	Thickness geom.Coord
	Walls     geom.ExPolygons
	Infill    geom.ExPolygons // printable infill area
}

// ComputeOverhang returns the part of here's infill area that needs support
// from below. The band within wallSupportingRadius of this layer's outline
// leans on the walls; infill above is printed on top of solid infill, and
// walls above grown by wallSupportingRadius support what lies under them.
// above is nil for the top layer. An empty result is valid.
func ComputeOverhang(k kernel.Kernel, above *LayerGeometry, here LayerGeometry, wallSupportingRadius geom.Coord) kernel.Region {
	region := k.Offset(k.FromExPolygons(here.Infill), -wallSupportingRadius)
	if above == nil {
		return region
	}
	region = k.Difference(region, k.FromExPolygons(above.Infill))
	if len(above.Walls) > 0 {
		region = k.Difference(region, k.Offset(k.FromExPolygons(above.Walls), wallSupportingRadius))
	}
	return region
}
