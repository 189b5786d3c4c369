// Package scene holds a print object described layer by layer: the wall
// and infill cross-sections of each layer plus the generator settings.
// Scenes are produced by the scene DSL in pkg/engine and consumed by the
// lightning generator.
package scene

import (
	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/lightning"
)

// Layer is one sliced layer of the object.
type Layer struct {
	Walls     geom.ExPolygons
	Infill    geom.ExPolygons
	Thickness geom.Coord // zero means the scene's layer height
}

// Scene is an ordered stack of layers, bottom first.
type Scene struct {
	Name     string
	Settings lightning.Settings
	Layers   []Layer
}

// New returns an empty scene with default settings.
func New(name string) *Scene {
	return &Scene{
		Name:     name,
		Settings: lightning.DefaultSettings(),
	}
}

// AddLayer appends l on top of the stack and returns its index.
func (s *Scene) AddLayer(l Layer) int {
	s.Layers = append(s.Layers, l)
	return len(s.Layers) - 1
}

// LayerCount returns the number of layers.
func (s *Scene) LayerCount() int {
	return len(s.Layers)
}

// Geometry converts the layers into generator input. Layers without a
// thickness get the scene's layer height.
func (s *Scene) Geometry() []lightning.LayerGeometry {
	out := make([]lightning.LayerGeometry, len(s.Layers))
	for i, l := range s.Layers {
		th := l.Thickness
		if th == 0 {
			th = geom.Scale(s.Settings.LayerHeight)
		}
		out[i] = lightning.LayerGeometry{
			Index:     i,
			Thickness: th,
			Walls:     l.Walls,
			Infill:    l.Infill,
		}
	}
	return out
}
