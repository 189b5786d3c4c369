// Package export walks a finished generator and produces a JSON document
// of the infill tree paths of every layer, in millimetres.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/lightning"
)

// Document is the exported form of one generated object.
type Document struct {
	Name   string  `json:"name,omitempty"`
	Unit   string  `json:"unit"`
	Stats  Stats   `json:"stats"`
	Layers []Layer `json:"layers"`
}

// Stats mirrors lightning.Stats.
type Stats struct {
	RootsSpawned int `json:"roots_spawned"`
	Grown        int `json:"grown"`
	Branched     int `json:"branched"`
	Pruned       int `json:"pruned"`
	Straightened int `json:"straightened"`
	Snapped      int `json:"snapped"`
	Dropped      int `json:"dropped"`
}

// Layer holds the paths of one layer. Z is the top of the layer measured
// from the bottom of the stack, or zero when no geometry was given.
type Layer struct {
	Index  int            `json:"index"`
	Z      float64        `json:"z"`
	Nodes  int            `json:"nodes"`
	Roots  int            `json:"roots"`
	Height int            `json:"height"`
	Paths  [][][2]float64 `json:"paths"`
}

// Build walks every layer of g. geometry, when non-nil, must be the layer
// list g was generated from and supplies layer heights.
func Build(name string, g *lightning.Generator, geometry []lightning.LayerGeometry) (*Document, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil generator")
	}
	if geometry != nil && len(geometry) != g.LayerCount() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"geometry has %d layers, generator has %d", len(geometry), g.LayerCount())
	}

	st := g.Stats()
	doc := &Document{
		Name: name,
		Unit: "mm",
		Stats: Stats{
			RootsSpawned: st.RootsSpawned,
			Grown:        st.Grown,
			Branched:     st.Branched,
			Pruned:       st.Pruned,
			Straightened: st.Straightened,
			Snapped:      st.Snapped,
			Dropped:      st.Dropped,
		},
		Layers: make([]Layer, 0, g.LayerCount()),
	}

	var z geom.Coord
	for i := range g.LayerCount() {
		l, err := g.TreesForLayer(i)
		if err != nil {
			return nil, fmt.Errorf("export: layer %d: %w", i, err)
		}
		if geometry != nil {
			z += geometry[i].Thickness
		}
		doc.Layers = append(doc.Layers, walkLayer(l, z))
	}
	return doc, nil
}

// walkLayer converts one forest into its exported form.
func walkLayer(l *lightning.Layer, z geom.Coord) Layer {
	out := Layer{
		Index:  l.Index(),
		Z:      geom.Unscale(z),
		Nodes:  l.Len(),
		Roots:  len(l.Roots()),
		Height: l.Height(),
		Paths:  [][][2]float64{},
	}
	for _, pl := range l.ExportPaths() {
		path := make([][2]float64, len(pl))
		for i, p := range pl {
			path[i] = [2]float64{geom.Unscale(p.X), geom.Unscale(p.Y)}
		}
		out.Paths = append(out.Paths, path)
	}
	return out
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}
