package lightning

import (
	"context"
	"sync"
	"time"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/kernel"
)

// Generator holds the overhang regions and finished forests of every layer
// of one print object. Both are computed in New and never change.
type Generator struct {
	params    Params
	overhangs []kernel.Region
	layers    []*Layer
	stats     Stats
}

// New validates p, computes every layer's overhang on a bounded worker pool
// and then builds the forests from the top layer down. layers are ordered
// bottom to top and layers[i].Index must equal i. New checks ctx between
// layers and returns a CANCELED error when it is done.
func New(ctx context.Context, k kernel.Kernel, layers []LayerGeometry, p Params, opts ...Option) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil kernel")
	}
	for i, lg := range layers {
		if lg.Index != i {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layer at position %d has index %d", i, lg.Index)
		}
	}

	o := applyOptions(opts)
	p = p.withDefaults()
	start := time.Now()

	overhangs, err := computeOverhangs(ctx, k, layers, p)
	if err != nil {
		return nil, err
	}

	b, err := NewBuilder(k, p, WithLogger(o.logger), WithRepresentative(o.picker))
	if err != nil {
		return nil, err
	}
	built := make([]*Layer, len(layers))
	for i := len(layers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "generation aborted at layer %d", i)
		}
		built[i] = b.Step(LayerInput{Index: i, Overhang: overhangs[i], Area: layers[i].Infill})
	}

	g := &Generator{
		params:    p,
		overhangs: overhangs,
		layers:    built,
		stats:     b.Stats(),
	}
	o.logger.Info("lightning trees generated",
		"layers", len(layers),
		"roots", g.stats.RootsSpawned,
		"pruned", g.stats.Pruned,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return g, nil
}

// computeOverhangs runs ComputeOverhang for every layer on p.Workers
// goroutines. Tasks only read adjacent layers and write their own slot.
func computeOverhangs(ctx context.Context, k kernel.Kernel, layers []LayerGeometry, p Params) ([]kernel.Region, error) {
	out := make([]kernel.Region, len(layers))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(p.Workers, len(layers)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				var above *LayerGeometry
				if i+1 < len(layers) {
					above = &layers[i+1]
				}
				out[i] = ComputeOverhang(k, above, layers[i], p.WallSupportingRadius)
			}
		}()
	}

dispatch:
	for i := range layers {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "overhang computation aborted")
	}
	return out, nil
}

// LayerCount returns the number of layers.
func (g *Generator) LayerCount() int {
	return len(g.layers)
}

// TreesForLayer returns the finished forest of layer id. It fails with
// OUT_OF_RANGE outside [0, LayerCount()).
func (g *Generator) TreesForLayer(id int) (*Layer, error) {
	if err := errors.ValidateIndex("layer", id, len(g.layers)); err != nil {
		return nil, err
	}
	return g.layers[id], nil
}

// Overhang returns the overhang region of layer id. It fails with
// OUT_OF_RANGE outside [0, LayerCount()).
func (g *Generator) Overhang(id int) (kernel.Region, error) {
	if err := errors.ValidateIndex("layer", id, len(g.overhangs)); err != nil {
		return nil, err
	}
	return g.overhangs[id], nil
}

// Params returns the parameters the generator ran with, defaults filled in.
func (g *Generator) Params() Params {
	return g.params
}

// Stats returns the builder totals over all layers.
func (g *Generator) Stats() Stats {
	return g.stats
}
