package lightning

// Stats counts what the builder did.
type Stats struct {
	Layers       int
	RootsSpawned int // fresh roots, including roots grounded on the outline
	Grown        int // children grown to cover need
	Branched     int // nodes inserted into existing segments to branch from
	Pruned       int // nodes removed or cut back by pruning
	Straightened int // interior nodes dropped by straightening
	Snapped      int // carried nodes moved onto the printable area
	Dropped      int // carried nodes outside the printable area and out of reach
}

func (s *Stats) add(o Stats) {
	s.Layers += o.Layers
	s.RootsSpawned += o.RootsSpawned
	s.Grown += o.Grown
	s.Branched += o.Branched
	s.Pruned += o.Pruned
	s.Straightened += o.Straightened
	s.Snapped += o.Snapped
	s.Dropped += o.Dropped
}
