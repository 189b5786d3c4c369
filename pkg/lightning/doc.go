// Package lightning generates the Lightning infill pattern: per layer, a
// forest of branching paths that supports the overhanging parts of the
// layer above while printing as little material as possible.
//
// The work happens in two phases. ComputeOverhang derives, independently per
// layer, the region that needs support from below. A Builder then walks the
// layers from the top down; each step carries the previous layer's forest
// down, grows it to cover the new need, prunes branches that have travelled
// too far without supporting anything, and straightens the remaining runs.
// Generator drives both phases for a whole print object.
package lightning
