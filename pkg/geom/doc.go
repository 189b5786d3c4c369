// Package geom defines the fixed-point 2D geometry primitives shared by the
// overhang calculator and the tree builder: points, polygons with holes,
// polylines, bounding boxes and the distance and simplification helpers
// built on them.
//
// Coordinates are integers in scaled units; ScaleFactor units make one
// millimetre, so one unit is a nanometre.
package geom
