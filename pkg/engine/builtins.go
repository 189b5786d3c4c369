package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: with-holes -> with_holes
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geom.Point so it can be passed between builtins.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %.3f %.3f)", geom.Unscale(p.p.X), geom.Unscale(p.p.Y))
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a set of polygons with holes, as produced by rect,
// circle, polygon and with-holes.
type sexpShape struct {
	polys geom.ExPolygons
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape %d polygons, %.3f mm2)", len(s.polys), s.polys.Area()/(geom.ScaleFactor*geom.ScaleFactor))
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool accepts a boolean or a number (non-zero is true).
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a point from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts polygons from a shape or from a list of shapes.
func toShape(s zygo.Sexp) (geom.ExPolygons, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.polys, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected shape or list of shapes, got %T (%s)", s, s.SexpString(nil))
	}
	var out geom.ExPolygons
	for i, item := range items {
		sh, ok := item.(*sexpShape)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected shape, got %T (%s)", i, item, item.SexpString(nil))
		}
		out = append(out, sh.polys...)
	}
	return out, nil
}

// toPoints extracts points from positional arguments, accepting either
// point values or a single list of points.
func toPoints(args []zygo.Sexp) ([]geom.Point, error) {
	if len(args) == 1 {
		if items, err := sexpListToSlice(args[0]); err == nil {
			args = items
		}
	}
	pts := make([]geom.Point, 0, len(args))
	for i, a := range args {
		p, err := toPoint(a)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// ccw returns pg in counter-clockwise order.
func ccw(pg geom.Polygon) geom.Polygon {
	if pg.Area() < 0 {
		return pg.Reversed()
	}
	return pg
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// defaultCircleSegments is the number of edges used to approximate a circle.
const defaultCircleSegments = 64

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins operate on the provided Scene, populating it
// during evaluation. Lengths are in millimetres.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (scene-name "bracket")
	// -----------------------------------------------------------------------
	env.AddFunction("scene_name", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("scene-name requires exactly 1 argument, got %d", len(args))
		}
		n, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene-name: %w", err)
		}
		s.Name = n
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (pt 1.5 2)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: geom.PtMM(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (rect 0 0 10 5)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rect requires min-x min-y max-x max-y, got %d arguments", len(args))
		}
		var v [4]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: argument %d: %w", i, err)
			}
			v[i] = f
		}
		if v[2] <= v[0] || v[3] <= v[1] {
			return zygo.SexpNull, fmt.Errorf("rect: max corner (%g, %g) must exceed min corner (%g, %g)", v[2], v[3], v[0], v[1])
		}
		r := geom.Rect(geom.Scale(v[0]), geom.Scale(v[1]), geom.Scale(v[2]), geom.Scale(v[3]))
		return &sexpShape{polys: geom.ExPolygons{r}}, nil
	})

	// -----------------------------------------------------------------------
	// (circle 5 5 2 :segments 32)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("circle requires cx cy radius, got %d arguments", len(pa.positional))
		}
		var v [3]float64
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: argument %d: %w", i, err)
			}
			v[i] = f
		}
		if v[2] <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive, got %g", v[2])
		}
		segments := defaultCircleSegments
		if sv, ok := pa.kw["segments"]; ok {
			f, err := toFloat64(sv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: segments: %w", err)
			}
			if f < 3 {
				return zygo.SexpNull, fmt.Errorf("circle: segments must be at least 3, got %g", f)
			}
			segments = int(f)
		}
		pg := make(geom.Polygon, segments)
		for i := range pg {
			a := 2 * math.Pi * float64(i) / float64(segments)
			pg[i] = geom.PtMM(v[0]+v[2]*math.Cos(a), v[1]+v[2]*math.Sin(a))
		}
		return &sexpShape{polys: geom.ExPolygons{{Contour: pg}}}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (pt 0 0) (pt 10 0) (pt 5 8))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := toPoints(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		if len(pts) < 3 {
			return zygo.SexpNull, fmt.Errorf("polygon requires at least 3 points, got %d", len(pts))
		}
		return &sexpShape{polys: geom.ExPolygons{{Contour: ccw(geom.Polygon(pts))}}}, nil
	})

	// -----------------------------------------------------------------------
	// (with-holes (rect 0 0 10 10) (circle 5 5 2) ...)
	//
	// Note: registered as "with_holes" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts with-holes to
	// with_holes in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("with_holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("with-holes requires an outer shape")
		}
		outer, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("with-holes: outer: %w", err)
		}
		if len(outer) != 1 {
			return zygo.SexpNull, fmt.Errorf("with-holes: outer must be a single polygon, got %d", len(outer))
		}
		out := geom.ExPolygon{Contour: outer[0].Contour, Holes: append([]geom.Polygon(nil), outer[0].Holes...)}
		for i := 1; i < len(args); i++ {
			hole, err := toShape(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("with-holes: hole %d: %w", i, err)
			}
			for _, h := range hole {
				out.Holes = append(out.Holes, h.Contour)
			}
		}
		return &sexpShape{polys: geom.ExPolygons{out}}, nil
	})

	// -----------------------------------------------------------------------
	// (layer :infill (rect 0 0 10 10) :walls (list ...) :thickness 0.2 :repeat 3)
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var l scene.Layer
		repeat := 1

		if v, ok := pa.kw["infill"]; ok {
			polys, err := toShape(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: infill: %w", err)
			}
			l.Infill = polys
		}
		if v, ok := pa.kw["walls"]; ok {
			polys, err := toShape(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: walls: %w", err)
			}
			l.Walls = polys
		}
		if v, ok := pa.kw["thickness"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: thickness: %w", err)
			}
			l.Thickness = geom.Scale(f)
		}
		if v, ok := pa.kw["repeat"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: repeat: %w", err)
			}
			if f < 1 {
				return zygo.SexpNull, fmt.Errorf("layer: repeat must be at least 1, got %g", f)
			}
			repeat = int(f)
		}

		idx := 0
		for range repeat {
			idx = s.AddLayer(l)
		}
		return &zygo.SexpInt{Val: int64(idx)}, nil
	})

	// -----------------------------------------------------------------------
	// (settings :extrusion-width 0.45 :density 20 :wall-grounding true)
	// -----------------------------------------------------------------------
	env.AddFunction("settings", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("settings takes keyword arguments only")
		}
		floats := map[string]*float64{
			"extrusion-width":     &s.Settings.ExtrusionWidth,
			"density":             &s.Settings.Density,
			"layer-height":        &s.Settings.LayerHeight,
			"overhang-angle":      &s.Settings.OverhangAngle,
			"prune-length":        &s.Settings.PruneLength,
			"straightening-angle": &s.Settings.StraighteningAngle,
			"branch-reach":        &s.Settings.BranchReach,
		}
		for key, v := range pa.kw {
			switch key {
			case "wall-grounding":
				b, err := toBool(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: %s: %w", key, err)
				}
				s.Settings.WallGrounding = b
			case "workers":
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: %s: %w", key, err)
				}
				s.Settings.Workers = int(f)
			default:
				dst, ok := floats[key]
				if !ok {
					return zygo.SexpNull, fmt.Errorf("settings: unknown setting %q", key)
				}
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: %s: %w", key, err)
				}
				*dst = f
			}
		}
		return zygo.SexpNull, nil
	})
}
