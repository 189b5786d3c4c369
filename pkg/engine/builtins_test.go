package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/scene"
)

// evalScene evaluates source and fails the test on any error.
func evalScene(t *testing.T, source string) *scene.Scene {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(context.Background(), "test", source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	return s
}

// evalFails evaluates source and returns the first eval error message.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(context.Background(), "test", source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	return evalErrs[0].Message
}

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(layer :infill shape)`,
			expect: `(layer "__kw_infill" shape)`,
		},
		{
			name:   "multiple keywords",
			input:  `(settings :density 20 :workers 2)`,
			expect: `(settings "__kw_density" 20 "__kw_workers" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(with-holes outer-shape hole)`,
			expect: `(with_holes outer_shape hole)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(rect -5 -5 5 5)`,
			expect: `(rect -5 -5 5 5)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:prune-length`,
			expect: `"__kw_prune-length"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Layer tests
// ---------------------------------------------------------------------------

func TestSimpleLayer(t *testing.T) {
	s := evalScene(t, `
; a plain 10 mm block
(layer :infill (rect 0 0 10 10) :walls (rect 10 0 10.4 10) :thickness 0.3)
`)
	if s.LayerCount() != 1 {
		t.Fatalf("expected 1 layer, got %d", s.LayerCount())
	}
	l := s.Layers[0]
	if len(l.Infill) != 1 || len(l.Walls) != 1 {
		t.Fatalf("expected one infill and one wall polygon, got %d and %d", len(l.Infill), len(l.Walls))
	}
	want := geom.Rect(0, 0, geom.Scale(10), geom.Scale(10)).Contour
	got := l.Infill[0].Contour
	if len(got) != len(want) {
		t.Fatalf("expected %d vertices, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
	if l.Thickness != geom.Scale(0.3) {
		t.Errorf("expected thickness %d, got %d", geom.Scale(0.3), l.Thickness)
	}
}

func TestLayerRepeatAndIndex(t *testing.T) {
	s := evalScene(t, `
(def base (rect 0 0 10 10))
(layer :infill base :repeat 3)
(def top (layer :infill (rect 0 0 5 5)))
(layer :infill (list base (circle 20 20 2)))
`)
	if s.LayerCount() != 5 {
		t.Fatalf("expected 5 layers, got %d", s.LayerCount())
	}
	if got := len(s.Layers[4].Infill); got != 2 {
		t.Errorf("expected 2 infill polygons from the list, got %d", got)
	}
}

func TestCircle(t *testing.T) {
	s := evalScene(t, `(layer :infill (circle 5 5 2 :segments 8))`)
	contour := s.Layers[0].Infill[0].Contour
	if len(contour) != 8 {
		t.Fatalf("expected 8 vertices, got %d", len(contour))
	}
	centre := geom.PtMM(5, 5)
	for i, p := range contour {
		if d := p.Distance(centre); d < 1.999e6 || d > 2.001e6 {
			t.Errorf("vertex %d at distance %f from centre", i, d)
		}
	}
	if contour.Area() <= 0 {
		t.Error("expected counter-clockwise contour")
	}
}

func TestPolygonOrientation(t *testing.T) {
	s := evalScene(t, `(layer :infill (polygon (pt 0 0) (pt 0 10) (pt 10 0)))`)
	contour := s.Layers[0].Infill[0].Contour
	if len(contour) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(contour))
	}
	if contour.Area() <= 0 {
		t.Error("clockwise input should be reversed to counter-clockwise")
	}
}

func TestWithHoles(t *testing.T) {
	s := evalScene(t, `
(layer :infill (with-holes (rect 0 0 10 10) (rect 2 2 4 4) (circle 7 7 1)))
`)
	e := s.Layers[0].Infill[0]
	if len(e.Holes) != 2 {
		t.Fatalf("expected 2 holes, got %d", len(e.Holes))
	}
	if e.Contains(geom.PtMM(3, 3)) {
		t.Error("point inside a hole should not be contained")
	}
	if !e.Contains(geom.PtMM(5, 1)) {
		t.Error("point in the solid part should be contained")
	}
}

func TestSettings(t *testing.T) {
	s := evalScene(t, `
(scene-name "bracket")
(settings :extrusion-width 0.4 :density 15 :layer-height 0.25
          :overhang-angle 40 :prune-length 3 :straightening-angle 30
          :branch-reach 4 :wall-grounding true :workers 2)
`)
	got := s.Settings
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"extrusion width", got.ExtrusionWidth, 0.4},
		{"density", got.Density, 15},
		{"layer height", got.LayerHeight, 0.25},
		{"overhang angle", got.OverhangAngle, 40},
		{"prune length", got.PruneLength, 3},
		{"straightening angle", got.StraighteningAngle, 30},
		{"branch reach", got.BranchReach, 4},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if !got.WallGrounding {
		t.Error("expected wall grounding on")
	}
	if got.Workers != 2 {
		t.Errorf("workers = %d, want 2", got.Workers)
	}
	if s.Name != "bracket" {
		t.Errorf("name = %q, want bracket", s.Name)
	}
}

func TestSettingsDefaultsKept(t *testing.T) {
	s := evalScene(t, `(settings :density 50)`)
	if s.Settings.ExtrusionWidth != 0.45 {
		t.Errorf("extrusion width = %v, want default 0.45", s.Settings.ExtrusionWidth)
	}
	if s.Settings.Density != 50 {
		t.Errorf("density = %v, want 50", s.Settings.Density)
	}
}

// ---------------------------------------------------------------------------
// Error tests
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"pt arity", `(pt 1)`, "exactly 2"},
		{"rect arity", `(rect 0 0 1)`, "min-x"},
		{"rect inverted", `(rect 5 5 1 1)`, "must exceed"},
		{"circle radius", `(circle 0 0 -1)`, "radius"},
		{"circle segments", `(circle 0 0 1 :segments 2)`, "segments"},
		{"polygon too small", `(polygon (pt 0 0) (pt 1 1))`, "at least 3"},
		{"polygon bad point", `(polygon (pt 0 0) 5 (pt 1 1))`, "expected point"},
		{"with-holes two outers", `(with-holes (list (rect 0 0 1 1) (rect 2 2 3 3)) (rect 0 0 1 1))`, "single polygon"},
		{"layer bad infill", `(layer :infill 5)`, "infill"},
		{"layer bad repeat", `(layer :infill (rect 0 0 1 1) :repeat 0)`, "repeat"},
		{"unknown setting", `(settings :colour 3)`, "unknown setting"},
		{"positional setting", `(settings 3)`, "keyword arguments"},
		{"bad setting value", `(settings :density "high")`, "density"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("error %q does not contain %q", msg, tt.contains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Full example
// ---------------------------------------------------------------------------

func TestSteppedBlockExample(t *testing.T) {
	s := evalScene(t, `
;; A block that narrows in two steps.
(settings :prune-length 3)
(def width 10)
(layer :infill (rect 0 0 width 10) :repeat 3)
(layer :infill (rect 0 0 6 10) :walls (rect 6 0 6.4 10))
(layer :infill (rect 0 0 3 10))
`)
	if s.LayerCount() != 5 {
		t.Fatalf("expected 5 layers, got %d", s.LayerCount())
	}
	if res := scene.ValidateAll(s); !res.OK() {
		t.Fatalf("expected a valid scene, got %v", res.Errors)
	}
	g := s.Geometry()
	for i, lg := range g {
		if lg.Index != i {
			t.Errorf("layer %d has index %d", i, lg.Index)
		}
	}
}
