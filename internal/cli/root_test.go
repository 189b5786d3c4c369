package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/export"
)

const steppedScene = `
(scene-name "stepped")
(settings :prune-length 3)
(layer :infill (rect 0 0 10 10) :repeat 3)
(layer :infill (rect 0 0 6 10) :walls (rect 6 0 6.4 10))
(layer :infill (rect 0 0 3 10))
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2026-01-01")
	defer SetVersion("", "", "")

	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	for _, want := range []string{"lightning 1.0.0", "commit: abc123", "built: 2026-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output %q missing %q", out, want)
		}
	}
}

func TestGenerateToStdout(t *testing.T) {
	path := writeFile(t, "stepped.zy", steppedScene)
	out, err := run(t, "generate", path)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var doc export.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.Name != "stepped" {
		t.Errorf("name = %q, want stepped", doc.Name)
	}
	if len(doc.Layers) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(doc.Layers))
	}
	if doc.Stats.RootsSpawned == 0 {
		t.Error("expected at least one root")
	}
}

func TestGenerateToFileWithConfig(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeFile(t, "block.zy", `(layer :infill (rect 0 0 4 4) :repeat 2)`)
	cfgPath := writeFile(t, "lightning.toml", "density = 50\n")
	outPath := filepath.Join(dir, "block.json")

	stdout, err := run(t, "-v", "generate", scenePath, "--config", cfgPath, "--out", outPath, "--picker", "farthest")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected no stdout when writing to a file, got %q", stdout)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc export.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Name != "block" {
		t.Errorf("name = %q, want the file stem", doc.Name)
	}
	if len(doc.Layers) != 2 {
		t.Errorf("expected 2 layers, got %d", len(doc.Layers))
	}
}

func TestGenerateErrors(t *testing.T) {
	good := writeFile(t, "good.zy", `(layer :infill (rect 0 0 4 4))`)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing scene", []string{"generate", filepath.Join(t.TempDir(), "nope.zy")}, errors.ErrCodeFileNotFound},
		{"eval error", []string{"generate", writeFile(t, "bad.zy", `(layer :infill 5)`)}, errors.ErrCodeInvalidInput},
		{"empty scene", []string{"generate", writeFile(t, "empty.zy", "")}, errors.ErrCodeInvalidGeometry},
		{"bad settings", []string{"generate", writeFile(t, "dense.zy", `(settings :density 0) (layer :infill (rect 0 0 4 4))`)}, errors.ErrCodeInvalidGeometry},
		{"missing config", []string{"generate", good, "--config", filepath.Join(t.TempDir(), "nope.toml")}, errors.ErrCodeFileNotFound},
		{"unknown picker", []string{"generate", good, "--picker", "random"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", writeFile(t, "stepped.zy", steppedScene))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "stepped: 5 layers, ok") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = run(t, "check", writeFile(t, "walls.zy", `(layer :walls (rect 0 0 1 1))`))
	if err != nil {
		t.Fatalf("check with warnings: %v", err)
	}
	if !strings.Contains(out, "[warning]") {
		t.Errorf("expected a warning in %q", out)
	}

	_, err = run(t, "check", writeFile(t, "empty.zy", ""))
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("expected INVALID_GEOMETRY, got %v", err)
	}
}
