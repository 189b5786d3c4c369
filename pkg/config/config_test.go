package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/lightning"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lightning.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadOverridesPresentKeys(t *testing.T) {
	base := lightning.DefaultSettings()
	base.PruneLength = 5

	path := writeConfig(t, `
extrusion_width = 0.4
density = 15
wall_grounding = true
workers = 3
`)
	got, err := Load(path, base)
	require.NoError(t, err)

	want := base
	want.ExtrusionWidth = 0.4
	want.Density = 15
	want.WallGrounding = true
	want.Workers = 3
	assert.Equal(t, want, got)
}

func TestLoadEmptyFileKeepsBase(t *testing.T) {
	base := lightning.DefaultSettings()
	got, err := Load(writeConfig(t, ""), base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestLoadErrors(t *testing.T) {
	base := lightning.DefaultSettings()
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") },
			code: errors.ErrCodeFileNotFound,
		},
		{
			name: "syntax error",
			path: func(t *testing.T) string { return writeConfig(t, "density = = 3") },
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "wrong type",
			path: func(t *testing.T) string { return writeConfig(t, `density = "high"`) },
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "unknown key",
			path: func(t *testing.T) string { return writeConfig(t, "colour = 3") },
			code: errors.ErrCodeInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.path(t), base)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "want %s, got %v", tt.code, err)
			assert.Equal(t, base, got)
		})
	}
}

func TestParseResolves(t *testing.T) {
	s, err := Parse("extrusion_width = 0.5\ndensity = 25\n", lightning.DefaultSettings())
	require.NoError(t, err)
	p, err := s.Resolve()
	require.NoError(t, err)
	// line distance 2 mm, radius 1 mm
	assert.EqualValues(t, 1_000_000, p.SupportingRadius)
}
