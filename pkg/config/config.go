// Package config loads generator settings from TOML files.
//
// A config file holds the same keys as lightning.Settings:
//
//	extrusion_width = 0.4
//	density = 15
//	wall_grounding = true
//
// Keys present in the file override the base settings; absent keys keep
// their base values.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/lightning"
)

// Load decodes the TOML file at path over base and returns the merged
// settings. Unknown keys are rejected.
func Load(path string, base lightning.Settings) (lightning.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return base, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	s, err := Parse(string(data), base)
	if err != nil {
		return base, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return s, nil
}

// Parse decodes TOML text over base.
func Parse(text string, base lightning.Settings) (lightning.Settings, error) {
	s := base
	md, err := toml.Decode(text, &s)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return base, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return s, nil
}
