package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/lightning/pkg/config"
	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/export"
	"github.com/chazu/lightning/pkg/kernel/sdfx"
	"github.com/chazu/lightning/pkg/lightning"
	"github.com/chazu/lightning/pkg/scene"
)

const (
	pickerCentroid = "centroid" // centroid of the uncovered component, snapped to a sample
	pickerFarthest = "farthest" // sample farthest from the existing trees
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	config string // TOML settings file merged over the scene settings
	output string // output path, stdout when empty
	picker string // representative point strategy
}

// newGenerateCmd creates the generate command, which evaluates a scene,
// grows the infill trees and writes them as JSON.
func newGenerateCmd() *cobra.Command {
	opts := generateOpts{picker: pickerCentroid}

	cmd := &cobra.Command{
		Use:   "generate <scene>",
		Short: "Generate lightning infill trees for a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML settings file")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.picker, "picker", opts.picker, "representative point strategy: centroid or farthest")

	return cmd
}

func runGenerate(cmd *cobra.Command, path string, opts generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	picker, err := parsePicker(opts.picker)
	if err != nil {
		return err
	}

	s, err := loadScene(ctx, path)
	if err != nil {
		return err
	}
	if opts.config != "" {
		if s.Settings, err = config.Load(opts.config, s.Settings); err != nil {
			return err
		}
		logger.Debug("settings loaded", "file", opts.config)
	}

	res := scene.ValidateAll(s)
	for _, w := range res.Warnings {
		logger.Warn(w.Message, "layer", w.Layer)
	}
	if err := res.Err(); err != nil {
		return err
	}

	params, err := s.Settings.Resolve()
	if err != nil {
		return err
	}
	logger.Debug("parameters resolved",
		"radius", params.SupportingRadius,
		"wall_radius", params.WallSupportingRadius,
		"prune", params.PruneLength,
	)

	prog := newProgress(logger)
	geometry := s.Geometry()
	g, err := lightning.New(ctx, sdfx.New(), geometry, params,
		lightning.WithLogger(logger),
		lightning.WithRepresentative(picker),
	)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d layers", g.LayerCount()))

	doc, err := export.Build(s.Name, g, geometry)
	if err != nil {
		return err
	}
	return writeDocument(cmd.OutOrStdout(), opts.output, doc)
}

func parsePicker(name string) (lightning.Representative, error) {
	switch name {
	case pickerCentroid:
		return lightning.CentroidPicker{}, nil
	case pickerFarthest:
		return lightning.FarthestPicker{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown picker %q (want %s or %s)", name, pickerCentroid, pickerFarthest)
}

func writeDocument(stdout io.Writer, path string, doc *export.Document) error {
	if path == "" {
		return export.Write(stdout, doc)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := export.Write(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
