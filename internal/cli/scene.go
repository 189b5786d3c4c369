package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/lightning/pkg/engine"
	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/scene"
)

// loadScene reads and evaluates a scene file. The scene is named after the
// file unless the source sets a name.
func loadScene(ctx context.Context, path string) (*scene.Scene, error) {
	logger := loggerFromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scene %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, evalErrs, err := engine.NewEngine().Evaluate(ctx, name, string(src))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("scene error", "file", path, "line", e.Line, "msg", e.Message)
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: %s", path, evalErrs[0].Error())
	}
	logger.Debug("scene evaluated", "name", s.Name, "layers", s.LayerCount())
	return s, nil
}
