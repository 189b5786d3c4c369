package engine

import (
	"context"
	"time"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/scene"
)

// DefaultTimeout bounds how long a scene program may run.
const DefaultTimeout = 5 * time.Second

// evalResult carries the outcome of one evaluation back from its goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// awaitScene waits for the evaluation feeding ch. It gives up with TIMEOUT
// after limit and with CANCELED once ctx is done. An abandoned evaluation
// keeps running until the program returns; ch must be buffered so its
// final send never blocks.
func awaitScene(ctx context.Context, ch <-chan evalResult, limit time.Duration) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.scene, res.errors, res.err
	case <-ctx.Done():
		return nil, nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "scene evaluation interrupted")
	case <-timer.C:
		return nil, nil, errors.New(errors.ErrCodeTimeout, "scene still running after %s", limit)
	}
}
