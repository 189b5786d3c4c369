// Package engine turns scene files into scene.Scene values. A scene file is
// a zygomys program; builtins such as layer, rect, circle and settings
// append layers and tweak print settings as the program runs. Programs run
// in a sandbox without filesystem or process access.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a mistake in scene source: unbalanced parentheses, an
// unknown symbol or a builtin called with bad arguments. Line is zero when
// the interpreter did not report a position.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates scene sources. Every evaluation gets a fresh sandbox, so
// one Engine can serve several goroutines.
type Engine struct {
	timeout time.Duration
}

// NewEngine returns an engine that abandons a scene after DefaultTimeout.
func NewEngine() *Engine {
	return &Engine{timeout: DefaultTimeout}
}

// WithTimeout returns a copy of e that abandons a scene after d.
func (e *Engine) WithTimeout(d time.Duration) *Engine {
	return &Engine{timeout: d}
}

// Evaluate runs source and returns the scene it builds, named name.
//
// Mistakes in the source come back as EvalErrors with a nil scene and a nil
// error. A non-nil error means the scene never finished: TIMEOUT when it ran
// past the engine's limit, CANCELED when ctx ended first and INTERNAL_ERROR
// when a builtin panicked.
func (e *Engine) Evaluate(ctx context.Context, name, source string) (*scene.Scene, []EvalError, error) {
	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.New(errors.ErrCodeInternal, "scene %q: builtin panicked: %v", name, r)}
			}
		}()
		s, evalErrs, err := evaluate(name, source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()
	return awaitScene(ctx, ch, e.timeout)
}

// evaluate builds the scene in a fresh sandbox.
func evaluate(name, source string) (*scene.Scene, []EvalError, error) {
	s := scene.New(name)
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, sceneErrors(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, sceneErrors(err), nil
	}
	return s, nil, nil
}

// zygomys reports positions as "Error on line N: ..." or "line N: ...".
var (
	linePattern      = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

// sceneErrors turns an interpreter error into EvalErrors, keeping the line
// number when the message carries one.
func sceneErrors(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
