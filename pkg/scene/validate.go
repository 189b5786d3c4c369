package scene

import (
	"fmt"
	"strings"

	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/geom"
)

// ValidationSeverity indicates whether a validation finding blocks
// generation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks generation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Layer    int                // which layer has the problem, -1 if scene-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Layer < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] layer %d: %s", e.Severity, e.Layer, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK returns true if nothing blocks generation.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns an INVALID_GEOMETRY error summarising the blocking findings,
// or nil.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return errors.New(errors.ErrCodeInvalidGeometry, "scene has %d error(s): %s", len(r.Errors), strings.Join(msgs, "; "))
}

// Validate runs every check on the scene and returns the findings in layer
// order. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateStack(s)...)
	errs = append(errs, validateSettings(s)...)
	for i, l := range s.Layers {
		errs = append(errs, validateLayer(i, l)...)
	}
	return errs
}

// ValidateAll runs Validate and separates errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateStack checks scene-level structure.
func validateStack(s *Scene) []ValidationError {
	if len(s.Layers) == 0 {
		return []ValidationError{{
			Layer:    -1,
			Message:  "scene has no layers",
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateSettings reports settings that cannot be resolved.
func validateSettings(s *Scene) []ValidationError {
	if _, err := s.Settings.Resolve(); err != nil {
		return []ValidationError{{
			Layer:    -1,
			Message:  "settings: " + errors.UserMessage(err),
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateLayer checks one layer's thickness and polygons.
func validateLayer(idx int, l Layer) []ValidationError {
	var errs []ValidationError

	if l.Thickness < 0 {
		errs = append(errs, ValidationError{
			Layer:    idx,
			Message:  fmt.Sprintf("thickness must not be negative, got %s mm", formatMM(l.Thickness)),
			Severity: SeverityError,
		})
	}

	if len(l.Infill) == 0 {
		sev := SeverityWarning
		msg := "layer has no infill area"
		if len(l.Walls) > 0 {
			msg = "layer has walls but no infill area"
		}
		errs = append(errs, ValidationError{Layer: idx, Message: msg, Severity: sev})
	}

	errs = append(errs, validatePolygons(idx, "infill", l.Infill)...)
	errs = append(errs, validatePolygons(idx, "walls", l.Walls)...)
	return errs
}

// validatePolygons reports contours with too few points as errors and
// zero-area contours or stray holes as warnings. The generator treats
// degenerate polygons as empty.
func validatePolygons(idx int, what string, polys geom.ExPolygons) []ValidationError {
	var errs []ValidationError
	for i, e := range polys {
		if len(e.Contour) < 3 {
			errs = append(errs, ValidationError{
				Layer:    idx,
				Message:  fmt.Sprintf("%s polygon %d has %d points, need at least 3", what, i, len(e.Contour)),
				Severity: SeverityError,
			})
			continue
		}
		if e.Contour.IsDegenerate() {
			errs = append(errs, ValidationError{
				Layer:    idx,
				Message:  fmt.Sprintf("%s polygon %d has zero area", what, i),
				Severity: SeverityWarning,
			})
		}
		for j, h := range e.Holes {
			if len(h) < 3 || h.IsDegenerate() {
				errs = append(errs, ValidationError{
					Layer:    idx,
					Message:  fmt.Sprintf("%s polygon %d: hole %d is degenerate", what, i, j),
					Severity: SeverityWarning,
				})
				continue
			}
			if !e.Contour.Contains(h[0]) {
				errs = append(errs, ValidationError{
					Layer:    idx,
					Message:  fmt.Sprintf("%s polygon %d: hole %d lies outside the contour", what, i, j),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

func formatMM(c geom.Coord) string {
	return fmt.Sprintf("%.3f", geom.Unscale(c))
}
