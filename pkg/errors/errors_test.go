package errors

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "bad value: %s", "prune_length")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "bad value: prune_length" {
		t.Errorf("Message = %v, want %v", err.Message, "bad value: prune_length")
	}

	expected := "INVALID_CONFIG: bad value: prune_length"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidInput, cause, "failed to load scene")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeOutOfRange, "x"), ErrCodeOutOfRange, true},
		{"different code", New(ErrCodeOutOfRange, "x"), ErrCodeInvalidConfig, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "x")), ErrCodeTimeout, true},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrCodeInvalidGeometry, "polygon has 2 points"))
	if got := GetCode(err); got != ErrCodeInvalidGeometry {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidGeometry)
	}
	if got := UserMessage(err); got != "polygon has 2 points" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestValidators(t *testing.T) {
	if err := ValidateNonNegative("prune_length", 0); err != nil {
		t.Errorf("zero should be accepted: %v", err)
	}
	if err := ValidateNonNegative("prune_length", -1); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("negative should be INVALID_CONFIG, got %v", err)
	}
	if err := ValidatePositive("supporting_radius", 0); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("zero should be rejected, got %v", err)
	}
	if err := ValidateFinite("density", math.NaN(), false); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("NaN should be rejected, got %v", err)
	}
	if err := ValidateFinite("angle", -5, true); err != nil {
		t.Errorf("negative allowed: %v", err)
	}
	if err := ValidateIndex("layer", 3, 3); !Is(err, ErrCodeOutOfRange) {
		t.Errorf("index == n should be OUT_OF_RANGE, got %v", err)
	}
	if err := ValidateIndex("layer", 2, 3); err != nil {
		t.Errorf("index 2 of 3 should be valid: %v", err)
	}
}

func TestIsEmptyCode(t *testing.T) {
	if Is(errors.New("plain"), "") {
		t.Error("a plain error has no code to match")
	}
	if !Is(Wrap(ErrCodeCanceled, errors.New("ctx"), "scene evaluation interrupted"), ErrCodeCanceled) {
		t.Error("wrapped cancellation should match its own code")
	}
}
