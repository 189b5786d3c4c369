package errors

import "math"

// ValidateNonNegative returns an INVALID_CONFIG error when v is negative.
func ValidateNonNegative(name string, v int64) error {
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %d", name, v)
	}
	return nil
}

// ValidatePositive returns an INVALID_CONFIG error when v is zero or negative.
func ValidatePositive(name string, v int64) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite settings, and negative ones when
// allowNegative is false.
func ValidateFinite(name string, v float64, allowNegative bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", name, v)
	}
	if !allowNegative && v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateIndex returns an OUT_OF_RANGE error unless 0 <= i < n.
func ValidateIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeOutOfRange, "%s %d out of range [0, %d)", what, i, n)
	}
	return nil
}
