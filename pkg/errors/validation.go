package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// ValidatePositive checks that a dimension, resolution or size is a finite
// number greater than zero.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative checks that v is a finite number not below zero.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be zero or positive, got %v", name, v)
	}
	return nil
}

// ValidateFraction checks that v lies in the closed interval [lo, hi].
//
// Density targets and safety bounds use [0, 1]. The tiling overlap is checked
// separately because it excludes its upper bound.
func ValidateFraction(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be between %g and %g, got %v", name, lo, hi, v)
	}
	return nil
}

// ValidatePaperName checks that name is one of the known paper formats.
// Comparison ignores case.
func ValidatePaperName(name string, known []string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "paper name cannot be empty")
	}
	if !slices.Contains(known, strings.ToLower(name)) {
		return New(ErrCodeInvalidConfig, "unknown paper %q (valid: %s)", name, strings.Join(known, ", "))
	}
	return nil
}

// ValidatePath validates a local file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// jobIDRegex matches canonical lowercase UUIDs.
var jobIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateJobID validates a job identifier taken from a request path.
func ValidateJobID(id string) error {
	if !jobIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid job id: %q", id)
	}
	return nil
}
