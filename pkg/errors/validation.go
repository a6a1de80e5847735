package errors

import (
	"strings"
	"unicode"
)

// Numeric bounds for comparison configuration. These are the only valid
// ranges accepted anywhere in the engine; the CLI, the API, and the batch
// orchestrator all validate through these functions so a bad value is
// rejected identically at every entry point.
const (
	// MinPixelThreshold and MaxPixelThreshold bound the per-channel pixel
	// difference threshold. A channel delta must exceed the threshold
	// (strictly) for a pixel to count as different.
	MinPixelThreshold = 1
	MaxPixelThreshold = 255

	// MinScaleFactor is the smallest allowed render scale multiplier.
	MinScaleFactor = 1
)

// ValidatePixelThreshold validates the per-channel difference threshold.
// Valid values are integers in [1, 255].
func ValidatePixelThreshold(threshold int) error {
	if threshold < MinPixelThreshold || threshold > MaxPixelThreshold {
		return New(ErrCodeInvalidThresh,
			"pixel threshold must be in [%d, %d], got %d",
			MinPixelThreshold, MaxPixelThreshold, threshold)
	}
	return nil
}

// ValidateAspectTolerance validates the aspect-ratio mismatch tolerance.
// Valid values are floats in [0, 1].
func ValidateAspectTolerance(tolerance float64) error {
	if tolerance < 0 || tolerance > 1 {
		return New(ErrCodeInvalidTol,
			"aspect ratio tolerance must be in [0, 1], got %g", tolerance)
	}
	return nil
}

// ValidateScaleFactor validates the render scale multiplier.
// Valid values are integers >= 1.
func ValidateScaleFactor(scale int) error {
	if scale < MinScaleFactor {
		return New(ErrCodeValidation,
			"scale factor must be >= %d, got %d", MinScaleFactor, scale)
	}
	return nil
}

// ValidateDocumentPath validates an SVG document path for safety.
// It rejects paths that could be used for traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//
// Existence of the file is checked separately by the pipeline, not here.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeValidation, "document path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeValidation, "document path too long (max 500 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeValidation, "document path contains invalid control characters")
		}
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeValidation, "document path contains null byte")
	}

	return nil
}

// ValidateElementID validates an element id used for object-anchored
// alignment. SVG ids follow the XML Name production; this check is a
// conservative subset that rejects anything that could not be a valid id.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeValidation, "element id cannot be empty")
	}

	for i, r := range id {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return New(ErrCodeValidation, "element id must start with a letter or underscore: %q", id)
		}
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeValidation, "element id contains invalid characters: %q", id)
		}
	}

	return nil
}
