package errors

import (
	"strings"
	"testing"
)

func TestValidatePixelThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		wantErr   bool
	}{
		{"minimum", 1, false},
		{"maximum", 255, false},
		{"middle", 128, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too large", 256, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePixelThreshold(tt.threshold)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePixelThreshold(%d) error = %v, wantErr %v", tt.threshold, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidThresh) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidThresh)
			}
		})
	}
}

func TestValidateAspectTolerance(t *testing.T) {
	tests := []struct {
		name      string
		tolerance float64
		wantErr   bool
	}{
		{"zero", 0, false},
		{"default", 0.001, false},
		{"one", 1, false},
		{"negative", -0.1, true},
		{"above one", 1.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAspectTolerance(tt.tolerance)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAspectTolerance(%g) error = %v, wantErr %v", tt.tolerance, err, tt.wantErr)
			}
		})
	}
}

func TestValidateScaleFactor(t *testing.T) {
	if err := ValidateScaleFactor(1); err != nil {
		t.Errorf("ValidateScaleFactor(1) = %v, want nil", err)
	}
	if err := ValidateScaleFactor(4); err != nil {
		t.Errorf("ValidateScaleFactor(4) = %v, want nil", err)
	}
	if err := ValidateScaleFactor(0); err == nil {
		t.Error("ValidateScaleFactor(0) = nil, want error")
	}
}

func TestValidateDocumentPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "drawing.svg", false},
		{"nested", "fixtures/icons/logo.svg", false},
		{"absolute", "/tmp/a.svg", false},
		{"empty", "", true},
		{"null byte", "a\x00.svg", true},
		{"control char", "a\n.svg", true},
		{"too long", strings.Repeat("x", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "logo", false},
		{"underscore start", "_shape", false},
		{"with digits", "rect42", false},
		{"empty", "", true},
		{"digit start", "42rect", true},
		{"whitespace", "my shape", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
