package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeAnalysis, "no root element in %s", "a.svg")

	if err.Code != ErrCodeAnalysis {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAnalysis)
	}

	if err.Message != "no root element in a.svg" {
		t.Errorf("Message = %v, want %v", err.Message, "no root element in a.svg")
	}

	expected := "ANALYSIS_FAILED: no root element in a.svg"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRasterization, cause, "render failed")

	if err.Code != ErrCodeRasterization {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRasterization)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodePlan, "zero width")

	if !Is(err, ErrCodePlan) {
		t.Error("Is(err, ErrCodePlan) = false, want true")
	}

	if Is(err, ErrCodeAlignment) {
		t.Error("Is(err, ErrCodeAlignment) = true, want false")
	}

	// Plain errors have no code
	if Is(errors.New("plain"), ErrCodePlan) {
		t.Error("Is(plain, ErrCodePlan) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "capture timed out")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeTimeout)
	}

	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeValidation, "bad threshold")
	if got := UserMessage(err); got != "bad threshold" {
		t.Errorf("UserMessage = %q, want %q", got, "bad threshold")
	}

	plain := errors.New("plain message")
	if got := UserMessage(plain); got != "plain message" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain message")
	}
}

func TestIsThroughWrapChain(t *testing.T) {
	inner := New(ErrCodeAlignment, "element #logo not found")
	outer := Wrap(ErrCodeInternal, inner, "pipeline step failed")

	// GetCode sees the outermost code
	if got := GetCode(outer); got != ErrCodeInternal {
		t.Errorf("GetCode(outer) = %v, want %v", got, ErrCodeInternal)
	}

	// errors.As still reaches the inner error
	var e *Error
	if !errors.As(errors.Unwrap(outer), &e) || e.Code != ErrCodeAlignment {
		t.Error("inner alignment error not reachable through wrap chain")
	}
}
