package db

import (
	"errors"
	"testing"
)

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Op: OpGet, Err: inner}

	if err.Error() != "GET: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to unwrap to inner")
	}
}
