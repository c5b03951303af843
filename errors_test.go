package parquet

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := newError("Open", InvalidFile, fmt.Errorf("missing magic"))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("errors.Is(err, ErrInvalidFile) = false, want true")
	}
	if errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("errors.Is(err, ErrTruncatedInput) = true, want false")
	}
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := newError("decodeOnePage", UnsupportedEncoding, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(err, cause) = false, want true")
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != UnsupportedEncoding {
		t.Fatalf("errors.As did not recover the original Kind")
	}
}
