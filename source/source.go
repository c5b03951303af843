// Package source implements the AsyncSource abstraction a File reads
// through: a byte length plus a re-entrant, concurrency-safe range fetch,
// with wrappers adding canonical-range caching/coalescing and HTTP Range
// GET transport.
package source

import (
	"context"
	"fmt"
)

// AsyncSource supplies random-access byte ranges of a Parquet file,
// whether backed by a local file, an HTTP object, or a wrapper composing
// caching/coalescing around another source.
type AsyncSource interface {
	// Size returns the total byte length of the underlying object.
	Size(ctx context.Context) (int64, error)
	// ReadRange returns the bytes in [start, end). Implementations must be
	// safe to call concurrently and re-entrantly.
	ReadRange(ctx context.Context, start, end int64) ([]byte, error)
}

// ReadSuffix reads the last n bytes of src, the way footer prefetch does:
// a negative-offset slice request rewritten to positive form once Size is
// known.
func ReadSuffix(ctx context.Context, src AsyncSource, n int64) ([]byte, error) {
	size, err := src.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: reading size for suffix fetch: %w", err)
	}
	start := size - n
	if start < 0 {
		start = 0
	}
	return src.ReadRange(ctx, start, size)
}
