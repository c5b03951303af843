// Package brotli adapts andybalholm/brotli as an opt-in BROTLI
// compress.Codec plugin; it is not in the built-in codec table and is
// enabled through the Codecs option.
package brotli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/segmentio/parquet-go/compress"
)

// Codec is the BROTLI compress.Codec, backed by andybalholm/brotli.
var Codec = compress.CodecFunc(decompress)

func decompress(dst, src []byte, uncompressedSize int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(src))
	start := len(dst)
	buf := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return dst, fmt.Errorf("brotli: %w", err)
	}
	dst = append(dst, buf[:n]...)
	if len(dst)-start != uncompressedSize {
		return dst, compress.ErrShortOutput("brotli", uncompressedSize, len(dst)-start)
	}
	return dst, nil
}
