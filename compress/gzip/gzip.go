// Package gzip adapts klauspost/compress's gzip reader as an opt-in GZIP
// compress.Codec plugin; it is not in the built-in codec table and is
// enabled through the Codecs option.
package gzip

import (
	"bytes"
	"fmt"
	"io"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/segmentio/parquet-go/compress"
)

// Codec is the GZIP compress.Codec, backed by klauspost/compress/gzip.
var Codec = compress.CodecFunc(decompress)

func decompress(dst, src []byte, uncompressedSize int) ([]byte, error) {
	r, err := kgzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return dst, fmt.Errorf("gzip: %w", err)
	}
	defer r.Close()

	start := len(dst)
	buf := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return dst, fmt.Errorf("gzip: %w", err)
	}
	dst = append(dst, buf[:n]...)
	if len(dst)-start != uncompressedSize {
		return dst, compress.ErrShortOutput("gzip", uncompressedSize, len(dst)-start)
	}
	return dst, nil
}
