// Package uncompressed implements the no-op compress.Codec used for the
// UNCOMPRESSED compression codec.
package uncompressed

import "github.com/segmentio/parquet-go/compress"

// Codec is the UNCOMPRESSED codec: it copies src verbatim.
var Codec = compress.CodecFunc(func(dst, src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) != uncompressedSize {
		return dst, compress.ErrShortOutput("uncompressed", uncompressedSize, len(src))
	}
	return append(dst, src...), nil
})
