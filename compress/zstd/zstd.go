// Package zstd adapts klauspost/compress/zstd as an opt-in ZSTD
// compress.Codec plugin; it is not in the built-in codec table and is
// enabled through the Codecs option.
package zstd

import (
	"fmt"
	"sync"

	kzstd "github.com/klauspost/compress/zstd"

	"github.com/segmentio/parquet-go/compress"
)

var (
	decoderOnce sync.Once
	decoder     *kzstd.Decoder
	decoderErr  error
)

func getDecoder() (*kzstd.Decoder, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = kzstd.NewReader(nil)
	})
	return decoder, decoderErr
}

// Codec is the ZSTD compress.Codec, backed by a single shared
// klauspost/compress/zstd decoder (safe for concurrent DecodeAll calls).
var Codec = compress.CodecFunc(decompress)

func decompress(dst, src []byte, uncompressedSize int) ([]byte, error) {
	d, err := getDecoder()
	if err != nil {
		return dst, fmt.Errorf("zstd: %w", err)
	}
	start := len(dst)
	out, err := d.DecodeAll(src, dst)
	if err != nil {
		return dst, fmt.Errorf("zstd: %w", err)
	}
	if len(out)-start != uncompressedSize {
		return out, compress.ErrShortOutput("zstd", uncompressedSize, len(out)-start)
	}
	return out, nil
}
