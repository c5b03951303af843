// Package lz4 adapts pierrec/lz4/v4 as an opt-in LZ4_RAW compress.Codec
// plugin (the LZ4_RAW codec stores a bare LZ4 block, not the LZ4 frame
// format), with a frame-format fallback for the legacy LZ4 codec some
// older writers emit. Neither is in the built-in codec table; both are
// enabled through the Codecs option.
package lz4

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/segmentio/parquet-go/compress"
)

// RawCodec is the LZ4_RAW compress.Codec: a bare LZ4 block, decompressed
// directly with a known output size.
var RawCodec = compress.CodecFunc(decompressRaw)

func decompressRaw(dst, src []byte, uncompressedSize int) ([]byte, error) {
	start := len(dst)
	buf := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(src, buf)
	if err != nil {
		return dst, fmt.Errorf("lz4: %w", err)
	}
	dst = append(dst, buf[:n]...)
	if len(dst)-start != uncompressedSize {
		return dst, compress.ErrShortOutput("lz4_raw", uncompressedSize, len(dst)-start)
	}
	return dst, nil
}

// FrameCodec is the legacy LZ4 codec: an LZ4 frame (as written by the
// reference lz4 CLI), used by a handful of older writers instead of the
// raw-block LZ4_RAW codec.
var FrameCodec = compress.CodecFunc(decompressFrame)

func decompressFrame(dst, src []byte, uncompressedSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	start := len(dst)
	buf := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return dst, fmt.Errorf("lz4: %w", err)
	}
	dst = append(dst, buf[:n]...)
	if len(dst)-start != uncompressedSize {
		return dst, compress.ErrShortOutput("lz4", uncompressedSize, len(dst)-start)
	}
	return dst, nil
}
