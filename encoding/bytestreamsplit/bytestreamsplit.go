// Package bytestreamsplit implements BYTE_STREAM_SPLIT: each multi-byte
// fixed-width value is split into its constituent bytes, which are then
// stored as byteWidth separate streams (stream k holds byte k of every
// value) rather than interleaved, improving downstream compressibility of
// floating point data in particular.
package bytestreamsplit

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeFloats decodes n float32 values from a 4-stream BYTE_STREAM_SPLIT
// buffer.
func DecodeFloats(dst []float32, src []byte, n int) ([]float32, error) {
	const width = 4
	if len(src) < n*width {
		return dst, fmt.Errorf("bytestreamsplit: need %d bytes for %d float32 values, have %d", n*width, n, len(src))
	}
	var buf [width]byte
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			buf[b] = src[b*n+i]
		}
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(buf[:])))
	}
	return dst, nil
}

// DecodeDoubles decodes n float64 values from an 8-stream BYTE_STREAM_SPLIT
// buffer.
func DecodeDoubles(dst []float64, src []byte, n int) ([]float64, error) {
	const width = 8
	if len(src) < n*width {
		return dst, fmt.Errorf("bytestreamsplit: need %d bytes for %d float64 values, have %d", n*width, n, len(src))
	}
	var buf [width]byte
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			buf[b] = src[b*n+i]
		}
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(buf[:])))
	}
	return dst, nil
}

// DecodeFixed decodes n values of an arbitrary byteWidth (e.g. FLOAT16's 2,
// or a FIXED_LEN_BYTE_ARRAY DECIMAL's width) from a byteWidth-stream
// BYTE_STREAM_SPLIT buffer, appending the reassembled little-endian bytes
// of each value to dst.
func DecodeFixed(dst []byte, src []byte, n, byteWidth int) ([]byte, error) {
	if len(src) < n*byteWidth {
		return dst, fmt.Errorf("bytestreamsplit: need %d bytes for %d values of width %d, have %d", n*byteWidth, n, byteWidth, len(src))
	}
	for i := 0; i < n; i++ {
		for b := 0; b < byteWidth; b++ {
			dst = append(dst, src[b*n+i])
		}
	}
	return dst, nil
}
