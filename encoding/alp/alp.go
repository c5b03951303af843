// Package alp implements ALP (Adaptive Lossless floating-Point), a
// frame-of-reference plus decimal-scaling encoding for floating point
// columns: each vector of values is represented as a common decimal
// exponent/factor pair, a bit-packed stream of integer deltas relative to a
// frame of reference, and a small list of raw-value exceptions for inputs
// that didn't losslessly round-trip through the decimal encoding.
package alp

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/segmentio/parquet-go/internal/bits"
)

const (
	version           = 1
	compressionMode   = 0
	integerEncoding   = 0
	headerSize        = 8
)

var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18,
}

func scale(factor, exponent int) float64 {
	d := factor - exponent
	if d >= 0 && d < len(pow10) {
		return pow10[d]
	}
	return math.Pow(10, float64(d))
}

func readHeader(src []byte) (vectorSize, numElements int, err error) {
	if len(src) < headerSize {
		return 0, 0, fmt.Errorf("alp: truncated header")
	}
	if src[0] != version {
		return 0, 0, fmt.Errorf("alp: unsupported version %d", src[0])
	}
	if src[1] != compressionMode {
		return 0, 0, fmt.Errorf("alp: unsupported compression mode %d", src[1])
	}
	if src[2] != integerEncoding {
		return 0, 0, fmt.Errorf("alp: unsupported integer encoding %d", src[2])
	}
	vectorSize = 1 << src[3]
	numElements = int(int32(binary.LittleEndian.Uint32(src[4:8])))
	return vectorSize, numElements, nil
}

// DecodeFloats decodes an ALP stream of float32 values.
func DecodeFloats(dst []float32, src []byte) ([]float32, error) {
	vectorSize, numElements, err := readHeader(src)
	if err != nil {
		return dst, err
	}
	off := headerSize
	decoded := 0
	for decoded < numElements {
		take := vectorSize
		if decoded+take > numElements {
			take = numElements - decoded
		}

		exponent, factor, numExceptions, n, err := readAlpInfo(src[off:])
		if err != nil {
			return dst, err
		}
		off += n

		if len(src[off:]) < 5 {
			return dst, fmt.Errorf("alp: truncated frame-of-reference info")
		}
		fr := int32(binary.LittleEndian.Uint32(src[off:]))
		off += 4
		bitWidth := int(src[off])
		off++

		nbytes := bits.PackedByteCount(bitWidth, take)
		if off+nbytes > len(src) {
			return dst, fmt.Errorf("alp: truncated delta stream")
		}
		deltas := bits.Unpack(nil, src[off:off+nbytes], bitWidth, take)
		off += nbytes

		base := len(dst)
		for i := 0; i < take; i++ {
			v := float64(int64(deltas[i])+int64(fr)) * scale(factor, exponent)
			dst = append(dst, float32(v))
		}

		for i := 0; i < numExceptions; i++ {
			if off+6 > len(src) {
				return dst, fmt.Errorf("alp: truncated exception list")
			}
			pos := int(binary.LittleEndian.Uint16(src[off:]))
			off += 2
			raw := math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
			off += 4
			if pos >= take {
				return dst, fmt.Errorf("alp: exception position %d out of range for vector of %d values", pos, take)
			}
			dst[base+pos] = raw
		}

		decoded += take
	}
	return dst, nil
}

// DecodeDoubles decodes an ALP stream of float64 values.
func DecodeDoubles(dst []float64, src []byte) ([]float64, error) {
	vectorSize, numElements, err := readHeader(src)
	if err != nil {
		return dst, err
	}
	off := headerSize
	decoded := 0
	for decoded < numElements {
		take := vectorSize
		if decoded+take > numElements {
			take = numElements - decoded
		}

		exponent, factor, numExceptions, n, err := readAlpInfo(src[off:])
		if err != nil {
			return dst, err
		}
		off += n

		if len(src[off:]) < 9 {
			return dst, fmt.Errorf("alp: truncated frame-of-reference info")
		}
		fr := int64(binary.LittleEndian.Uint64(src[off:]))
		off += 8
		bitWidth := int(src[off])
		off++

		nbytes := bits.PackedByteCount(bitWidth, take)
		if off+nbytes > len(src) {
			return dst, fmt.Errorf("alp: truncated delta stream")
		}
		deltas := bits.Unpack(nil, src[off:off+nbytes], bitWidth, take)
		off += nbytes

		base := len(dst)
		for i := 0; i < take; i++ {
			v := float64(int64(deltas[i])+fr) * scale(factor, exponent)
			dst = append(dst, v)
		}

		for i := 0; i < numExceptions; i++ {
			if off+10 > len(src) {
				return dst, fmt.Errorf("alp: truncated exception list")
			}
			pos := int(binary.LittleEndian.Uint16(src[off:]))
			off += 2
			raw := math.Float64frombits(binary.LittleEndian.Uint64(src[off:]))
			off += 8
			if pos >= take {
				return dst, fmt.Errorf("alp: exception position %d out of range for vector of %d values", pos, take)
			}
			dst[base+pos] = raw
		}

		decoded += take
	}
	return dst, nil
}

func readAlpInfo(src []byte) (exponent, factor, numExceptions int, consumed int, err error) {
	if len(src) < 4 {
		return 0, 0, 0, 0, fmt.Errorf("alp: truncated vector info")
	}
	exponent = int(src[0])
	factor = int(src[1])
	numExceptions = int(binary.LittleEndian.Uint16(src[2:4]))
	return exponent, factor, numExceptions, 4, nil
}
