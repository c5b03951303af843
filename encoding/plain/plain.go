// Package plain implements the PLAIN encoding: fixed-width little-endian
// values back to back, with BYTE_ARRAY/FIXED_LEN_BYTE_ARRAY using a 4-byte
// little-endian length prefix (fixed-length values have no prefix).
package plain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/segmentio/parquet-go/encoding"
)

// Decoder implements encoding.Decoder for the PLAIN encoding of a single
// physical kind.
type Decoder struct {
	Kind      encoding.Kind
	FixedSize int
}

func (d *Decoder) Decode(dst *encoding.Values, src []byte, n int) (int, error) {
	dst.Kind = d.Kind
	switch d.Kind {
	case encoding.Boolean:
		return decodeBooleans(dst, src, n)
	case encoding.Int32:
		return decodeFixed(dst, src, n, 4, func(b []byte) { dst.Int32s = append(dst.Int32s, int32(binary.LittleEndian.Uint32(b))) })
	case encoding.Int64:
		return decodeFixed(dst, src, n, 8, func(b []byte) { dst.Int64s = append(dst.Int64s, int64(binary.LittleEndian.Uint64(b))) })
	case encoding.Int96:
		return decodeFixed(dst, src, n, 12, func(b []byte) {
			var v [12]byte
			copy(v[:], b)
			dst.Int96s = append(dst.Int96s, v)
		})
	case encoding.Float:
		return decodeFixed(dst, src, n, 4, func(b []byte) {
			dst.Floats = append(dst.Floats, math.Float32frombits(binary.LittleEndian.Uint32(b)))
		})
	case encoding.Double:
		return decodeFixed(dst, src, n, 8, func(b []byte) {
			dst.Doubles = append(dst.Doubles, math.Float64frombits(binary.LittleEndian.Uint64(b)))
		})
	case encoding.ByteArray:
		return decodeByteArray(dst, src, n)
	case encoding.FixedLenByteArray:
		return decodeFixed(dst, src, n, d.FixedSize, func(b []byte) {
			appendByteArray(dst, b)
		})
	default:
		return 0, fmt.Errorf("plain: unsupported kind %d", d.Kind)
	}
}

func decodeFixed(dst *encoding.Values, src []byte, n, size int, emit func([]byte)) (int, error) {
	need := n * size
	if len(src) < need {
		return 0, fmt.Errorf("plain: need %d bytes for %d values of size %d, have %d", need, n, size, len(src))
	}
	for i := 0; i < n; i++ {
		emit(src[i*size : i*size+size])
	}
	return need, nil
}

func decodeBooleans(dst *encoding.Values, src []byte, n int) (int, error) {
	nbytes := (n + 7) / 8
	if len(src) < nbytes {
		return 0, fmt.Errorf("plain: need %d bytes for %d booleans, have %d", nbytes, n, len(src))
	}
	for i := 0; i < n; i++ {
		byteIdx, bitIdx := i/8, uint(i%8)
		dst.Booleans = append(dst.Booleans, (src[byteIdx]>>bitIdx)&1 != 0)
	}
	return nbytes, nil
}

func decodeByteArray(dst *encoding.Values, src []byte, n int) (int, error) {
	if len(dst.Offsets) == 0 {
		dst.Offsets = append(dst.Offsets, int32(len(dst.Bytes)))
	}
	off := 0
	for i := 0; i < n; i++ {
		if off+4 > len(src) {
			return 0, fmt.Errorf("plain: truncated byte array length at value %d", i)
		}
		length := int(binary.LittleEndian.Uint32(src[off : off+4]))
		off += 4
		if off+length > len(src) {
			return 0, fmt.Errorf("plain: truncated byte array value at value %d", i)
		}
		appendByteArray(dst, src[off:off+length])
		off += length
	}
	return off, nil
}

func appendByteArray(dst *encoding.Values, b []byte) {
	dst.Bytes = append(dst.Bytes, b...)
	dst.Offsets = append(dst.Offsets, int32(len(dst.Bytes)))
}
