// Package bits implements the small bit-twiddling helpers shared by the
// encoding sub-packages: bit-width computation, zig-zag transforms, and
// packing/unpacking of fixed-width integers into byte streams, following the
// conventions of the RLE/bit-packing hybrid and delta encodings.
package bits

import "math/bits"

// Width returns the minimum number of bits needed to represent the unsigned
// value v, as used by the RLE/bit-packing hybrid and delta-binary-packed
// encodings to size their packed runs.
func Width(v uint64) int {
	return bits.Len64(v)
}

// MaxWidth returns the bit width needed to represent the largest of values.
func MaxWidth(values []uint64) int {
	var max uint64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return Width(max)
}

// ZigZagEncode32 maps a signed int32 to an unsigned value so that numbers
// with small absolute value have small encodings, as delta encodings do for
// their per-value deltas.
func ZigZagEncode32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

// ZigZagDecode32 inverts ZigZagEncode32.
func ZigZagDecode32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// ZigZagEncode64 maps a signed int64 to an unsigned value.
func ZigZagEncode64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigZagDecode64 inverts ZigZagEncode64.
func ZigZagDecode64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// PutVarint appends the unsigned LEB128 varint encoding of v to dst.
func PutVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Varint decodes an unsigned LEB128 varint from the front of src, returning
// the value and the number of bytes consumed (0 on error/short input).
func Varint(src []byte) (uint64, int) {
	var result uint64
	var shift uint
	for i, b := range src {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
		if shift >= 70 {
			return 0, 0
		}
	}
	return 0, 0
}

// PackedByteCount returns the number of bytes needed to bit-pack count
// values of the given bit width, rounding up to a whole byte.
func PackedByteCount(width, count int) int {
	return (width*count + 7) / 8
}

// Pack writes the low `width` bits of each value in values, tightly packed
// least-significant-bit first (the order the bit-packing hybrid and
// DELTA_BINARY_PACKED encodings use), appending to dst.
func Pack(dst []byte, values []uint64, width int) []byte {
	if width == 0 {
		return dst
	}
	var acc uint64
	var accBits uint
	for _, v := range values {
		acc |= (v & widthMask(width)) << accBits
		accBits += uint(width)
		for accBits >= 8 {
			dst = append(dst, byte(acc))
			acc >>= 8
			accBits -= 8
		}
	}
	if accBits > 0 {
		dst = append(dst, byte(acc))
	}
	return dst
}

// Unpack reads count values of the given bit width, packed the way Pack
// writes them, from src.
func Unpack(dst []uint64, src []byte, width, count int) []uint64 {
	if width == 0 {
		for i := 0; i < count; i++ {
			dst = append(dst, 0)
		}
		return dst
	}
	var acc uint64
	var accBits uint
	pos := 0
	for i := 0; i < count; i++ {
		for accBits < uint(width) {
			if pos < len(src) {
				acc |= uint64(src[pos]) << accBits
				pos++
			}
			accBits += 8
		}
		dst = append(dst, acc&widthMask(width))
		acc >>= uint(width)
		accBits -= uint(width)
	}
	return dst
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}
