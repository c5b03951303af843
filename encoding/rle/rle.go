// Package rle implements the RLE/bit-packing hybrid encoding used for
// definition/repetition levels, dictionary indices (RLE_DICTIONARY /
// PLAIN_DICTIONARY), and BOOLEAN values.
//
// The hybrid alternates between two kinds of runs, each introduced by a
// varint header:
//
//	header = (run-length << 1) | is-bit-packed
//
// An RLE run (is-bit-packed == 0) is followed by ceil(bitWidth/8) bytes
// holding the repeated value, little-endian. A bit-packed run
// (is-bit-packed == 1) repeats (header >> 1) groups of 8 values, each
// group packed into bitWidth bytes' worth of bits, least-significant-bit
// first.
package rle

import (
	"fmt"

	"github.com/segmentio/parquet-go/internal/bits"
)

// Decoder decodes a byte-width-prefixed or bare RLE/bit-packing hybrid
// stream (the page encodings that use this hybrid differ only in whether a
// 4-byte little-endian length prefix precedes the stream: dictionary-index
// pages are bare, V1 definition/repetition levels are length-prefixed).
type Decoder struct {
	BitWidth int
}

// DecodeInt32s decodes up to n values into dst, appending to it, and
// returns the number of bytes of src consumed.
func (d *Decoder) DecodeInt32s(dst []int32, src []byte, n int) ([]int32, int, error) {
	if d.BitWidth == 0 {
		for i := 0; i < n; i++ {
			dst = append(dst, 0)
		}
		return dst, 0, nil
	}

	off := 0
	count := 0
	for count < n {
		header, hn := bits.Varint(src[off:])
		if hn == 0 {
			return dst, off, fmt.Errorf("rle: truncated run header at value %d", count)
		}
		off += hn

		if header&1 == 0 {
			// RLE run.
			runLen := int(header >> 1)
			nbytes := (d.BitWidth + 7) / 8
			if off+nbytes > len(src) {
				return dst, off, fmt.Errorf("rle: truncated RLE run value")
			}
			var v uint64
			for i := 0; i < nbytes; i++ {
				v |= uint64(src[off+i]) << (8 * i)
			}
			off += nbytes
			take := runLen
			if count+take > n {
				take = n - count
			}
			for i := 0; i < take; i++ {
				dst = append(dst, int32(v))
			}
			count += take
		} else {
			// Bit-packed run: (header>>1) groups of 8 values.
			groups := int(header >> 1)
			values := groups * 8
			nbytes := bits.PackedByteCount(d.BitWidth, values)
			if off+nbytes > len(src) {
				return dst, off, fmt.Errorf("rle: truncated bit-packed run")
			}
			unpacked := bits.Unpack(nil, src[off:off+nbytes], d.BitWidth, values)
			off += nbytes
			take := values
			if count+take > n {
				take = n - count
			}
			for i := 0; i < take; i++ {
				dst = append(dst, int32(unpacked[i]))
			}
			count += take
		}
	}
	return dst, off, nil
}

// DecodeLengthPrefixed decodes a 4-byte-little-endian-length-prefixed hybrid
// stream, as used for V1 definition/repetition levels.
func (d *Decoder) DecodeLengthPrefixed(dst []int32, src []byte, n int) ([]int32, int, error) {
	if len(src) < 4 {
		return dst, 0, fmt.Errorf("rle: truncated length prefix")
	}
	length := int(src[0]) | int(src[1])<<8 | int(src[2])<<16 | int(src[3])<<24
	if 4+length > len(src) {
		return dst, 0, fmt.Errorf("rle: length-prefixed run body overruns buffer")
	}
	dst, _, err := d.DecodeInt32s(dst, src[4:4+length], n)
	return dst, 4 + length, err
}
