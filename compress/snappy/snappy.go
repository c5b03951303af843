// Package snappy implements a from-scratch decoder for the Snappy block
// format, used for the SNAPPY compression codec. Parquet only ever needs
// Snappy decompression of a single block whose uncompressed size is known
// up front, so this package implements exactly that rather than depending
// on a general-purpose streaming Snappy library.
package snappy

import (
	"fmt"

	"github.com/segmentio/parquet-go/compress"
)

// Codec is the SNAPPY compress.Codec.
var Codec = compress.CodecFunc(decompress)

func decompress(dst, src []byte, uncompressedSize int) ([]byte, error) {
	out, err := Decode(dst, src)
	if err != nil {
		return dst, err
	}
	if len(out)-len(dst) != uncompressedSize {
		return dst, compress.ErrShortOutput("snappy", uncompressedSize, len(out)-len(dst))
	}
	return out, nil
}

// Decode appends the Snappy-decompressed form of src to dst.
func Decode(dst, src []byte) ([]byte, error) {
	length, n, err := readUvarint(src)
	if err != nil {
		return dst, fmt.Errorf("snappy: invalid length header: %w", err)
	}
	src = src[n:]

	start := len(dst)
	if cap(dst)-start < int(length) {
		grown := make([]byte, start, start+int(length))
		copy(grown, dst)
		dst = grown
	}

	pos := 0
	for pos < int(length) {
		if len(src) == 0 {
			return dst, fmt.Errorf("snappy: premature end of input, missing EOF marker")
		}
		tag := src[0]
		switch tag & 0x03 {
		case 0: // literal
			litLen := int(tag>>2) + 1
			src = src[1:]
			if tag>>2 >= 60 {
				extra := int(tag>>2) - 59
				if len(src) < extra {
					return dst, fmt.Errorf("snappy: truncated literal length")
				}
				n := 0
				for i := 0; i < extra; i++ {
					n |= int(src[i]) << (8 * i)
				}
				litLen = n + 1
				src = src[extra:]
			}
			if len(src) < litLen {
				return dst, fmt.Errorf("snappy: truncated literal")
			}
			if pos+litLen > int(length) {
				return dst, fmt.Errorf("snappy: literal overruns declared length")
			}
			dst = append(dst, src[:litLen]...)
			src = src[litLen:]
			pos += litLen

		case 1: // copy, 1-byte offset
			if len(src) < 2 {
				return dst, fmt.Errorf("snappy: truncated copy-1 tag")
			}
			copyLen := int((tag>>2)&0x07) + 4
			offset := (int(tag>>5) << 8) | int(src[1])
			src = src[2:]
			var err error
			if dst, err = applyCopy(dst, start, &pos, offset, copyLen, int(length)); err != nil {
				return dst, err
			}

		case 2: // copy, 2-byte offset
			if len(src) < 3 {
				return dst, fmt.Errorf("snappy: truncated copy-2 tag")
			}
			copyLen := int(tag>>2) + 1
			offset := int(src[1]) | int(src[2])<<8
			src = src[3:]
			var err error
			if dst, err = applyCopy(dst, start, &pos, offset, copyLen, int(length)); err != nil {
				return dst, err
			}

		case 3: // copy, 4-byte offset
			if len(src) < 5 {
				return dst, fmt.Errorf("snappy: truncated copy-4 tag")
			}
			copyLen := int(tag>>2) + 1
			offset := int(src[1]) | int(src[2])<<8 | int(src[3])<<16 | int(src[4])<<24
			src = src[5:]
			var err error
			if dst, err = applyCopy(dst, start, &pos, offset, copyLen, int(length)); err != nil {
				return dst, err
			}
		}
	}

	if len(src) != 0 {
		return dst, fmt.Errorf("snappy: trailing input after declared length")
	}
	return dst, nil
}

// applyCopy extends dst by copyLen bytes read from offset bytes behind the
// current output position, advancing *pos and returning the extended
// slice. Because offset may be less than copyLen, this is a byte-by-byte
// copy so self-overlapping runs correctly extend as RLE. Callers ensure
// dst's capacity already covers start+length.
func applyCopy(dst []byte, start int, pos *int, offset, copyLen, length int) ([]byte, error) {
	if offset == 0 {
		return dst, fmt.Errorf("snappy: zero copy offset")
	}
	if offset > *pos {
		return dst, fmt.Errorf("snappy: copy offset %d beyond current output position %d", offset, *pos)
	}
	if *pos+copyLen > length {
		return dst, fmt.Errorf("snappy: copy overruns declared length")
	}
	dst = dst[:start+*pos+copyLen]
	srcPos := start + *pos - offset
	for i := 0; i < copyLen; i++ {
		dst[start+*pos+i] = dst[srcPos+i]
	}
	*pos += copyLen
	return dst, nil
}

func readUvarint(b []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		c := b[i]
		result |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, fmt.Errorf("varint too long")
		}
	}
	return 0, 0, fmt.Errorf("truncated varint")
}
