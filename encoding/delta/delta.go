// Package delta implements the three DELTA_* encodings: DELTA_BINARY_PACKED
// (INT32/INT64), DELTA_LENGTH_BYTE_ARRAY, and DELTA_BYTE_ARRAY.
package delta

import (
	"fmt"

	"github.com/segmentio/parquet-go/internal/bits"
)

// BinaryPacked decodes a DELTA_BINARY_PACKED stream into int64 values, as
// many as the header's total value count (INT32 columns sign-extend/narrow
// at the call site), appending to dst and returning the number of bytes of
// src consumed.
//
// Layout: header (block size, miniblocks-per-block, total value count,
// first value, all as varints/zigzag-varint) followed by one block per
// blockSize values; each block has a minimum delta (zigzag varint) and one
// bit width per miniblock (raw bytes), then the miniblocks themselves,
// each bit-packed at its own width, each encoding delta-minDelta, where
// delta is a value minus the value before it.
func BinaryPacked(dst []int64, src []byte) ([]int64, int, error) {
	off := 0

	blockSize, n1 := bits.Varint(src[off:])
	if n1 == 0 {
		return dst, 0, fmt.Errorf("delta: truncated block size")
	}
	off += n1

	miniblocksPerBlock, n2 := bits.Varint(src[off:])
	if n2 == 0 {
		return dst, 0, fmt.Errorf("delta: truncated miniblock count")
	}
	off += n2

	totalCount, n3 := bits.Varint(src[off:])
	if n3 == 0 {
		return dst, 0, fmt.Errorf("delta: truncated total value count")
	}
	off += n3

	firstU, n4 := bits.Varint(src[off:])
	if n4 == 0 {
		return dst, 0, fmt.Errorf("delta: truncated first value")
	}
	off += n4
	first := bits.ZigZagDecode64(firstU)

	if miniblocksPerBlock == 0 || blockSize%miniblocksPerBlock != 0 {
		return dst, 0, fmt.Errorf("delta: block size %d not a multiple of miniblock count %d", blockSize, miniblocksPerBlock)
	}
	valuesPerMiniblock := int(blockSize / miniblocksPerBlock)

	dst = append(dst, first)
	prev := first
	remaining := int(totalCount) - 1

	for remaining > 0 {
		minDeltaU, n5 := bits.Varint(src[off:])
		if n5 == 0 {
			return dst, off, fmt.Errorf("delta: truncated min delta")
		}
		off += n5
		minDelta := bits.ZigZagDecode64(minDeltaU)

		widths := make([]int, miniblocksPerBlock)
		for i := range widths {
			if off >= len(src) {
				return dst, off, fmt.Errorf("delta: truncated bit widths")
			}
			widths[i] = int(src[off])
			off++
		}

		for mb := 0; mb < int(miniblocksPerBlock) && remaining > 0; mb++ {
			width := widths[mb]
			take := valuesPerMiniblock
			if take > remaining {
				take = remaining
			}
			nbytes := bits.PackedByteCount(width, valuesPerMiniblock)
			if off+nbytes > len(src) {
				return dst, off, fmt.Errorf("delta: truncated miniblock")
			}
			unpacked := bits.Unpack(nil, src[off:off+nbytes], width, valuesPerMiniblock)
			off += nbytes
			for i := 0; i < take; i++ {
				prev += minDelta + int64(unpacked[i])
				dst = append(dst, prev)
			}
			remaining -= take
		}
	}
	return dst, off, nil
}

// LengthByteArray decodes a DELTA_LENGTH_BYTE_ARRAY stream: a
// DELTA_BINARY_PACKED stream of n lengths, followed by the concatenated
// raw value bytes. Values are appended to bytesOut with boundaries recorded
// in offsetsOut (a CSR-style row-pointer array, offsetsOut[0] == starting
// length of bytesOut).
func LengthByteArray(bytesOut []byte, offsetsOut []int32, src []byte, n int) ([]byte, []int32, int, error) {
	lengths, consumed, err := BinaryPacked(nil, src)
	if err != nil {
		return bytesOut, offsetsOut, 0, fmt.Errorf("delta: decoding lengths: %w", err)
	}
	if len(lengths) < n {
		return bytesOut, offsetsOut, consumed, fmt.Errorf("delta: expected %d lengths, decoded %d", n, len(lengths))
	}
	if len(offsetsOut) == 0 {
		offsetsOut = append(offsetsOut, int32(len(bytesOut)))
	}
	off := consumed
	for i := 0; i < n; i++ {
		l := int(lengths[i])
		if off+l > len(src) {
			return bytesOut, offsetsOut, off, fmt.Errorf("delta: truncated value %d", i)
		}
		bytesOut = append(bytesOut, src[off:off+l]...)
		offsetsOut = append(offsetsOut, int32(len(bytesOut)))
		off += l
	}
	return bytesOut, offsetsOut, off, nil
}

// ByteArray decodes a DELTA_BYTE_ARRAY stream: a DELTA_BINARY_PACKED stream
// of n prefix lengths (shared with the previous value), then a
// DELTA_LENGTH_BYTE_ARRAY stream of the n suffixes; each value is the
// previous value's first prefixLength bytes followed by the decoded
// suffix.
func ByteArray(bytesOut []byte, offsetsOut []int32, src []byte, n int) ([]byte, []int32, int, error) {
	prefixLens, consumed, err := BinaryPacked(nil, src)
	if err != nil {
		return bytesOut, offsetsOut, 0, fmt.Errorf("delta: decoding prefix lengths: %w", err)
	}
	if len(prefixLens) < n {
		return bytesOut, offsetsOut, consumed, fmt.Errorf("delta: expected %d prefix lengths, decoded %d", n, len(prefixLens))
	}
	off := consumed

	suffixLens, consumed2, err := BinaryPacked(nil, src[off:])
	if err != nil {
		return bytesOut, offsetsOut, off, fmt.Errorf("delta: decoding suffix lengths: %w", err)
	}
	if len(suffixLens) < n {
		return bytesOut, offsetsOut, off + consumed2, fmt.Errorf("delta: expected %d suffix lengths, decoded %d", n, len(suffixLens))
	}
	off += consumed2

	if len(offsetsOut) == 0 {
		offsetsOut = append(offsetsOut, int32(len(bytesOut)))
	}

	var prev []byte
	for i := 0; i < n; i++ {
		prefixLen := int(prefixLens[i])
		suffixLen := int(suffixLens[i])
		if prefixLen > len(prev) {
			return bytesOut, offsetsOut, off, fmt.Errorf("delta: prefix length %d exceeds previous value length %d", prefixLen, len(prev))
		}
		if off+suffixLen > len(src) {
			return bytesOut, offsetsOut, off, fmt.Errorf("delta: truncated suffix for value %d", i)
		}
		start := len(bytesOut)
		bytesOut = append(bytesOut, prev[:prefixLen]...)
		bytesOut = append(bytesOut, src[off:off+suffixLen]...)
		off += suffixLen
		offsetsOut = append(offsetsOut, int32(len(bytesOut)))
		prev = bytesOut[start:]
	}
	return bytesOut, offsetsOut, off, nil
}
