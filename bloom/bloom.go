// Package bloom implements membership testing against a Parquet
// split-block Bloom filter: the bitset is partitioned into 256-bit (32
// byte, 8 uint32-word) blocks, and each candidate value sets/tests one bit
// per word via a multiply-shift hash derived from the value's xxhash.
//
// This package only implements the probe (read) side: decoding the
// BloomFilterHeader and testing membership. The willf/bloom package
// elsewhere in the wider Go ecosystem implements a different (non
// split-block) scheme and is not a substitute — see doc.go.
package bloom

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/internal/thrift"
)

const blockSize = 32 // bytes: 8 uint32 words of 256 bits total

// salt is the fixed set of odd uint32 constants the Parquet Bloom filter
// spec publishes for the split-block multiply-shift hash.
var salt = [8]uint32{
	0x47b6137b, 0x44974d91, 0x8824ad5b, 0xa2b7289d,
	0x705495c7, 0x2df1424b, 0x9efc4947, 0x5c6bfb31,
}

// Filter is a decoded split-block Bloom filter bitset.
type Filter struct {
	blocks []byte // len(blocks) is a multiple of blockSize
}

// Decode parses a BloomFilterHeader from the front of buf, followed
// immediately by the bitset, as stored at a column chunk's
// bloom_filter_offset.
func Decode(buf []byte) (*Filter, error) {
	var h format.BloomFilterHeader
	n, err := thrift.DecodeBloomFilterHeader(buf, &h)
	if err != nil {
		return nil, fmt.Errorf("bloom: decoding header: %w", err)
	}
	if !h.SplitBlockAlgorithm {
		return nil, fmt.Errorf("bloom: unsupported bloom filter algorithm")
	}
	if !h.XXHash {
		return nil, fmt.Errorf("bloom: unsupported bloom filter hash")
	}
	if !h.Uncompressed {
		return nil, fmt.Errorf("bloom: unsupported bloom filter compression")
	}
	if int(h.NumBytes)%blockSize != 0 {
		return nil, fmt.Errorf("bloom: bitset length %d not a multiple of block size %d", h.NumBytes, blockSize)
	}
	bitset := buf[n:]
	if len(bitset) < int(h.NumBytes) {
		return nil, fmt.Errorf("bloom: truncated bitset: want %d bytes, have %d", h.NumBytes, len(bitset))
	}
	return &Filter{blocks: bitset[:h.NumBytes]}, nil
}

// HashUint64 returns the xxhash64 of an 8-byte little-endian encoding of an
// integer value, matching how Parquet writers hash INT32/INT64 values for
// the Bloom filter (the column's logical value, not its on-disk encoding).
func HashUint64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return xxhash.Sum64(b[:])
}

// HashBytes returns the xxhash64 of a BYTE_ARRAY/FIXED_LEN_BYTE_ARRAY
// value.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// blockIndex selects which 256-bit block a hash maps to, using its upper
// 32 bits scaled into [0, numBlocks) by a multiply-shift (avoiding a
// modulo).
func blockIndex(hash, numBlocks uint64) uint64 {
	return ((hash >> 32) * numBlocks) >> 32
}

// mask computes the 8 per-word bit positions a value's lower 32 hash bits
// select within one block.
func mask(lo uint32) [8]uint32 {
	var m [8]uint32
	for i := 0; i < 8; i++ {
		m[i] = uint32(1) << ((lo * salt[i]) >> 27)
	}
	return m
}

// Test reports whether hash may be a member of the filter (false positives
// are possible; false negatives are not).
func (f *Filter) Test(hash uint64) bool {
	numBlocks := uint64(len(f.blocks) / blockSize)
	if numBlocks == 0 {
		return false
	}
	block := blockIndex(hash, numBlocks)
	words := f.blocks[block*blockSize : block*blockSize+blockSize]
	m := mask(uint32(hash))
	for i := 0; i < 8; i++ {
		w := binary.LittleEndian.Uint32(words[i*4 : i*4+4])
		if w&m[i] == 0 {
			return false
		}
	}
	return true
}
