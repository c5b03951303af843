// Package variant decodes the Variant binary encoding: a self-describing
// representation for schemaless nested values stored as a pair of byte
// strings, metadata (a dictionary of field/object-key names) and value (the
// actual encoded value, which may reference the dictionary by index).
package variant

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Metadata is the decoded dictionary of an (metadata, value) Variant pair.
type Metadata struct {
	sortedStrings bool
	dict          []string
}

// DecodeMetadata parses the metadata byte string.
func DecodeMetadata(b []byte) (*Metadata, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("variant: empty metadata")
	}
	header := b[0]
	version := header & 0x0f
	if version != 1 {
		return nil, fmt.Errorf("variant: unsupported metadata version %d", version)
	}
	sorted := header&0x10 != 0
	offsetSize := int(header>>6) + 1

	off := 1
	dictSize, err := readLE(b, off, offsetSize)
	if err != nil {
		return nil, fmt.Errorf("variant: reading dictionary size: %w", err)
	}
	off += offsetSize

	offsets := make([]int, dictSize+1)
	for i := range offsets {
		v, err := readLE(b, off, offsetSize)
		if err != nil {
			return nil, fmt.Errorf("variant: reading offset %d: %w", i, err)
		}
		offsets[i] = v
		off += offsetSize
	}

	dataStart := off
	dict := make([]string, dictSize)
	for i := 0; i < dictSize; i++ {
		s, e := dataStart+offsets[i], dataStart+offsets[i+1]
		if e > len(b) || s > e {
			return nil, fmt.Errorf("variant: dictionary entry %d out of range", i)
		}
		dict[i] = string(b[s:e])
	}
	return &Metadata{sortedStrings: sorted, dict: dict}, nil
}

func readLE(b []byte, off, size int) (int, error) {
	if off+size > len(b) {
		return 0, fmt.Errorf("truncated (need %d bytes at offset %d, have %d)", size, off, len(b))
	}
	var v uint32
	for i := 0; i < size; i++ {
		v |= uint32(b[off+i]) << (8 * i)
	}
	return int(v), nil
}

// Decode decodes a (metadata, value) Variant pair into a Go value tree
// (nil, bool, int64, float64, string, []byte, []any, map[string]any).
func Decode(metadata, value []byte) (any, error) {
	md, err := DecodeMetadata(metadata)
	if err != nil {
		return nil, err
	}
	v, _, err := decodeValue(md, value)
	return v, err
}

const (
	basicPrimitive  = 0
	basicShortStr   = 1
	basicObject     = 2
	basicArray      = 3
)

func decodeValue(md *Metadata, b []byte) (any, int, error) {
	if len(b) < 1 {
		return nil, 0, fmt.Errorf("variant: empty value")
	}
	first := b[0]
	basicType := first & 0x03
	valueHeader := first >> 2

	switch basicType {
	case basicPrimitive:
		return decodePrimitive(valueHeader, b)
	case basicShortStr:
		n := int(valueHeader)
		if 1+n > len(b) {
			return nil, 0, fmt.Errorf("variant: truncated short string")
		}
		return string(b[1 : 1+n]), 1 + n, nil
	case basicObject:
		return decodeObject(md, valueHeader, b)
	case basicArray:
		return decodeArray(md, valueHeader, b)
	default:
		return nil, 0, fmt.Errorf("variant: impossible basic type %d", basicType)
	}
}

func decodePrimitive(primType byte, b []byte) (any, int, error) {
	body := b[1:]
	switch primType {
	case 0:
		return nil, 1, nil
	case 1:
		return true, 1, nil
	case 2:
		return false, 1, nil
	case 3:
		if len(body) < 1 {
			return nil, 0, fmt.Errorf("variant: truncated int8")
		}
		return int64(int8(body[0])), 2, nil
	case 4:
		if len(body) < 2 {
			return nil, 0, fmt.Errorf("variant: truncated int16")
		}
		return int64(int16(binary.LittleEndian.Uint16(body))), 3, nil
	case 5:
		if len(body) < 4 {
			return nil, 0, fmt.Errorf("variant: truncated int32")
		}
		return int64(int32(binary.LittleEndian.Uint32(body))), 5, nil
	case 6:
		if len(body) < 8 {
			return nil, 0, fmt.Errorf("variant: truncated int64")
		}
		return int64(binary.LittleEndian.Uint64(body)), 9, nil
	case 7:
		if len(body) < 8 {
			return nil, 0, fmt.Errorf("variant: truncated double")
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(body)), 9, nil
	case 14:
		if len(body) < 4 {
			return nil, 0, fmt.Errorf("variant: truncated float")
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(body))), 5, nil
	case 15:
		if len(body) < 4 {
			return nil, 0, fmt.Errorf("variant: truncated binary length")
		}
		n := int(binary.LittleEndian.Uint32(body))
		if 4+n > len(body) {
			return nil, 0, fmt.Errorf("variant: truncated binary value")
		}
		return append([]byte(nil), body[4:4+n]...), 1 + 4 + n, nil
	case 16:
		if len(body) < 4 {
			return nil, 0, fmt.Errorf("variant: truncated long string length")
		}
		n := int(binary.LittleEndian.Uint32(body))
		if 4+n > len(body) {
			return nil, 0, fmt.Errorf("variant: truncated long string value")
		}
		return string(body[4 : 4+n]), 1 + 4 + n, nil
	default:
		return nil, 0, fmt.Errorf("variant: unsupported primitive type %d", primType)
	}
}

func decodeObject(md *Metadata, header byte, b []byte) (any, int, error) {
	largeSize := header&0x01 != 0
	idSize := int((header>>1)&0x03) + 1
	offSize := int((header>>3)&0x03) + 1

	off := 1
	sizeBytes := 1
	if largeSize {
		sizeBytes = 4
	}
	numElements, err := readLEFrom(b, off, sizeBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("variant: object size: %w", err)
	}
	off += sizeBytes

	fieldIDs := make([]int, numElements)
	for i := range fieldIDs {
		v, err := readLEFrom(b, off, idSize)
		if err != nil {
			return nil, 0, fmt.Errorf("variant: object field id %d: %w", i, err)
		}
		fieldIDs[i] = v
		off += idSize
	}

	offsets := make([]int, numElements+1)
	for i := range offsets {
		v, err := readLEFrom(b, off, offSize)
		if err != nil {
			return nil, 0, fmt.Errorf("variant: object offset %d: %w", i, err)
		}
		offsets[i] = v
		off += offSize
	}

	dataStart := off
	out := make(map[string]any, numElements)
	maxEnd := 0
	for i := 0; i < numElements; i++ {
		if fieldIDs[i] >= len(md.dict) {
			return nil, 0, fmt.Errorf("variant: field id %d out of dictionary range", fieldIDs[i])
		}
		key := md.dict[fieldIDs[i]]
		start := dataStart + offsets[i]
		if start > len(b) {
			return nil, 0, fmt.Errorf("variant: object value offset out of range")
		}
		v, n, err := decodeValue(md, b[start:])
		if err != nil {
			return nil, 0, fmt.Errorf("variant: decoding field %q: %w", key, err)
		}
		out[key] = v
		if end := offsets[i] + n; end > maxEnd {
			maxEnd = end
		}
	}
	return out, dataStart + maxEnd - 0, nil
}

func decodeArray(md *Metadata, header byte, b []byte) (any, int, error) {
	largeSize := header&0x01 != 0
	offSize := int((header>>1)&0x03) + 1

	off := 1
	sizeBytes := 1
	if largeSize {
		sizeBytes = 4
	}
	numElements, err := readLEFrom(b, off, sizeBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("variant: array size: %w", err)
	}
	off += sizeBytes

	offsets := make([]int, numElements+1)
	for i := range offsets {
		v, err := readLEFrom(b, off, offSize)
		if err != nil {
			return nil, 0, fmt.Errorf("variant: array offset %d: %w", i, err)
		}
		offsets[i] = v
		off += offSize
	}

	dataStart := off
	out := make([]any, numElements)
	maxEnd := 0
	for i := 0; i < numElements; i++ {
		start := dataStart + offsets[i]
		if start > len(b) {
			return nil, 0, fmt.Errorf("variant: array element offset out of range")
		}
		v, n, err := decodeValue(md, b[start:])
		if err != nil {
			return nil, 0, fmt.Errorf("variant: decoding element %d: %w", i, err)
		}
		out[i] = v
		if end := offsets[i] + n; end > maxEnd {
			maxEnd = end
		}
	}
	return out, dataStart + maxEnd, nil
}

func readLEFrom(b []byte, off, size int) (int, error) {
	if off+size > len(b) {
		return 0, fmt.Errorf("truncated (need %d bytes at offset %d, have %d)", size, off, len(b))
	}
	var v uint32
	for i := 0; i < size; i++ {
		v |= uint32(b[off+i]) << (8 * i)
	}
	return int(v), nil
}
