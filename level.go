package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-go/encoding/rle"
	"github.com/segmentio/parquet-go/internal/bits"
)

// levelBitWidth returns the bit width needed to RLE/bit-pack-decode a
// definition or repetition level array whose maximum value is maxLevel.
func levelBitWidth(maxLevel int) int {
	if maxLevel <= 0 {
		return 0
	}
	return bits.Width(uint64(maxLevel))
}

// decodeV1Levels decodes one 4-byte-length-prefixed RLE-hybrid level
// stream (as used by DATA_PAGE repetition/definition levels), returning
// the decoded levels and the number of src bytes consumed.
func decodeV1Levels(src []byte, maxLevel, numValues int) ([]int32, int, error) {
	if maxLevel == 0 {
		return nil, 0, nil
	}
	d := &rle.Decoder{BitWidth: levelBitWidth(maxLevel)}
	levels, n, err := d.DecodeLengthPrefixed(make([]int32, 0, numValues), src, numValues)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding levels: %w", err)
	}
	return levels, n, nil
}

// decodeV2Levels decodes a bare (not length-prefixed; the length comes
// from the page header) RLE-hybrid level stream, as used by DATA_PAGE_V2.
func decodeV2Levels(src []byte, maxLevel, numValues int) ([]int32, error) {
	if maxLevel == 0 {
		return nil, nil
	}
	d := &rle.Decoder{BitWidth: levelBitWidth(maxLevel)}
	levels, _, err := d.DecodeInt32s(make([]int32, 0, numValues), src, numValues)
	if err != nil {
		return nil, fmt.Errorf("decoding V2 levels: %w", err)
	}
	return levels, nil
}

// countDefined returns the number of entries in defLevels equal to
// maxDefinitionLevel (i.e. values that are actually present, not null or
// absent due to an empty list).
func countDefined(defLevels []int32, maxDefinitionLevel int) int {
	if defLevels == nil {
		return -1 // caller should use numValues: no nulls possible
	}
	n := 0
	for _, d := range defLevels {
		if int(d) == maxDefinitionLevel {
			n++
		}
	}
	return n
}
