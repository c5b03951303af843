package parquet

import "testing"

func TestLevelBitWidth(t *testing.T) {
	cases := []struct {
		max  int
		want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4},
	}
	for _, c := range cases {
		if got := levelBitWidth(c.max); got != c.want {
			t.Fatalf("levelBitWidth(%d) = %d, want %d", c.max, got, c.want)
		}
	}
}

func TestDecodeV1LevelsLengthPrefixed(t *testing.T) {
	// bit width 2, 4 values packed as one bit-packed run of 8 (padded):
	// header (1 group bit-packed) = (1<<1)|1 = 3, then packed bytes for
	// [1,2,1,0,0,0,0,0] at 2 bits each, LSB-first -> 0x19, 0x00.
	body := []byte{0x03, 0x19, 0x00}
	var prefixed []byte
	prefixed = append(prefixed, byte(len(body)), 0, 0, 0)
	prefixed = append(prefixed, body...)

	levels, n, err := decodeV1Levels(prefixed, 2, 4)
	if err != nil {
		t.Fatalf("decodeV1Levels: %v", err)
	}
	if n != 4+len(body) {
		t.Fatalf("consumed %d bytes, want %d", n, 4+len(body))
	}
	want := []int32{1, 2, 1, 0}
	for i, w := range want {
		if levels[i] != w {
			t.Fatalf("level %d = %d, want %d", i, levels[i], w)
		}
	}
}

func TestDecodeV1LevelsZeroMaxIsNoop(t *testing.T) {
	levels, n, err := decodeV1Levels([]byte{1, 2, 3}, 0, 5)
	if err != nil || levels != nil || n != 0 {
		t.Fatalf("decodeV1Levels with maxLevel=0 = %v, %d, %v", levels, n, err)
	}
}

func TestDecodeV2LevelsBareStream(t *testing.T) {
	// bit width 1, RLE run of 4 values = 1: header=(4<<1)|0=8, then 1 byte holding value 1.
	body := []byte{0x08, 0x01}
	levels, err := decodeV2Levels(body, 1, 4)
	if err != nil {
		t.Fatalf("decodeV2Levels: %v", err)
	}
	for i, v := range levels {
		if v != 1 {
			t.Fatalf("level %d = %d, want 1", i, v)
		}
	}
}

func TestCountDefined(t *testing.T) {
	defLevels := []int32{2, 2, 0, 2, 1}
	if n := countDefined(defLevels, 2); n != 3 {
		t.Fatalf("countDefined = %d, want 3", n)
	}
	if n := countDefined(nil, 2); n != -1 {
		t.Fatalf("countDefined(nil) = %d, want -1", n)
	}
}
