package rle

import (
	"reflect"
	"testing"

	"github.com/segmentio/parquet-go/internal/bits"
)

// An RLE run and a bit-packed run encoding the same eight repeated values
// must decode to the same result: the hybrid's two run kinds are just two
// serializations of one logical value stream.
func TestRLEAndBitPackedBijection(t *testing.T) {
	const bitWidth = 3
	const value = uint64(4)

	rleRun := []byte{byte(8 << 1)} // header: runLen=8, isBitPacked=0
	rleRun = append(rleRun, byte(value))

	packed := bits.Pack(nil, []uint64{value, value, value, value, value, value, value, value}, bitWidth)
	bitPackedRun := append([]byte{byte((1 << 1) | 1)}, packed...) // header: 1 group of 8, isBitPacked=1

	dec := &Decoder{BitWidth: bitWidth}
	fromRLE, _, err := dec.DecodeInt32s(nil, rleRun, 8)
	if err != nil {
		t.Fatalf("decoding RLE run: %v", err)
	}
	fromBitPacked, _, err := dec.DecodeInt32s(nil, bitPackedRun, 8)
	if err != nil {
		t.Fatalf("decoding bit-packed run: %v", err)
	}

	if !reflect.DeepEqual(fromRLE, fromBitPacked) {
		t.Fatalf("RLE run decoded to %v, bit-packed run decoded to %v", fromRLE, fromBitPacked)
	}
	want := []int32{4, 4, 4, 4, 4, 4, 4, 4}
	if !reflect.DeepEqual(fromRLE, want) {
		t.Fatalf("decoded %v, want %v", fromRLE, want)
	}
}

// A zero bit width (a column whose definition/repetition level is always
// at its maximum) decodes every requested value as 0 without consuming any
// input bytes.
func TestRLEZeroBitWidth(t *testing.T) {
	dec := &Decoder{BitWidth: 0}
	got, n, err := dec.DecodeInt32s(nil, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("consumed %d bytes, want 0", n)
	}
	want := []int32{0, 0, 0, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decoded %v, want %v", got, want)
	}
}
