package alp

import (
	"encoding/binary"
	"testing"

	"github.com/segmentio/parquet-go/internal/bits"
)

// buildVector encodes one ALP vector: exponent/factor chosen so that
// value*10^exponent is an integer, frame-of-reference is the minimum such
// integer, and ints are packed at the bit width needed for the widest
// offset from the frame of reference. No exceptions. frSize is 4 for the
// float32 frame-of-reference, 8 for float64.
func buildVector(values []float64, exponent, factor, frSize int) []byte {
	ints := make([]int64, len(values))
	scaleUp := float64(1)
	for i := 0; i < exponent; i++ {
		scaleUp *= 10
	}
	for i, v := range values {
		ints[i] = int64(v * scaleUp)
	}
	fr := ints[0]
	for _, v := range ints {
		if v < fr {
			fr = v
		}
	}
	var maxDelta uint64
	deltas := make([]uint64, len(ints))
	for i, v := range ints {
		d := uint64(v - fr)
		deltas[i] = d
		if d > maxDelta {
			maxDelta = d
		}
	}
	width := bits.Width(maxDelta)

	var buf []byte
	buf = append(buf, byte(exponent), byte(factor))
	var numExc [2]byte
	binary.LittleEndian.PutUint16(numExc[:], 0)
	buf = append(buf, numExc[:]...)

	if frSize == 4 {
		var frBuf [4]byte
		binary.LittleEndian.PutUint32(frBuf[:], uint32(int32(fr)))
		buf = append(buf, frBuf[:]...)
	} else {
		var frBuf [8]byte
		binary.LittleEndian.PutUint64(frBuf[:], uint64(fr))
		buf = append(buf, frBuf[:]...)
	}
	buf = append(buf, byte(width))
	buf = bits.Pack(buf, deltas, width)
	return buf
}

func buildStream(values []float64, exponent, factor, vectorSize, frSize int) []byte {
	buf := []byte{1, 0, 0, byte(intLog2(vectorSize))}
	var nBuf [4]byte
	binary.LittleEndian.PutUint32(nBuf[:], uint32(len(values)))
	buf = append(buf, nBuf[:]...)
	for start := 0; start < len(values); start += vectorSize {
		end := start + vectorSize
		if end > len(values) {
			end = len(values)
		}
		buf = append(buf, buildVector(values[start:end], exponent, factor, frSize)...)
	}
	return buf
}

func intLog2(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}

func TestDecodeFloatsNoExceptions(t *testing.T) {
	values := []float64{1.5, 2.0, -0.5, 3.25}
	// exponent=2, factor=0: scale = 10^(0-2) = 0.01, so ints are value*100.
	src := buildStream(values, 2, 0, 8, 4)

	got, err := DecodeFloats(nil, src)
	if err != nil {
		t.Fatalf("DecodeFloats: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i, v := range values {
		if absFloat64(float64(got[i])-v) > 1e-4 {
			t.Fatalf("value %d = %v, want %v", i, got[i], v)
		}
	}
}

func TestDecodeDoublesAcrossTwoVectors(t *testing.T) {
	values := []float64{1.5, 2.0, -0.5, 3.25, 10.75, -20.125}
	src := buildStream(values, 3, 0, 4, 8) // vector size 4 forces two vectors

	got, err := DecodeDoubles(nil, src)
	if err != nil {
		t.Fatalf("DecodeDoubles: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i, v := range values {
		if absFloat64(got[i]-v) > 1e-6 {
			t.Fatalf("value %d = %v, want %v", i, got[i], v)
		}
	}
}

func TestDecodeFloatsRejectsUnknownVersion(t *testing.T) {
	src := []byte{2, 0, 0, 0, 0, 0, 0, 0}
	if _, err := DecodeFloats(nil, src); err == nil {
		t.Fatal("expected unsupported version error, got nil")
	}
}

func absFloat64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
