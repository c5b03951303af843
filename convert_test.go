package parquet

import (
	"math"
	"testing"
)

// TestFloat16ToFloat32 covers boundary scenario g's spot values: zero,
// signed zero, small integers, and NaN.
func TestFloat16ToFloat32(t *testing.T) {
	cases := []struct {
		name string
		bits uint16
		want float32
	}{
		{"positive one", 0x3c00, 1},
		{"negative two", 0xc000, -2},
		{"zero", 0x0000, 0},
		{"negative zero", 0x8000, float32(math.Copysign(0, -1))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := float16ToFloat32(c.bits)
			if got != c.want || math.Signbit(float64(got)) != math.Signbit(float64(c.want)) {
				t.Fatalf("float16ToFloat32(%#04x) = %v, want %v", c.bits, got, c.want)
			}
		})
	}
}

func TestFloat16ToFloat32NaN(t *testing.T) {
	got := float16ToFloat32(0x7e00)
	if !math.IsNaN(float64(got)) {
		t.Fatalf("float16ToFloat32(0x7e00) = %v, want NaN", got)
	}
}

func TestBigIntFromBigEndianTwosComplement(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
		want int64
	}{
		{"positive", []byte{0x01, 0x00}, 256},
		{"negative one", []byte{0xff}, -1},
		{"negative large", []byte{0xfe, 0x00}, -512},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := bigIntFromBigEndianTwosComplement(c.b)
			if got.Int64() != c.want {
				t.Fatalf("got %v, want %d", got, c.want)
			}
		})
	}
}

func TestInt96ToInt64(t *testing.T) {
	var v [12]byte
	v[0] = 42 // low 64 bits = 42, high 32 bits = 0
	if got := int96ToInt64(v); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}
