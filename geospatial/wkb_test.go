package geospatial

import (
	"encoding/binary"
	"math"
	"reflect"
	"testing"
)

func le(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func lef64(v float64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return b[:]
}

func TestWKBPoint(t *testing.T) {
	var b []byte
	b = append(b, 1)         // little-endian
	b = append(b, le(1)...)  // Point
	b = append(b, lef64(1.5)...)
	b = append(b, lef64(-2.25)...)

	got, err := WKBToGeoJSON(b)
	if err != nil {
		t.Fatalf("WKBToGeoJSON: %v", err)
	}
	want := map[string]any{"type": "Point", "coordinates": []float64{1.5, -2.25}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestWKBLineString(t *testing.T) {
	var b []byte
	b = append(b, 1)
	b = append(b, le(2)...) // LineString
	b = append(b, le(2)...) // 2 points
	b = append(b, lef64(0)...)
	b = append(b, lef64(0)...)
	b = append(b, lef64(1)...)
	b = append(b, lef64(1)...)

	got, err := WKBToGeoJSON(b)
	if err != nil {
		t.Fatalf("WKBToGeoJSON: %v", err)
	}
	want := map[string]any{"type": "LineString", "coordinates": [][]float64{{0, 0}, {1, 1}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestWKBMultiPointFlattensCoordinates(t *testing.T) {
	var pt1, pt2 []byte
	pt1 = append(pt1, 1)
	pt1 = append(pt1, le(1)...)
	pt1 = append(pt1, lef64(0)...)
	pt1 = append(pt1, lef64(0)...)
	pt2 = append(pt2, 1)
	pt2 = append(pt2, le(1)...)
	pt2 = append(pt2, lef64(5)...)
	pt2 = append(pt2, lef64(5)...)

	var b []byte
	b = append(b, 1)
	b = append(b, le(4)...) // MultiPoint
	b = append(b, le(2)...) // 2 members
	b = append(b, pt1...)
	b = append(b, pt2...)

	got, err := WKBToGeoJSON(b)
	if err != nil {
		t.Fatalf("WKBToGeoJSON: %v", err)
	}
	want := map[string]any{"type": "MultiPoint", "coordinates": []any{[]float64{0, 0}, []float64{5, 5}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestWKBInvalidByteOrder(t *testing.T) {
	if _, err := WKBToGeoJSON([]byte{2, 0, 0, 0, 0}); err == nil {
		t.Fatal("expected error for invalid byte order marker, got nil")
	}
}

func TestWKBUnsupportedGeometryType(t *testing.T) {
	var b []byte
	b = append(b, 1)
	b = append(b, le(99)...)
	if _, err := WKBToGeoJSON(b); err == nil {
		t.Fatal("expected error for unsupported geometry type, got nil")
	}
}
