// Package geospatial converts Well-Known Binary (WKB) geometry values, as
// stored by the GEOMETRY logical type, into GeoJSON-shaped Go values
// (map[string]any with "type" and "coordinates"/"geometries" keys) ready
// for JSON encoding.
package geospatial

import (
	"encoding/binary"
	"fmt"
	"math"
)

type geometryType uint32

const (
	point              geometryType = 1
	lineString         geometryType = 2
	polygon            geometryType = 3
	multiPoint         geometryType = 4
	multiLineString    geometryType = 5
	multiPolygon       geometryType = 6
	geometryCollection geometryType = 7
)

// WKBToGeoJSON decodes a single WKB-encoded geometry into a GeoJSON-shaped
// value.
func WKBToGeoJSON(b []byte) (map[string]any, error) {
	v, _, err := decodeGeometry(b)
	return v, err
}

func decodeGeometry(b []byte) (map[string]any, int, error) {
	if len(b) < 5 {
		return nil, 0, fmt.Errorf("geospatial: truncated WKB header")
	}
	var bo binary.ByteOrder
	switch b[0] {
	case 0:
		bo = binary.BigEndian
	case 1:
		bo = binary.LittleEndian
	default:
		return nil, 0, fmt.Errorf("geospatial: invalid WKB byte order marker %#x", b[0])
	}
	typ := geometryType(bo.Uint32(b[1:5]) & 0xff) // mask off Z/M/SRID flag bits this decoder does not support
	off := 5

	switch typ {
	case point:
		coords, n, err := readPoint(b[off:], bo)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"type": "Point", "coordinates": coords}, off + n, nil

	case lineString:
		coords, n, err := readPoints(b[off:], bo)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"type": "LineString", "coordinates": coords}, off + n, nil

	case polygon:
		rings, n, err := readRings(b[off:], bo)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"type": "Polygon", "coordinates": rings}, off + n, nil

	case multiPoint:
		pts, n, err := readGeometryList(b[off:], bo, "Point")
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"type": "MultiPoint", "coordinates": flattenField(pts, "coordinates")}, off + n, nil

	case multiLineString:
		lines, n, err := readGeometryList(b[off:], bo, "LineString")
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"type": "MultiLineString", "coordinates": flattenField(lines, "coordinates")}, off + n, nil

	case multiPolygon:
		polys, n, err := readGeometryList(b[off:], bo, "Polygon")
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{"type": "MultiPolygon", "coordinates": flattenField(polys, "coordinates")}, off + n, nil

	case geometryCollection:
		if len(b[off:]) < 4 {
			return nil, 0, fmt.Errorf("geospatial: truncated geometry collection count")
		}
		count := int(bo.Uint32(b[off:]))
		off += 4
		geoms := make([]any, 0, count)
		for i := 0; i < count; i++ {
			g, n, err := decodeGeometry(b[off:])
			if err != nil {
				return nil, 0, err
			}
			geoms = append(geoms, g)
			off += n
		}
		return map[string]any{"type": "GeometryCollection", "geometries": geoms}, off, nil

	default:
		return nil, 0, fmt.Errorf("geospatial: unsupported WKB geometry type %d", typ)
	}
}

func readPoint(b []byte, bo binary.ByteOrder) ([]float64, int, error) {
	if len(b) < 16 {
		return nil, 0, fmt.Errorf("geospatial: truncated point")
	}
	x := math.Float64frombits(bo.Uint64(b[0:8]))
	y := math.Float64frombits(bo.Uint64(b[8:16]))
	return []float64{x, y}, 16, nil
}

func readPoints(b []byte, bo binary.ByteOrder) ([][]float64, int, error) {
	if len(b) < 4 {
		return nil, 0, fmt.Errorf("geospatial: truncated point count")
	}
	count := int(bo.Uint32(b[:4]))
	off := 4
	pts := make([][]float64, 0, count)
	for i := 0; i < count; i++ {
		p, n, err := readPoint(b[off:], bo)
		if err != nil {
			return nil, 0, err
		}
		pts = append(pts, p)
		off += n
	}
	return pts, off, nil
}

func readRings(b []byte, bo binary.ByteOrder) ([][][]float64, int, error) {
	if len(b) < 4 {
		return nil, 0, fmt.Errorf("geospatial: truncated ring count")
	}
	count := int(bo.Uint32(b[:4]))
	off := 4
	rings := make([][][]float64, 0, count)
	for i := 0; i < count; i++ {
		ring, n, err := readPoints(b[off:], bo)
		if err != nil {
			return nil, 0, err
		}
		rings = append(rings, ring)
		off += n
	}
	return rings, off, nil
}

func readGeometryList(b []byte, bo binary.ByteOrder, want string) ([]map[string]any, int, error) {
	if len(b) < 4 {
		return nil, 0, fmt.Errorf("geospatial: truncated geometry list count")
	}
	count := int(bo.Uint32(b[:4]))
	off := 4
	out := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		g, n, err := decodeGeometry(b[off:])
		if err != nil {
			return nil, 0, err
		}
		if g["type"] != want {
			return nil, 0, fmt.Errorf("geospatial: expected %s member, got %v", want, g["type"])
		}
		out = append(out, g)
		off += n
	}
	return out, off, nil
}

func flattenField(geoms []map[string]any, field string) []any {
	out := make([]any, len(geoms))
	for i, g := range geoms {
		out[i] = g[field]
	}
	return out
}
