// Package encoding declares the common interface implemented by each
// physical value encoding a Parquet page may use. Choosing a decoder for a
// format.Encoding is done by the root parquet package's page decoder, not
// here.
package encoding

import "github.com/segmentio/parquet-go/format"

// Kind is the physical type a decoder produces values for; it mirrors
// format.Type but stays local to this package so encodings don't import
// format just to switch on it.
type Kind int8

const (
	Boolean Kind = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

// Values is the destination a decoder writes into: exactly one of the
// slices matching the column's physical Kind is non-nil. ByteArray and
// FixedLenByteArray values are appended to Bytes with their boundaries
// recorded in Offsets (Offsets has len(values)+1 entries, like a CSR
// row-pointer array), so a single contiguous buffer can hold every decoded
// string/binary value without one allocation per value.
type Values struct {
	Kind      Kind
	Booleans  []bool
	Int32s    []int32
	Int64s    []int64
	Int96s    [][12]byte
	Floats    []float32
	Doubles   []float64
	Bytes     []byte
	Offsets   []int32
	FixedSize int
}

// Len returns the number of values currently held.
func (v *Values) Len() int {
	switch v.Kind {
	case Boolean:
		return len(v.Booleans)
	case Int32:
		return len(v.Int32s)
	case Int64:
		return len(v.Int64s)
	case Int96:
		return len(v.Int96s)
	case Float:
		return len(v.Floats)
	case Double:
		return len(v.Doubles)
	case ByteArray, FixedLenByteArray:
		if len(v.Offsets) == 0 {
			return 0
		}
		return len(v.Offsets) - 1
	default:
		return 0
	}
}

// ByteArrayAt returns the i-th byte/fixed-len-byte-array value.
func (v *Values) ByteArrayAt(i int) []byte {
	return v.Bytes[v.Offsets[i]:v.Offsets[i+1]]
}

// Decoder decodes a run of values of a single physical kind from a page's
// value buffer (already decompressed, with levels already stripped off).
type Decoder interface {
	// Decode appends up to n values decoded from src into dst, returning
	// the number of bytes of src consumed.
	Decode(dst *Values, src []byte, n int) (consumed int, err error)
}

// KindFromFormat converts a format.Type to the local Kind enum.
func KindFromFormat(t format.Type) Kind {
	switch t {
	case format.Boolean:
		return Boolean
	case format.Int32:
		return Int32
	case format.Int64:
		return Int64
	case format.Int96:
		return Int96
	case format.Float:
		return Float
	case format.Double:
		return Double
	case format.ByteArray:
		return ByteArray
	case format.FixedLenByteArray:
		return FixedLenByteArray
	default:
		return Boolean
	}
}
