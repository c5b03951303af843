package parquet

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	jsonpkg "github.com/segmentio/encoding/json"

	"github.com/segmentio/parquet-go/encoding"
	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/geospatial"
	"github.com/segmentio/parquet-go/variant"
)

// convertValue maps the i-th raw decoded value of a leaf column to the rich
// Go value implied by its ConvertedType/LogicalType annotation. Values with
// no annotation pass through as their physical Go representation.
func convertValue(leaf *Node, values *encoding.Values, i int, cfg *Config) (interface{}, error) {
	elem := leaf.Element

	if elem.LogicalType != nil {
		switch elem.LogicalType.Tag {
		case format.LogicalString, format.LogicalEnum, format.LogicalJSON:
			raw := values.ByteArrayAt(i)
			if elem.LogicalType.Tag == format.LogicalJSON {
				var v interface{}
				if err := jsonpkg.Unmarshal(raw, &v); err != nil {
					return nil, newError("convertValue", SchemaError, fmt.Errorf("decoding JSON column %s: %w", leaf.PathString(), err))
				}
				return v, nil
			}
			if cfg != nil && cfg.UTF8Strict && !utf8.Valid(raw) {
				return nil, newError("convertValue", SchemaError, fmt.Errorf("invalid UTF-8 in STRING column %s", leaf.PathString()))
			}
			return string(raw), nil

		case format.LogicalDecimal:
			return convertDecimal(leaf, values, i)

		case format.LogicalDate:
			days := rawInt64(values, i)
			return time.Unix(days*86400, 0).UTC(), nil

		case format.LogicalTime:
			return convertTimeOfDay(rawInt64(values, i), elem.LogicalType.Unit), nil

		case format.LogicalTimestamp:
			return convertTimestamp(rawInt64(values, i), elem.LogicalType.Unit, elem.LogicalType.IsAdjustedToUTC), nil

		case format.LogicalInteger:
			return convertInteger(values, i, elem.LogicalType.BitWidth, elem.LogicalType.IsSigned)

		case format.LogicalNull:
			return nil, nil

		case format.LogicalUUID:
			raw := values.ByteArrayAt(i)
			if len(raw) != 16 {
				return nil, newError("convertValue", SchemaError, fmt.Errorf("UUID column %s: expected 16 bytes, got %d", leaf.PathString(), len(raw)))
			}
			id, err := uuid.FromBytes(raw)
			if err != nil {
				return nil, newError("convertValue", SchemaError, err)
			}
			return id, nil

		case format.LogicalFloat16:
			raw := values.ByteArrayAt(i)
			if len(raw) != 2 {
				return nil, newError("convertValue", SchemaError, fmt.Errorf("FLOAT16 column %s: expected 2 bytes, got %d", leaf.PathString(), len(raw)))
			}
			return float16ToFloat32(binary.LittleEndian.Uint16(raw)), nil

		case format.LogicalVariant:
			// The metadata/value pair is only complete once both sibling
			// leaves of the VARIANT group have been assembled for this
			// row; combined into a decoded value in the assembler
			// (see combineVariantGroup), not here.
			raw := values.ByteArrayAt(i)
			cp := make([]byte, len(raw))
			copy(cp, raw)
			return cp, nil

		case format.LogicalGeometry:
			raw := values.ByteArrayAt(i)
			geo, err := geospatial.WKBToGeoJSON(raw)
			if err != nil {
				return nil, newError("convertValue", SchemaError, fmt.Errorf("geometry column %s: %w", leaf.PathString(), err))
			}
			return geo, nil

		case format.LogicalBSON:
			return nil, newError("convertValue", UnsupportedLogicalType, fmt.Errorf("BSON column %s", leaf.PathString()))

		case format.LogicalMap, format.LogicalList, format.LogicalNone:
			// Container annotations never reach leaf conversion.
		}
	}

	if elem.HasConvertedType {
		switch elem.ConvertedType {
		case format.UTF8, format.Enum, format.Json:
			raw := values.ByteArrayAt(i)
			if elem.ConvertedType == format.Json {
				var v interface{}
				if err := jsonpkg.Unmarshal(raw, &v); err != nil {
					return nil, newError("convertValue", SchemaError, fmt.Errorf("decoding JSON column %s: %w", leaf.PathString(), err))
				}
				return v, nil
			}
			if cfg != nil && cfg.UTF8Strict && !utf8.Valid(raw) {
				return nil, newError("convertValue", SchemaError, fmt.Errorf("invalid UTF-8 in STRING column %s", leaf.PathString()))
			}
			return string(raw), nil

		case format.Decimal:
			return convertDecimal(leaf, values, i)

		case format.Date:
			days := rawInt64(values, i)
			return time.Unix(days*86400, 0).UTC(), nil

		case format.TimeMillis:
			return convertTimeOfDay(rawInt64(values, i), format.Millis), nil
		case format.TimeMicros:
			return convertTimeOfDay(rawInt64(values, i), format.Micros), nil

		case format.TimestampMillis:
			return convertTimestamp(rawInt64(values, i), format.Millis, true), nil
		case format.TimestampMicros:
			return convertTimestamp(rawInt64(values, i), format.Micros, true), nil

		case format.Uint8, format.Uint16, format.Uint32, format.Uint64:
			return convertLegacyUnsigned(values, i, elem.ConvertedType)

		case format.Int8, format.Int16, format.Int32Converted, format.Int64Converted:
			return rawInt64(values, i), nil

		case format.Bson:
			return nil, newError("convertValue", UnsupportedLogicalType, fmt.Errorf("BSON column %s", leaf.PathString()))

		case format.Interval:
			return nil, newError("convertValue", UnsupportedLogicalType, fmt.Errorf("INTERVAL column %s", leaf.PathString()))
		}
	}

	return rawValue(values, i), nil
}

// rawValue returns the i-th value of values in its plain physical Go
// representation, with no logical-type interpretation.
func rawValue(values *encoding.Values, i int) interface{} {
	switch values.Kind {
	case encoding.Boolean:
		return values.Booleans[i]
	case encoding.Int32:
		return values.Int32s[i]
	case encoding.Int64:
		return values.Int64s[i]
	case encoding.Int96:
		return int96ToInt64(values.Int96s[i])
	case encoding.Float:
		return values.Floats[i]
	case encoding.Double:
		return values.Doubles[i]
	case encoding.ByteArray, encoding.FixedLenByteArray:
		b := values.ByteArrayAt(i)
		cp := make([]byte, len(b))
		copy(cp, b)
		return cp
	default:
		return nil
	}
}

func rawInt64(values *encoding.Values, i int) int64 {
	switch values.Kind {
	case encoding.Int32:
		return int64(values.Int32s[i])
	case encoding.Int64:
		return values.Int64s[i]
	default:
		return 0
	}
}

// int96ToInt64 unpacks the spec's INT96 layout, `(high << 32) | low`, where
// the 12 bytes are a little-endian (u64 low, i32 high) pair.
func int96ToInt64(v [12]byte) int64 {
	low := binary.LittleEndian.Uint64(v[0:8])
	high := int32(binary.LittleEndian.Uint32(v[8:12]))
	return int64(high)<<32 | int64(low)
}

func convertInteger(values *encoding.Values, i int, bitWidth int8, signed bool) (interface{}, error) {
	raw := rawInt64(values, i)
	if signed {
		return raw, nil
	}
	switch bitWidth {
	case 8:
		return uint8(raw), nil
	case 16:
		return uint16(raw), nil
	case 32:
		return uint32(raw), nil
	case 64:
		return uint64(raw), nil
	default:
		return nil, fmt.Errorf("convert: unsupported unsigned integer bit width %d", bitWidth)
	}
}

func convertLegacyUnsigned(values *encoding.Values, i int, ct format.ConvertedType) (interface{}, error) {
	raw := rawInt64(values, i)
	switch ct {
	case format.Uint8:
		return uint8(raw), nil
	case format.Uint16:
		return uint16(raw), nil
	case format.Uint32:
		return uint32(raw), nil
	case format.Uint64:
		return uint64(raw), nil
	default:
		return nil, fmt.Errorf("convert: not an unsigned converted type")
	}
}

// convertTimeOfDay renders a TIME value (an offset since midnight) as a
// duration since midnight in UTC on the Unix epoch day.
func convertTimeOfDay(raw int64, unit format.TimeUnit) time.Duration {
	switch unit {
	case format.Millis:
		return time.Duration(raw) * time.Millisecond
	case format.Micros:
		return time.Duration(raw) * time.Microsecond
	case format.Nanos:
		return time.Duration(raw)
	default:
		return time.Duration(raw)
	}
}

func convertTimestamp(raw int64, unit format.TimeUnit, adjustedToUTC bool) time.Time {
	var t time.Time
	switch unit {
	case format.Millis:
		t = time.UnixMilli(raw)
	case format.Micros:
		t = time.UnixMicro(raw)
	case format.Nanos:
		t = time.Unix(0, raw)
	default:
		t = time.UnixMilli(raw)
	}
	if adjustedToUTC {
		return t.UTC()
	}
	return t
}

// convertDecimal renders a DECIMAL column (physical INT32/INT64/BYTE_ARRAY/
// FIXED_LEN_BYTE_ARRAY) as an unscaled big.Int paired with its scale,
// expressed as a *big.Rat so callers get an exact decimal value.
func convertDecimal(leaf *Node, values *encoding.Values, i int) (*big.Rat, error) {
	elem := leaf.Element
	scale := elem.Scale
	if elem.LogicalType != nil && elem.LogicalType.Tag == format.LogicalDecimal {
		scale = elem.LogicalType.DecimalScale
	}

	var unscaled *big.Int
	switch values.Kind {
	case encoding.Int32:
		unscaled = big.NewInt(int64(values.Int32s[i]))
	case encoding.Int64:
		unscaled = big.NewInt(values.Int64s[i])
	case encoding.ByteArray, encoding.FixedLenByteArray:
		raw := values.ByteArrayAt(i)
		unscaled = bigIntFromBigEndianTwosComplement(raw)
	default:
		return nil, fmt.Errorf("convert: DECIMAL on unsupported physical kind %d", values.Kind)
	}

	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	return new(big.Rat).SetFrac(unscaled, denom), nil
}

// bigIntFromBigEndianTwosComplement decodes a DECIMAL's fixed/variable
// length big-endian two's-complement byte representation.
func bigIntFromBigEndianTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	negative := b[0]&0x80 != 0
	v := new(big.Int).SetBytes(b)
	if !negative {
		return v
	}
	// Two's complement negative: v - 2^(8*len(b))
	full := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
	return v.Sub(v, full)
}

// float16ToFloat32 widens an IEEE 754 binary16 value.
func float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var bits uint32
	switch {
	case exp == 0 && frac == 0:
		bits = sign << 31
	case exp == 0x1f:
		bits = sign<<31 | 0xff<<23 | frac<<13
	case exp == 0:
		// Subnormal half: normalize by shifting the fraction into range.
		e := -14
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		bits = sign<<31 | uint32(int32(e)+127)<<23 | frac<<13
	default:
		bits = sign<<31 | (exp-15+127)<<23 | frac<<13
	}
	return math.Float32frombits(bits)
}

// combineVariantGroup decodes one row's (metadata, value) byte strings,
// assembled from a VARIANT-annotated group's "metadata" and "value"
// leaves, into the tagged value tree variant.Decode produces.
func combineVariantGroup(metadata, value []byte) (interface{}, error) {
	v, err := variant.Decode(metadata, value)
	if err != nil {
		return nil, newError("combineVariantGroup", SchemaError, fmt.Errorf("decoding variant: %w", err))
	}
	return v, nil
}
