package thrift

import (
	"fmt"

	"github.com/segmentio/parquet-go/format"
)

// DecodeFileMetaData decodes a Thrift-compact-encoded FileMetaData struct,
// the top-level footer structure of a parquet file.
func DecodeFileMetaData(buf []byte, m *format.FileMetaData) error {
	r := NewReader(buf)
	return readFileMetaData(r, m)
}

// DecodeColumnIndex decodes a single ColumnIndex struct.
func DecodeColumnIndex(buf []byte, idx *format.ColumnIndex) error {
	r := NewReader(buf)
	return readColumnIndex(r, idx)
}

// DecodeOffsetIndex decodes a single OffsetIndex struct.
func DecodeOffsetIndex(buf []byte, idx *format.OffsetIndex) error {
	r := NewReader(buf)
	return readOffsetIndex(r, idx)
}

// DecodePageHeader decodes a single PageHeader struct and returns the
// number of bytes consumed from buf.
func DecodePageHeader(buf []byte, h *format.PageHeader) (int, error) {
	r := NewReader(buf)
	if err := readPageHeader(r, h); err != nil {
		return 0, err
	}
	return r.Offset(), nil
}

// DecodeBloomFilterHeader decodes a single BloomFilterHeader struct and
// returns the number of bytes consumed from buf.
func DecodeBloomFilterHeader(buf []byte, h *format.BloomFilterHeader) (int, error) {
	r := NewReader(buf)
	if err := readBloomFilterHeader(r, h); err != nil {
		return 0, err
	}
	return r.Offset(), nil
}

func readFileMetaData(r *Reader, m *format.FileMetaData) error {
	r.BeginStruct()
	defer r.EndStruct()

	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return fmt.Errorf("reading FileMetaData: %w", err)
		}
		if h.Type == Stop {
			break
		}

		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			m.Version = v

		case 2:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.Schema = make([]format.SchemaElement, lh.Count)
			for i := range m.Schema {
				if err := readSchemaElement(r, &m.Schema[i]); err != nil {
					return fmt.Errorf("schema[%d]: %w", i, err)
				}
			}

		case 3:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.NumRows = v

		case 4:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.RowGroups = make([]format.RowGroup, lh.Count)
			for i := range m.RowGroups {
				if err := readRowGroup(r, &m.RowGroups[i]); err != nil {
					return fmt.Errorf("row_groups[%d]: %w", i, err)
				}
			}

		case 5:
			kv, err := readKeyValueList(r)
			if err != nil {
				return err
			}
			m.KeyValueMetadata = kv

		case 6:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			m.CreatedBy, m.HasCreatedBy = s, true

		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
	return nil
}

func readSchemaElement(r *Reader, e *format.SchemaElement) error {
	r.BeginStruct()
	defer r.EndStruct()

	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			break
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.Type, e.HasType = format.Type(v), true
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.TypeLength, e.HasTypeLength = v, true
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.RepetitionType, e.HasRepetitionType = format.FieldRepetitionType(v), true
		case 4:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			e.Name = s
		case 5:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.NumChildren = v
		case 6:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.ConvertedType, e.HasConvertedType = format.ConvertedType(v), true
		case 7:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.Scale = v
		case 8:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.Precision = v
		case 9:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			e.FieldID, e.HasFieldID = v, true
		case 10:
			lt, err := readLogicalType(r)
			if err != nil {
				return err
			}
			e.LogicalType = lt
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
	return nil
}

func readLogicalType(r *Reader) (*format.LogicalType, error) {
	r.BeginStruct()
	defer r.EndStruct()

	lt := &format.LogicalType{}
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if h.Type == Stop {
			break
		}
		switch h.ID {
		case 1:
			lt.Tag = format.LogicalString
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 2:
			lt.Tag = format.LogicalMap
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 3:
			lt.Tag = format.LogicalList
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 4:
			lt.Tag = format.LogicalEnum
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 5:
			lt.Tag = format.LogicalDecimal
			if err := readDecimalType(r, lt); err != nil {
				return nil, err
			}
		case 6:
			lt.Tag = format.LogicalDate
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 7:
			lt.Tag = format.LogicalTime
			if err := readTimeType(r, lt); err != nil {
				return nil, err
			}
		case 8:
			lt.Tag = format.LogicalTimestamp
			if err := readTimeType(r, lt); err != nil {
				return nil, err
			}
		case 10:
			lt.Tag = format.LogicalInteger
			if err := readIntType(r, lt); err != nil {
				return nil, err
			}
		case 11:
			lt.Tag = format.LogicalNull
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 12:
			lt.Tag = format.LogicalJSON
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 13:
			lt.Tag = format.LogicalBSON
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 14:
			lt.Tag = format.LogicalUUID
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 15:
			lt.Tag = format.LogicalFloat16
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 16:
			lt.Tag = format.LogicalVariant
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		case 17:
			lt.Tag = format.LogicalGeometry
			if err := skipEmptyStruct(r, h); err != nil {
				return nil, err
			}
		default:
			if err := r.SkipField(h); err != nil {
				return nil, err
			}
		}
	}
	return lt, nil
}

func skipEmptyStruct(r *Reader, h FieldHeader) error {
	if h.Type != StructType {
		return fmt.Errorf("thrift: expected struct wire type for logical type tag, got %#x", byte(h.Type))
	}
	r.BeginStruct()
	defer r.EndStruct()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == Stop {
			return nil
		}
		if err := r.SkipField(fh); err != nil {
			return err
		}
	}
}

func readDecimalType(r *Reader, lt *format.LogicalType) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			lt.DecimalScale = v
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			lt.DecimalPrecision = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readTimeType(r *Reader, lt *format.LogicalType) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadBool(h)
			if err != nil {
				return err
			}
			lt.IsAdjustedToUTC = v
		case 2:
			u, err := readTimeUnit(r)
			if err != nil {
				return err
			}
			lt.Unit = u
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readTimeUnit(r *Reader) (format.TimeUnit, error) {
	r.BeginStruct()
	defer r.EndStruct()
	unit := format.Millis
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return 0, err
		}
		if h.Type == Stop {
			return unit, nil
		}
		switch h.ID {
		case 1:
			unit = format.Millis
		case 2:
			unit = format.Micros
		case 3:
			unit = format.Nanos
		}
		if err := r.SkipField(h); err != nil {
			return 0, err
		}
	}
}

func readIntType(r *Reader, lt *format.LogicalType) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			lt.BitWidth = int8(v)
		case 2:
			v, err := r.ReadBool(h)
			if err != nil {
				return err
			}
			lt.IsSigned = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readKeyValueList(r *Reader) ([]format.KeyValue, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	kvs := make([]format.KeyValue, lh.Count)
	for i := range kvs {
		if err := readKeyValue(r, &kvs[i]); err != nil {
			return nil, err
		}
	}
	return kvs, nil
}

func readKeyValue(r *Reader, kv *format.KeyValue) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			kv.Key = s
		case 2:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			kv.Value = s
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readRowGroup(r *Reader, g *format.RowGroup) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			g.Columns = make([]format.ColumnChunk, lh.Count)
			for i := range g.Columns {
				if err := readColumnChunk(r, &g.Columns[i]); err != nil {
					return fmt.Errorf("columns[%d]: %w", i, err)
				}
			}
		case 2:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.TotalByteSize = v
		case 3:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.NumRows = v
		case 4:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			g.SortingColumns = make([]format.SortingColumn, lh.Count)
			for i := range g.SortingColumns {
				if err := readSortingColumn(r, &g.SortingColumns[i]); err != nil {
					return err
				}
			}
		case 5:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.FileOffset, g.HasFileOffset = v, true
		case 7:
			v, err := r.ReadI16()
			if err != nil {
				return err
			}
			g.Ordinal, g.HasOrdinal = v, true
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readSortingColumn(r *Reader, s *format.SortingColumn) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.ColumnIdx = v
		case 2:
			v, err := r.ReadBool(h)
			if err != nil {
				return err
			}
			s.Descending = v
		case 3:
			v, err := r.ReadBool(h)
			if err != nil {
				return err
			}
			s.NullsFirst = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readColumnChunk(r *Reader, c *format.ColumnChunk) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			c.FilePath, c.HasFilePath = s, true
		case 2:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.FileOffset = v
		case 3:
			c.MetaData = &format.ColumnMetaData{}
			if err := readColumnMetaData(r, c.MetaData); err != nil {
				return err
			}
		case 4:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.OffsetIndexOffset, c.HasOffsetIndexOffset = v, true
		case 5:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.OffsetIndexLength = v
		case 6:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.ColumnIndexOffset, c.HasColumnIndexOffset = v, true
		case 7:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.ColumnIndexLength = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readColumnMetaData(r *Reader, m *format.ColumnMetaData) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			m.Type = format.Type(v)
		case 2:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.Encodings = make([]format.Encoding, lh.Count)
			for i := range m.Encodings {
				v, err := r.ReadI32()
				if err != nil {
					return err
				}
				m.Encodings[i] = format.Encoding(v)
			}
		case 3:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.PathInSchema = make([]string, lh.Count)
			for i := range m.PathInSchema {
				s, err := r.ReadString()
				if err != nil {
					return err
				}
				m.PathInSchema[i] = s
			}
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			m.Codec = format.CompressionCodec(v)
		case 5:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.NumValues = v
		case 6:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.TotalUncompressedSize = v
		case 7:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.TotalCompressedSize = v
		case 8:
			kv, err := readKeyValueList(r)
			if err != nil {
				return err
			}
			m.KeyValueMetadata = kv
		case 9:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.DataPageOffset = v
		case 10:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.HasIndexPageOffset, m.IndexPageOffset = true, v
		case 11:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.HasDictionaryPageOffset, m.DictionaryPageOffset = true, v
		case 12:
			m.Statistics = &format.Statistics{}
			if err := readStatistics(r, m.Statistics); err != nil {
				return err
			}
		case 13:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.EncodingStats = make([]format.PageEncodingStats, lh.Count)
			for i := range m.EncodingStats {
				if err := readPageEncodingStats(r, &m.EncodingStats[i]); err != nil {
					return err
				}
			}
		case 14:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.HasBloomFilterOffset, m.BloomFilterOffset = true, v
		case 15:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			m.HasBloomFilterLength, m.BloomFilterLength = true, v
		case 16:
			m.SizeStatistics = &format.SizeStatistics{}
			if err := readSizeStatistics(r, m.SizeStatistics); err != nil {
				return err
			}
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readStatistics(r *Reader, s *format.Statistics) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			b, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.Max = append([]byte(nil), b...)
		case 2:
			b, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.Min = append([]byte(nil), b...)
		case 3:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			s.NullCount, s.HasNullCount = v, true
		case 4:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			s.DistinctCount, s.HasDistinctCount = v, true
		case 5:
			b, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.MinValue = append([]byte(nil), b...)
		case 6:
			b, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.MaxValue = append([]byte(nil), b...)
		case 7:
			v, err := r.ReadBool(h)
			if err != nil {
				return err
			}
			s.IsMaxExact = v
		case 8:
			v, err := r.ReadBool(h)
			if err != nil {
				return err
			}
			s.IsMinExact = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readPageEncodingStats(r *Reader, s *format.PageEncodingStats) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.PageType = format.PageType(v)
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Encoding = format.Encoding(v)
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Count = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readSizeStatistics(r *Reader, s *format.SizeStatistics) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			s.UnencodedByteArrayDataBytes = v
		case 2:
			s.RepetitionLevelHistogram = readI64List(r)
		case 3:
			s.DefinitionLevelHistogram = readI64List(r)
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readI64List(r *Reader) []int64 {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil
	}
	out := make([]int64, lh.Count)
	for i := range out {
		v, err := r.ReadI64()
		if err != nil {
			return out[:i]
		}
		out[i] = v
	}
	return out
}

func readPageHeader(r *Reader, h *format.PageHeader) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.Type = format.PageType(v)
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.UncompressedPageSize = v
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.CompressedPageSize = v
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.CRC, h.HasCRC = v, true
		case 5:
			h.DataPageHeader = &format.DataPageHeader{}
			if err := readDataPageHeader(r, h.DataPageHeader); err != nil {
				return err
			}
		case 6:
			// index_page_header: empty struct, nothing to read
			if err := skipEmptyStruct(r, fh); err != nil {
				return err
			}
		case 7:
			h.DictionaryPageHeader = &format.DictionaryPageHeader{}
			if err := readDictionaryPageHeader(r, h.DictionaryPageHeader); err != nil {
				return err
			}
		case 8:
			h.DataPageHeaderV2 = &format.DataPageHeaderV2{}
			if err := readDataPageHeaderV2(r, h.DataPageHeaderV2); err != nil {
				return err
			}
		default:
			if err := r.SkipField(fh); err != nil {
				return err
			}
		}
	}
}

func readDataPageHeader(r *Reader, h *format.DataPageHeader) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.NumValues = v
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.Encoding = format.Encoding(v)
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.DefinitionLevelEncoding = format.Encoding(v)
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.RepetitionLevelEncoding = format.Encoding(v)
		case 5:
			h.Statistics = &format.Statistics{}
			if err := readStatistics(r, h.Statistics); err != nil {
				return err
			}
		default:
			if err := r.SkipField(fh); err != nil {
				return err
			}
		}
	}
}

func readDictionaryPageHeader(r *Reader, h *format.DictionaryPageHeader) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.NumValues = v
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.Encoding = format.Encoding(v)
		case 3:
			v, err := r.ReadBool(fh)
			if err != nil {
				return err
			}
			h.IsSorted = v
		default:
			if err := r.SkipField(fh); err != nil {
				return err
			}
		}
	}
}

func readDataPageHeaderV2(r *Reader, h *format.DataPageHeaderV2) error {
	r.BeginStruct()
	defer r.EndStruct()
	// The spec of DATA_PAGE_V2's is_compressed field: "default true". We
	// start from that default and only flip HasIsCompressed once the field
	// is actually present on the wire, so callers can tell "absent, assume
	// true" from "present and true" apart if they need to (REDESIGN FLAG
	// iii: never assume the default ourselves past this point).
	h.IsCompressed = true
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.NumValues = v
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.NumNulls = v
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.NumRows = v
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.Encoding = format.Encoding(v)
		case 5:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.DefinitionLevelsByteLength = v
		case 6:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.RepetitionLevelsByteLength = v
		case 7:
			v, err := r.ReadBool(fh)
			if err != nil {
				return err
			}
			h.IsCompressed, h.HasIsCompressed = v, true
		case 8:
			h.Statistics = &format.Statistics{}
			if err := readStatistics(r, h.Statistics); err != nil {
				return err
			}
		default:
			if err := r.SkipField(fh); err != nil {
				return err
			}
		}
	}
}

func readColumnIndex(r *Reader, idx *format.ColumnIndex) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			idx.NullPages = make([]bool, lh.Count)
			for i := range idx.NullPages {
				v, err := r.ReadBool(FieldHeader{Type: lh.Type})
				if err != nil {
					return err
				}
				idx.NullPages[i] = v
			}
		case 2:
			idx.MinValues, err = readBinaryList(r)
			if err != nil {
				return err
			}
		case 3:
			idx.MaxValues, err = readBinaryList(r)
			if err != nil {
				return err
			}
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			idx.BoundaryOrder = format.BoundaryOrder(v)
		case 5:
			idx.NullCounts = readI64List(r)
			idx.HasNullCounts = true
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readBinaryList(r *Reader) ([][]byte, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, lh.Count)
	for i := range out {
		b, err := r.ReadBinary()
		if err != nil {
			return nil, err
		}
		out[i] = append([]byte(nil), b...)
	}
	return out, nil
}

func readOffsetIndex(r *Reader, idx *format.OffsetIndex) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			idx.PageLocations = make([]format.PageLocation, lh.Count)
			for i := range idx.PageLocations {
				if err := readPageLocation(r, &idx.PageLocations[i]); err != nil {
					return err
				}
			}
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readPageLocation(r *Reader, p *format.PageLocation) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			p.Offset = v
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			p.CompressedPageSize = v
		case 3:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			p.FirstRowIndex = v
		default:
			if err := r.SkipField(h); err != nil {
				return err
			}
		}
	}
}

func readBloomFilterHeader(r *Reader, h *format.BloomFilterHeader) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.NumBytes = v
		case 2: // algorithm union
			if err := readUnionTag(r, func(id int16) { h.SplitBlockAlgorithm = id == 1 }); err != nil {
				return err
			}
		case 3: // hash union
			if err := readUnionTag(r, func(id int16) { h.XXHash = id == 1 }); err != nil {
				return err
			}
		case 4: // compression union
			if err := readUnionTag(r, func(id int16) { h.Uncompressed = id == 1 }); err != nil {
				return err
			}
		default:
			if err := r.SkipField(fh); err != nil {
				return err
			}
		}
	}
}

// readUnionTag reads a struct whose only meaningful content is which single
// field id was set (each alternative being an empty marker struct), as used
// by the algorithm/hash/compression unions of BloomFilterHeader.
func readUnionTag(r *Reader, observe func(id int16)) error {
	r.BeginStruct()
	defer r.EndStruct()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == Stop {
			return nil
		}
		observe(h.ID)
		if err := r.SkipField(h); err != nil {
			return err
		}
	}
}
