package parquet

import (
	"context"
	"fmt"

	"github.com/segmentio/parquet-go/encoding"
	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/internal/thrift"
	"github.com/segmentio/parquet-go/source"
)

// maxChunkBytes caps a column chunk's compressed size at 1 GiB. A larger
// chunk makes checkChunkSize return an InvalidFile error, which fails the
// whole read; the column is not skipped.
const maxChunkBytes = 1 << 30

// readColumnChunk fetches [byteRange.Start, byteRange.End) of one column
// chunk with its own ReadRange call and decodes it. Used when the chunk
// wasn't already covered by a row-group-wide coalesced fetch; see
// decodeColumnChunk for the shared decode path.
func readColumnChunk(ctx context.Context, src source.AsyncSource, leaf *Node, chunk ChunkPlan, byteRange ByteRange, selectStart, selectEnd int64, cfg *Config) (*assembledColumn, error) {
	if err := checkChunkSize(leaf, chunk); err != nil {
		return nil, err
	}
	buf, err := src.ReadRange(ctx, byteRange.Start, byteRange.End)
	if err != nil {
		return nil, newError("readColumnChunk", SourceError, err)
	}
	return decodeColumnChunk(leaf, chunk, buf, selectStart, selectEnd, cfg)
}

func checkChunkSize(leaf *Node, chunk ChunkPlan) error {
	if chunk.Column.TotalCompressedSize > maxChunkBytes {
		return newError("readColumnChunk", InvalidFile, fmt.Errorf("column %s: chunk size %d exceeds %d byte limit", leaf.PathString(), chunk.Column.TotalCompressedSize, maxChunkBytes))
	}
	return nil
}

// decodeColumnChunk decodes the pages held in buf — exactly the bytes of
// one column chunk's [byteRange.Start, byteRange.End), whether buf was
// fetched individually or sliced out of a row-group-wide coalesced
// fetch — then slices out [selectStart, selectEnd) of the resulting rows,
// row indices relative to the first row whose page is included in buf (0
// when buf covers the whole chunk from its first page).
func decodeColumnChunk(leaf *Node, chunk ChunkPlan, buf []byte, selectStart, selectEnd int64, cfg *Config) (*assembledColumn, error) {
	col := chunk.Column
	if err := checkChunkSize(leaf, chunk); err != nil {
		return nil, err
	}

	codecs := codecTableFor(cfg)

	maxDef := leaf.MaxDefinitionLevel()
	maxRep := leaf.MaxRepetitionLevel()
	var onPage OnPage
	if cfg != nil {
		onPage = cfg.OnPage
	}
	pctx := &pageDecodeContext{
		kind:       encoding.KindFromFormat(leaf.Element.Type),
		fixedLen:   int(leaf.Element.TypeLength),
		maxDef:     maxDef,
		maxRep:     maxRep,
		codecs:     codecs,
		chunkCodec: col.Codec,
		onPage:     onPage,
		colIndex:   leaf.Index,
	}

	var dictionary *encoding.Values
	var allValues []interface{}
	var allDef, allRep []int32
	numRead := int64(0)

	off := 0
	for off < len(buf) && numRead < col.NumValues {
		pctx.pageIdx++
		page, n, err := decodeOnePage(buf[off:], pctx)
		if err != nil {
			return nil, err
		}
		off += n

		if page.Header.Type == format.DictionaryPage {
			dictionary = &page.Values
			if cfg != nil && cfg.OnDictionary != nil {
				cfg.OnDictionary(leaf.Index, page.NumValues)
			}
			continue
		}
		if page.Header.Type == format.IndexPage {
			continue
		}

		if page.IsDictIndex {
			if dictionary == nil {
				return nil, newError("readColumnChunk", InvalidFile, fmt.Errorf("column %s: dictionary-encoded page with no preceding dictionary page", leaf.PathString()))
			}
			if err := dereferenceDictionary(page, dictionary); err != nil {
				return nil, err
			}
		}

		converted, err := convertPageValues(leaf, page, cfg)
		if err != nil {
			return nil, err
		}
		allValues = append(allValues, converted...)
		allDef = appendLevels(allDef, page.DefLevels, page.NumValues, maxDef)
		allRep = appendLevels(allRep, page.RepLevels, page.NumValues, 0)
		numRead += int64(page.NumValues)
	}

	nested, err := assembleColumn(leaf, allValues, nonEmptyOrNil(allDef), nonEmptyOrNil(allRep), maxDef)
	if err != nil {
		return nil, err
	}

	start, end := selectStart, selectEnd
	if start > int64(len(nested)) {
		start = int64(len(nested))
	}
	if end > int64(len(nested)) {
		end = int64(len(nested))
	}
	return &assembledColumn{node: leaf, values: nested[start:end]}, nil
}

func appendLevels(dst []int32, src []int32, numValues, defaultLevel int) []int32 {
	if src == nil {
		for i := 0; i < numValues; i++ {
			dst = append(dst, int32(defaultLevel))
		}
		return dst
	}
	return append(dst, src...)
}

func nonEmptyOrNil(s []int32) []int32 {
	if len(s) == 0 {
		return nil
	}
	return s
}

// dereferenceDictionary resolves a dictionary-indexed page's Indices into
// Values by looking each index up in dictionary.
func dereferenceDictionary(page *Page, dictionary *encoding.Values) error {
	page.Values.Kind = dictionary.Kind
	switch dictionary.Kind {
	case encoding.Boolean:
		for _, idx := range page.Indices {
			page.Values.Booleans = append(page.Values.Booleans, dictionary.Booleans[idx])
		}
	case encoding.Int32:
		for _, idx := range page.Indices {
			page.Values.Int32s = append(page.Values.Int32s, dictionary.Int32s[idx])
		}
	case encoding.Int64:
		for _, idx := range page.Indices {
			page.Values.Int64s = append(page.Values.Int64s, dictionary.Int64s[idx])
		}
	case encoding.Int96:
		for _, idx := range page.Indices {
			page.Values.Int96s = append(page.Values.Int96s, dictionary.Int96s[idx])
		}
	case encoding.Float:
		for _, idx := range page.Indices {
			page.Values.Floats = append(page.Values.Floats, dictionary.Floats[idx])
		}
	case encoding.Double:
		for _, idx := range page.Indices {
			page.Values.Doubles = append(page.Values.Doubles, dictionary.Doubles[idx])
		}
	case encoding.ByteArray, encoding.FixedLenByteArray:
		if len(page.Values.Offsets) == 0 {
			page.Values.Offsets = append(page.Values.Offsets, 0)
		}
		for _, idx := range page.Indices {
			b := dictionary.ByteArrayAt(int(idx))
			page.Values.Bytes = append(page.Values.Bytes, b...)
			page.Values.Offsets = append(page.Values.Offsets, int32(len(page.Values.Bytes)))
		}
	default:
		return fmt.Errorf("dereferenceDictionary: unsupported kind %d", dictionary.Kind)
	}
	return nil
}

// convertPageValues applies the logical-type converter to every value of
// page in order, returning one interface{} per decoded (non-null) value;
// nulls are represented as page gaps the assembler fills via def levels, so
// only defined values are converted here.
func convertPageValues(leaf *Node, page *Page, cfg *Config) ([]interface{}, error) {
	n := page.Values.Len()
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		v, err := convertValue(leaf, &page.Values, i, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}


// readOffsetIndex decodes a chunk's OffsetIndex from its dedicated byte
// range, used by the row-group reader to narrow large chunks to only the
// pages overlapping the current selection.
func readOffsetIndex(ctx context.Context, src source.AsyncSource, col *format.ColumnChunk) (*format.OffsetIndex, error) {
	if !col.HasOffsetIndexOffset {
		return nil, nil
	}
	buf, err := src.ReadRange(ctx, col.OffsetIndexOffset, col.OffsetIndexOffset+int64(col.OffsetIndexLength))
	if err != nil {
		return nil, newError("readOffsetIndex", SourceError, err)
	}
	var idx format.OffsetIndex
	if _, err := thrift.DecodeOffsetIndex(buf, &idx); err != nil {
		return nil, newError("readOffsetIndex", InvalidFile, err)
	}
	return &idx, nil
}
