package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-go/compress"
	"github.com/segmentio/parquet-go/encoding"
	"github.com/segmentio/parquet-go/encoding/alp"
	"github.com/segmentio/parquet-go/encoding/bytestreamsplit"
	"github.com/segmentio/parquet-go/encoding/delta"
	"github.com/segmentio/parquet-go/encoding/plain"
	"github.com/segmentio/parquet-go/encoding/rle"
	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/internal/debug"
)

// Page is one decoded page's worth of a column chunk: optional
// definition/repetition levels plus the decoded (but not yet
// logical-type-converted or dictionary-dereferenced) values.
type Page struct {
	Header    *format.PageHeader
	DefLevels []int32
	RepLevels []int32
	Values    encoding.Values
	NumValues int
	NumNulls  int
	// Dictionary indices: populated instead of Values when the page is
	// PLAIN_DICTIONARY/RLE_DICTIONARY encoded; the caller dereferences
	// against the chunk's dictionary page.
	Indices     []int32
	IsDictIndex bool
}

type pageDecodeContext struct {
	kind       encoding.Kind
	fixedLen   int
	maxDef     int
	maxRep     int
	codecs     map[format.CompressionCodec]compress.Codec
	chunkCodec format.CompressionCodec
	onPage     OnPage
	colIndex   int
	pageIdx    int
	isV2       bool
}

// decodeOnePage parses one page header plus body from the front of buf,
// returning the decoded Page and the number of bytes of buf consumed.
func decodeOnePage(buf []byte, ctx *pageDecodeContext) (*Page, int, error) {
	hdr, n, err := readPageHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	body := buf[n:]
	if len(body) < int(hdr.CompressedPageSize) {
		return nil, 0, newError("decodeOnePage", TruncatedInput, fmt.Errorf("need %d compressed bytes, have %d", hdr.CompressedPageSize, len(body)))
	}
	compressed := body[:hdr.CompressedPageSize]
	total := n + int(hdr.CompressedPageSize)

	if debug.Page() {
		debug.Logf("page", "column=%d page=%d type=%s size=%d", ctx.colIndex, ctx.pageIdx, hdr.Type, hdr.CompressedPageSize)
	}

	switch hdr.Type {
	case format.DictionaryPage:
		p, err := decodeDictionaryPage(hdr, compressed, ctx)
		if ctx.onPage != nil {
			ctx.onPage(ctx.colIndex, ctx.pageIdx, "DICTIONARY_PAGE", int(hdr.DictionaryPageHeader.NumValues))
		}
		return p, total, err

	case format.DataPage:
		p, err := decodeDataPageV1(hdr, compressed, ctx)
		if ctx.onPage != nil {
			ctx.onPage(ctx.colIndex, ctx.pageIdx, "DATA_PAGE", int(hdr.DataPageHeader.NumValues))
		}
		return p, total, err

	case format.DataPageV2:
		p, err := decodeDataPageV2(hdr, compressed, ctx)
		if ctx.onPage != nil {
			ctx.onPage(ctx.colIndex, ctx.pageIdx, "DATA_PAGE_V2", int(hdr.DataPageHeaderV2.NumValues))
		}
		return p, total, err

	case format.IndexPage:
		debug.Logf("page", "skipping INDEX_PAGE at column=%d page=%d", ctx.colIndex, ctx.pageIdx)
		return &Page{Header: hdr}, total, nil

	default:
		return nil, 0, newError("decodeOnePage", UnsupportedPageType, fmt.Errorf("page type %s", hdr.Type))
	}
}

func getCodec(ctx *pageDecodeContext, codec format.CompressionCodec) (compress.Codec, error) {
	c, ok := ctx.codecs[codec]
	if !ok {
		return nil, newError("getCodec", UnsupportedCodec, fmt.Errorf("codec %s", codec))
	}
	return c, nil
}

func decompressPage(ctx *pageDecodeContext, codec format.CompressionCodec, compressed []byte, uncompressedSize int) ([]byte, error) {
	if codec == format.Uncompressed {
		return compressed, nil
	}
	c, err := getCodec(ctx, codec)
	if err != nil {
		return nil, err
	}
	out, err := c.Decompress(nil, compressed, uncompressedSize)
	if err != nil {
		return nil, newError("decompressPage", DecompressionFailure, err)
	}
	return out, nil
}

func decodeDictionaryPage(hdr *format.PageHeader, compressed []byte, ctx *pageDecodeContext) (*Page, error) {
	dh := hdr.DictionaryPageHeader
	plainBuf, err := decompressPage(ctx, ctx.chunkCodec, compressed, int(hdr.UncompressedPageSize))
	if err != nil {
		return nil, err
	}
	if dh.Encoding != format.Plain && dh.Encoding != format.PlainDictionary {
		return nil, newError("decodeDictionaryPage", UnsupportedEncoding, fmt.Errorf("dictionary encoding %s", dh.Encoding))
	}
	dec := &plain.Decoder{Kind: ctx.kind, FixedSize: ctx.fixedLen}
	var values encoding.Values
	if _, err := dec.Decode(&values, plainBuf, int(dh.NumValues)); err != nil {
		return nil, newError("decodeDictionaryPage", InvalidFile, err)
	}
	return &Page{Header: hdr, Values: values, NumValues: int(dh.NumValues)}, nil
}

func decodeDataPageV1(hdr *format.PageHeader, compressed []byte, ctx *pageDecodeContext) (*Page, error) {
	ctx.isV2 = false
	dh := hdr.DataPageHeader
	numValues := int(dh.NumValues)

	uncompressed, err := decompressPage(ctx, ctx.chunkCodec, compressed, int(hdr.UncompressedPageSize))
	if err != nil {
		return nil, err
	}

	off := 0
	var repLevels, defLevels []int32
	if ctx.maxRep > 0 {
		levels, n, err := decodeV1Levels(uncompressed[off:], ctx.maxRep, numValues)
		if err != nil {
			return nil, newError("decodeDataPageV1", InvalidFile, err)
		}
		repLevels = levels
		off += n
	}
	if ctx.maxDef > 0 {
		levels, n, err := decodeV1Levels(uncompressed[off:], ctx.maxDef, numValues)
		if err != nil {
			return nil, newError("decodeDataPageV1", InvalidFile, err)
		}
		defLevels = levels
		off += n
	}

	defined := numValues
	if defLevels != nil {
		defined = countDefined(defLevels, ctx.maxDef)
	}

	page := &Page{Header: hdr, DefLevels: defLevels, RepLevels: repLevels, NumValues: numValues, NumNulls: numValues - defined}
	return decodeValueStream(page, uncompressed[off:], dh.Encoding, defined, ctx)
}

func decodeDataPageV2(hdr *format.PageHeader, compressed []byte, ctx *pageDecodeContext) (*Page, error) {
	ctx.isV2 = true
	dh := hdr.DataPageHeaderV2
	numValues := int(dh.NumValues)

	repLen := int(dh.RepetitionLevelsByteLength)
	defLen := int(dh.DefinitionLevelsByteLength)
	if repLen+defLen > len(compressed) {
		return nil, newError("decodeDataPageV2", TruncatedInput, fmt.Errorf("level lengths exceed page size"))
	}
	levelBytes := compressed[:repLen+defLen]
	valueRegion := compressed[repLen+defLen:]

	var repLevels, defLevels []int32
	if ctx.maxRep > 0 && repLen > 0 {
		levels, err := decodeV2Levels(levelBytes[:repLen], ctx.maxRep, numValues)
		if err != nil {
			return nil, newError("decodeDataPageV2", InvalidFile, err)
		}
		repLevels = levels
	}
	if ctx.maxDef > 0 && defLen > 0 {
		levels, err := decodeV2Levels(levelBytes[repLen:repLen+defLen], ctx.maxDef, numValues)
		if err != nil {
			return nil, newError("decodeDataPageV2", InvalidFile, err)
		}
		defLevels = levels
	}

	values := valueRegion
	isCompressed := dh.IsCompressed // resolved by internal/thrift to the wire-explicit value, defaulting true only when absent
	if isCompressed {
		uncompressedValueSize := int(hdr.UncompressedPageSize) - repLen - defLen
		out, err := decompressPage(ctx, ctx.chunkCodec, valueRegion, uncompressedValueSize)
		if err != nil {
			return nil, err
		}
		values = out
	}

	defined := numValues
	if defLevels != nil {
		defined = countDefined(defLevels, ctx.maxDef)
	}

	page := &Page{Header: hdr, DefLevels: defLevels, RepLevels: repLevels, NumValues: numValues, NumNulls: numValues - defined}
	return decodeValueStream(page, values, dh.Encoding, defined, ctx)
}

// decodeValueStream dispatches the page's value region to the encoding
// named by enc, filling in page.Values or page.Indices/IsDictIndex.
func decodeValueStream(page *Page, src []byte, enc format.Encoding, numDefined int, ctx *pageDecodeContext) (*Page, error) {
	switch enc {
	case format.Plain:
		dec := &plain.Decoder{Kind: ctx.kind, FixedSize: ctx.fixedLen}
		if _, err := dec.Decode(&page.Values, src, numDefined); err != nil {
			return nil, newError("decodeValueStream", InvalidFile, err)
		}
		return page, nil

	case format.PlainDictionary, format.RLEDictionary:
		indices, err := decodeDictionaryIndices(src, numDefined)
		if err != nil {
			return nil, newError("decodeValueStream", InvalidFile, err)
		}
		page.Indices = indices
		page.IsDictIndex = true
		return page, nil

	case format.RLE:
		// Only valid as a direct value encoding for BOOLEAN; the bit width
		// is implicitly 1 and there is no leading bitWidth byte.
		if ctx.kind != encoding.Boolean {
			return nil, newError("decodeValueStream", UnsupportedEncoding, fmt.Errorf("RLE value encoding on physical kind %d", ctx.kind))
		}
		// DATA_PAGE_V2 carries a redundant 4-byte length prefix ahead of the
		// BOOLEAN RLE stream (spec.md §4.6 step 4); V1 has no such prefix.
		if ctx.isV2 {
			if len(src) < 4 {
				return nil, newError("decodeValueStream", TruncatedInput, fmt.Errorf("V2 BOOLEAN RLE page missing 4-byte length prefix"))
			}
			src = src[4:]
		}
		d := &rle.Decoder{BitWidth: 1}
		ints, _, err := d.DecodeInt32s(make([]int32, 0, numDefined), src, numDefined)
		if err != nil {
			return nil, newError("decodeValueStream", InvalidFile, err)
		}
		bools := make([]bool, len(ints))
		for i, v := range ints {
			bools[i] = v != 0
		}
		page.Values = encoding.Values{Kind: encoding.Boolean, Booleans: bools}
		return page, nil

	case format.ALP:
		if err := decodeALP(page, src, ctx); err != nil {
			return nil, err
		}
		return page, nil

	case format.DeltaBinaryPacked:
		return page, decodeDeltaBinaryPacked(page, src, numDefined, ctx)

	case format.DeltaLengthByteArray:
		b, offs, _, err := delta.LengthByteArray(nil, nil, src, numDefined)
		if err != nil {
			return nil, newError("decodeValueStream", InvalidFile, err)
		}
		page.Values = encoding.Values{Kind: encoding.ByteArray, Bytes: b, Offsets: offs}
		return page, nil

	case format.DeltaByteArray:
		b, offs, _, err := delta.ByteArray(nil, nil, src, numDefined)
		if err != nil {
			return nil, newError("decodeValueStream", InvalidFile, err)
		}
		page.Values = encoding.Values{Kind: encoding.ByteArray, Bytes: b, Offsets: offs}
		return page, nil

	case format.ByteStreamSplit:
		return page, decodeByteStreamSplit(page, src, numDefined, ctx)

	default:
		return nil, newError("decodeValueStream", UnsupportedEncoding, fmt.Errorf("encoding %s", enc))
	}
}

func decodeDictionaryIndices(src []byte, numValues int) ([]int32, error) {
	if len(src) < 1 {
		return nil, fmt.Errorf("missing dictionary index bit width byte")
	}
	bitWidth := int(src[0])
	d := &rle.Decoder{BitWidth: bitWidth}
	indices, _, err := d.DecodeInt32s(make([]int32, 0, numValues), src[1:], numValues)
	return indices, err
}

func decodeDeltaBinaryPacked(page *Page, src []byte, numValues int, ctx *pageDecodeContext) error {
	values, _, err := delta.BinaryPacked(nil, src)
	if err != nil {
		return newError("decodeDeltaBinaryPacked", InvalidFile, err)
	}
	if len(values) < numValues {
		return newError("decodeDeltaBinaryPacked", InvalidFile, fmt.Errorf("expected %d values, decoded %d", numValues, len(values)))
	}
	values = values[:numValues]
	switch ctx.kind {
	case encoding.Int32:
		page.Values.Kind = encoding.Int32
		for _, v := range values {
			page.Values.Int32s = append(page.Values.Int32s, int32(v))
		}
	case encoding.Int64:
		page.Values.Kind = encoding.Int64
		page.Values.Int64s = append(page.Values.Int64s, values...)
	default:
		return newError("decodeDeltaBinaryPacked", UnsupportedEncoding, fmt.Errorf("DELTA_BINARY_PACKED on physical kind %d", ctx.kind))
	}
	return nil
}

func decodeByteStreamSplit(page *Page, src []byte, numValues int, ctx *pageDecodeContext) error {
	switch ctx.kind {
	case encoding.Float:
		floats, err := bytestreamsplit.DecodeFloats(nil, src, numValues)
		if err != nil {
			return newError("decodeByteStreamSplit", InvalidFile, err)
		}
		page.Values = encoding.Values{Kind: encoding.Float, Floats: floats}
	case encoding.Double:
		doubles, err := bytestreamsplit.DecodeDoubles(nil, src, numValues)
		if err != nil {
			return newError("decodeByteStreamSplit", InvalidFile, err)
		}
		page.Values = encoding.Values{Kind: encoding.Double, Doubles: doubles}
	case encoding.FixedLenByteArray:
		raw, err := bytestreamsplit.DecodeFixed(nil, src, numValues, ctx.fixedLen)
		if err != nil {
			return newError("decodeByteStreamSplit", InvalidFile, err)
		}
		offs := make([]int32, numValues+1)
		for i := range offs {
			offs[i] = int32(i * ctx.fixedLen)
		}
		page.Values = encoding.Values{Kind: encoding.FixedLenByteArray, Bytes: raw, Offsets: offs, FixedSize: ctx.fixedLen}
	default:
		return newError("decodeByteStreamSplit", UnsupportedEncoding, fmt.Errorf("BYTE_STREAM_SPLIT on physical kind %d", ctx.kind))
	}
	return nil
}

// decodeALP decodes an ALP-encoded value stream; ALP is only valid for
// FLOAT/DOUBLE columns.
func decodeALP(page *Page, src []byte, ctx *pageDecodeContext) error {
	switch ctx.kind {
	case encoding.Float:
		floats, err := alp.DecodeFloats(nil, src)
		if err != nil {
			return newError("decodeALP", InvalidFile, err)
		}
		page.Values = encoding.Values{Kind: encoding.Float, Floats: floats}
	case encoding.Double:
		doubles, err := alp.DecodeDoubles(nil, src)
		if err != nil {
			return newError("decodeALP", InvalidFile, err)
		}
		page.Values = encoding.Values{Kind: encoding.Double, Doubles: doubles}
	default:
		return newError("decodeALP", UnsupportedEncoding, fmt.Errorf("ALP on physical kind %d", ctx.kind))
	}
	return nil
}
