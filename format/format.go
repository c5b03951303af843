// Package format declares the data structures mirroring the Thrift
// definitions of the Apache Parquet file footer and page headers.
//
// These types are normally produced by running the Apache Thrift compiler
// against parquet.thrift; here they are hand-written because this module
// decodes the Thrift compact protocol itself (see internal/thrift) rather
// than depending on a generated or third-party Thrift runtime.
package format

// Type is the physical (on-disk) type of a leaf schema element.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType describes whether a schema element is required,
// optional or repeated.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// ConvertedType is the legacy (parquet 1.x) logical type annotation.
type ConvertedType int32

const (
	UTF8 ConvertedType = iota
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32Converted
	Int64Converted
	Json
	Bson
	Interval
)

// Encoding identifies how the values of a page are laid out physically.
type Encoding int32

const (
	Plain Encoding = iota
	_                    // GROUP_VAR_INT, deprecated and unused
	PlainDictionary
	RLE
	BitPacked // deprecated
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
	// ALP (Adaptive Lossless floating-Point) has no assigned id in the
	// upstream parquet.thrift; we number it past the real enum so it
	// never collides with a file-supplied encoding.
	ALP
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	case ALP:
		return "ALP"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the compression algorithm used for a column
// chunk's pages.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	Lzo
	Brotli
	Lz4
	Zstd
	Lz4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Lzo:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType distinguishes the kinds of pages that may appear in a column
// chunk.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN"
	}
}

// BoundaryOrder describes whether the min/max values recorded in a column
// index are sorted.
type BoundaryOrder int32

const (
	Unordered BoundaryOrder = iota
	Ascending
	Descending
)

// TimeUnit is the closed set of units a TIME/TIMESTAMP logical type may use.
type TimeUnit int32

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

// LogicalType is a closed tagged union mirroring the Thrift LogicalType
// union. Exactly one non-zero-value field (as indicated by Tag) is
// meaningful; this is the "sum type" the spec's design notes ask for in
// place of a family of tagged strings.
type LogicalType struct {
	Tag LogicalTypeTag

	// DECIMAL
	DecimalScale     int32
	DecimalPrecision int32

	// TIME / TIMESTAMP
	Unit     TimeUnit
	IsAdjustedToUTC bool

	// INTEGER
	BitWidth int8
	IsSigned bool
}

type LogicalTypeTag int8

const (
	LogicalNone LogicalTypeTag = iota
	LogicalString
	LogicalMap
	LogicalList
	LogicalEnum
	LogicalDecimal
	LogicalDate
	LogicalTime
	LogicalTimestamp
	LogicalInteger
	LogicalNull
	LogicalJSON
	LogicalBSON
	LogicalUUID
	LogicalFloat16
	LogicalVariant
	LogicalGeometry
)

// Statistics holds the optional per-column-chunk (or per-page, in V1 data
// page headers) value statistics.
type Statistics struct {
	Min           []byte
	Max           []byte
	NullCount     int64
	HasNullCount  bool
	DistinctCount int64
	HasDistinctCount bool
	MinValue     []byte
	MaxValue     []byte
	IsMaxExact   bool
	IsMinExact   bool
}

// SchemaElement is one node of the pre-order flattened schema tree.
type SchemaElement struct {
	Type           Type
	HasType        bool
	TypeLength     int32
	HasTypeLength  bool
	RepetitionType FieldRepetitionType
	HasRepetitionType bool
	Name           string
	NumChildren    int32
	ConvertedType  ConvertedType
	HasConvertedType bool
	Scale          int32
	Precision      int32
	FieldID        int32
	HasFieldID     bool
	LogicalType    *LogicalType
}

// KeyValue is one entry of the file-level key/value metadata map.
type KeyValue struct {
	Key   string
	Value string
}

// SortingColumn records that a row group's rows are sorted on a column.
type SortingColumn struct {
	ColumnIdx  int32
	Descending bool
	NullsFirst bool
}

// PageLocation is one entry of an OffsetIndex.
type PageLocation struct {
	Offset             int64
	CompressedPageSize int32
	FirstRowIndex      int64
}

// OffsetIndex locates every page of a column chunk by byte offset.
type OffsetIndex struct {
	PageLocations []PageLocation
}

// ColumnIndex carries per-page min/max statistics enabling page skipping.
type ColumnIndex struct {
	NullPages     []bool
	MinValues     [][]byte
	MaxValues     [][]byte
	BoundaryOrder BoundaryOrder
	NullCounts    []int64
	HasNullCounts bool
}

// SizeStatistics is the optional per-chunk histogram of page/value byte
// sizes; present in newer writer versions.
type SizeStatistics struct {
	UnencodedByteArrayDataBytes int64
	RepetitionLevelHistogram    []int64
	DefinitionLevelHistogram    []int64
}

// ColumnMetaData describes one column chunk.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	HasDictionaryPageOffset bool
	DictionaryPageOffset  int64
	HasIndexPageOffset    bool
	IndexPageOffset       int64
	Statistics            *Statistics
	EncodingStats         []PageEncodingStats
	HasBloomFilterOffset  bool
	BloomFilterOffset     int64
	HasBloomFilterLength  bool
	BloomFilterLength     int32
	SizeStatistics        *SizeStatistics
}

// PageEncodingStats records how many pages of each (page type, encoding)
// combination a column chunk contains.
type PageEncodingStats struct {
	PageType PageType
	Encoding Encoding
	Count    int32
}

// ColumnChunk is one column's worth of data within a row group.
type ColumnChunk struct {
	FilePath          string
	HasFilePath       bool
	FileOffset        int64
	MetaData          *ColumnMetaData
	HasOffsetIndexOffset bool
	OffsetIndexOffset int64
	OffsetIndexLength int32
	HasColumnIndexOffset bool
	ColumnIndexOffset int64
	ColumnIndexLength int32
}

// RowGroup is a horizontal partition of the file's rows.
type RowGroup struct {
	Columns        []ColumnChunk
	TotalByteSize  int64
	NumRows        int64
	SortingColumns []SortingColumn
	FileOffset     int64
	HasFileOffset  bool
	Ordinal        int16
	HasOrdinal     bool
}

// FileMetaData is the decoded Thrift footer of a parquet file.
type FileMetaData struct {
	Version          int32
	Schema           []SchemaElement
	NumRows          int64
	RowGroups        []RowGroup
	KeyValueMetadata []KeyValue
	CreatedBy        string
	HasCreatedBy     bool
}

// PageHeader is the decoded Thrift header that precedes every page.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	HasCRC               bool
	CRC                  int32
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}

// DataPageHeader describes a DATA_PAGE (V1) page.
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
	Statistics              *Statistics
}

// DictionaryPageHeader describes a DICTIONARY_PAGE page.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  bool
}

// DataPageHeaderV2 describes a DATA_PAGE_V2 page.
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
	HasIsCompressed            bool
	Statistics                 *Statistics
}

// BloomFilterHeader is the decoded header preceding a Bloom filter bitset.
type BloomFilterHeader struct {
	NumBytes            int32
	SplitBlockAlgorithm bool
	XXHash              bool
	Uncompressed        bool
}
