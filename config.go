package parquet

import (
	"github.com/segmentio/parquet-go/compress"
	"github.com/segmentio/parquet-go/filterdsl"
)

// RowFormat selects the shape rows are assembled into.
type RowFormat int

const (
	// RowFormatArray assembles each row as a positional []any: one entry
	// per name in Columns, in that order (duplicates included), each
	// holding the top-level column the name falls under; with no Columns,
	// one entry per top-level column in schema order.
	RowFormatArray RowFormat = iota
	// RowFormatObject assembles each row as a map[string]any keyed by
	// top-level column name, reconstructing nested structs/lists/maps.
	RowFormatObject
)

// OnRowGroup, OnPage and OnDictionary are the observer hooks a caller can
// register to watch the read path without altering it; each is called
// synchronously from the goroutine driving the read.
type OnRowGroup func(rowGroupIndex int, numRows int64)
type OnPage func(columnIndex int, pageIndex int, pageType string, numValues int)
type OnDictionary func(columnIndex int, numValues int)

// defaultGroupReadThreshold is the default value of Config.GroupReadThreshold:
// spec.md §4.9 step 1's "configurable threshold (e.g. 32 MiB)".
const defaultGroupReadThreshold = 32 * 1024 * 1024

// Config collects the options controlling how a File is read.
type Config struct {
	Columns            []string
	RowStart           int64
	RowEnd             int64
	HasRowRange        bool
	RowFormat          RowFormat
	UTF8Strict         bool
	Codecs             map[string]compress.Codec
	Filter             *filterdsl.Expr
	OnRowGroup         OnRowGroup
	OnPage             OnPage
	OnDictionary       OnDictionary
	GroupReadThreshold int64
}

// Option configures a Config. NewConfig with no options gives the default
// (all columns, all rows, array row format, lenient UTF-8, built-in codec
// table, 32 MiB GroupReadThreshold); a zero Config differs from it only in
// GroupReadThreshold 0, which disables row-group coalescing.
type Option func(*Config)

// Columns restricts which columns are read, by dotted leaf path.
func Columns(paths ...string) Option {
	return func(c *Config) { c.Columns = append([]string(nil), paths...) }
}

// RowRange restricts the rows read to the half-open interval [start, end).
func RowRange(start, end int64) Option {
	return func(c *Config) {
		c.RowStart, c.RowEnd, c.HasRowRange = start, end, true
	}
}

// Rows sets the row assembly format.
func Rows(format RowFormat) Option {
	return func(c *Config) { c.RowFormat = format }
}

// StrictUTF8 controls whether STRING/ENUM values (logical or legacy
// converted type) failing UTF-8 validation are rejected (true) or passed
// through as-is (false, default). Unannotated BYTE_ARRAY values are not
// validated.
func StrictUTF8(strict bool) Option {
	return func(c *Config) { c.UTF8Strict = strict }
}

// Codecs overrides or extends the default compression codec table, keyed
// by the format.CompressionCodec name (e.g. "ZSTD").
func Codecs(codecs map[string]compress.Codec) Option {
	return func(c *Config) {
		if c.Codecs == nil {
			c.Codecs = make(map[string]compress.Codec, len(codecs))
		}
		for k, v := range codecs {
			c.Codecs[k] = v
		}
	}
}

// Filter restricts which rows/row-groups are produced; a row group whose
// column-chunk statistics provably cannot satisfy the filter is skipped
// entirely (see plan.go), and remaining rows are evaluated individually.
func Filter(expr *filterdsl.Expr) Option {
	return func(c *Config) { c.Filter = expr }
}

// WithOnRowGroup registers a row-group observer hook.
func WithOnRowGroup(fn OnRowGroup) Option {
	return func(c *Config) { c.OnRowGroup = fn }
}

// WithOnPage registers a page-dispatch observer hook.
func WithOnPage(fn OnPage) Option {
	return func(c *Config) { c.OnPage = fn }
}

// WithOnDictionary registers a dictionary-page observer hook.
func WithOnDictionary(fn OnDictionary) Option {
	return func(c *Config) { c.OnDictionary = fn }
}

// GroupReadThreshold sets the byte-span ceiling under which readRowGroup
// coalesces an entire row group's column chunks into a single ReadRange
// call, rather than one call per chunk (spec.md §4.9 step 1). n <= 0
// disables coalescing entirely.
func GroupReadThreshold(n int64) Option {
	return func(c *Config) { c.GroupReadThreshold = n }
}

func NewConfig(opts ...Option) *Config {
	c := &Config{RowFormat: RowFormatArray, GroupReadThreshold: defaultGroupReadThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// groupReadThreshold returns cfg's coalescing threshold, defaulting when cfg
// is nil (readRowGroup is sometimes exercised without a Config in tests).
func groupReadThreshold(cfg *Config) int64 {
	if cfg == nil {
		return defaultGroupReadThreshold
	}
	return cfg.GroupReadThreshold
}
