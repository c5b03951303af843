package parquet

import (
	"context"
	"fmt"

	"github.com/segmentio/parquet-go/bloom"
	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/source"
)

// ReadMetadata opens src and returns its decoded footer metadata and
// rebuilt schema tree, without touching any row-group data.
func ReadMetadata(ctx context.Context, src source.AsyncSource) (*format.FileMetaData, *SchemaTree, error) {
	f, err := Open(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	return f.Metadata, f.Schema, nil
}

// CachedSource wraps src with canonical-range caching/request coalescing,
// so repeated footer, offset-index and overlapping page reads against the
// same file reuse bytes already fetched.
func CachedSource(src source.AsyncSource) source.AsyncSource {
	return source.NewCachedSource(src)
}

// ReadRows opens src, plans and reads the selected row range/columns, and
// returns every row in the shape cfg.RowFormat specifies. Register
// Config's OnRowGroup/OnPage/OnDictionary hooks via the corresponding
// With* options to observe the read as it progresses.
func ReadRows(ctx context.Context, src source.AsyncSource, opts ...Option) ([]Row, error) {
	cfg := NewConfig(opts...)

	f, err := Open(ctx, src)
	if err != nil {
		return nil, err
	}
	return f.ReadRows(ctx, cfg)
}

// ReadObjects is ReadRows with RowFormatObject forced, a convenience for
// callers that want map[string]any records regardless of any RowFormat
// passed in opts.
func ReadObjects(ctx context.Context, src source.AsyncSource, opts ...Option) ([]map[string]interface{}, error) {
	cfg := NewConfig(opts...)
	cfg.RowFormat = RowFormatObject

	f, err := Open(ctx, src)
	if err != nil {
		return nil, err
	}
	rows, err := f.ReadRows(ctx, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		m, ok := r.(map[string]interface{})
		if !ok {
			return nil, newError("ReadObjects", AssemblyError, fmt.Errorf("row %d is not an object", i))
		}
		out[i] = m
	}
	return out, nil
}

// ReadRows plans and executes a read of f according to cfg, returning rows
// in cfg.RowFormat order. A non-nil cfg.Filter is evaluated per row against
// every top-level column by name, after row-group-level pruning (plan.go)
// has already dropped groups statistics provably exclude.
func (f *File) ReadRows(ctx context.Context, cfg *Config) ([]Row, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	rowStart, rowEnd := int64(0), f.NumRows()
	if cfg.HasRowRange {
		rowStart, rowEnd = cfg.RowStart, cfg.RowEnd
	}
	if rowEnd < rowStart {
		return nil, newError("ReadRows", ArgumentError, fmt.Errorf("row range [%d, %d) is empty or inverted", rowStart, rowEnd))
	}

	selected, err := f.resolveLeaves(cfg.Columns)
	if err != nil {
		return nil, err
	}

	plan, err := buildPlan(f.Metadata, f.Schema, rowStart, rowEnd, selected, cfg.Filter)
	if err != nil {
		return nil, err
	}

	groupColumns, err := readPlan(ctx, f.src, f.Schema, plan, cfg)
	if err != nil {
		return nil, err
	}

	names := topLevelSelection(f.Schema, cfg.Columns)
	rows, err := buildRows(f.Schema, groupColumns, names, cfg.RowFormat)
	if err != nil {
		return nil, err
	}

	if cfg.Filter != nil {
		rows, err = filterRows(f.Schema, groupColumns, rows, cfg)
		if err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// resolveLeaves maps a caller's Columns selection (dotted leaf paths, or
// top-level group/column names standing in for every leaf beneath them) to
// the concrete leaves the page pipeline must decode. An empty selection
// means every leaf.
func (f *File) resolveLeaves(columns []string) ([]*Node, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	seen := make(map[*Node]bool)
	var out []*Node
	for _, name := range columns {
		if leaf, ok := f.Schema.FindColumn(name); ok {
			if !seen[leaf] {
				seen[leaf] = true
				out = append(out, leaf)
			}
			continue
		}
		matched := false
		for _, leaf := range f.Schema.Leaves {
			if leaf.TopLevelName() == name {
				matched = true
				if !seen[leaf] {
					seen[leaf] = true
					out = append(out, leaf)
				}
			}
		}
		if !matched {
			return nil, newError("ReadRows", ArgumentError, fmt.Errorf("unknown column %q", name))
		}
	}
	return out, nil
}

// topLevelSelection derives the ordered, duplicate-preserving list of
// top-level field names a row's output should contain: the caller's
// Columns reduced to their top-level segment when non-empty, or nil
// otherwise (buildRows then uses every top-level column in schema order).
func topLevelSelection(tree *SchemaTree, columns []string) []string {
	if len(columns) == 0 {
		return nil
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = topLevelSegment(c)
	}
	return names
}

func topLevelSegment(path string) string {
	for i, r := range path {
		if r == '.' {
			return path[:i]
		}
	}
	return path
}

// filterRows re-derives a named (object-shaped) view of each row solely to
// evaluate cfg.Filter, then keeps only the rows whose array/object output
// (already built in the caller's requested RowFormat) survives.
func filterRows(tree *SchemaTree, groupColumns []map[*Node]*assembledColumn, rows []Row, cfg *Config) ([]Row, error) {
	objects, err := buildRows(tree, groupColumns, nil, RowFormatObject)
	if err != nil {
		return nil, err
	}
	if len(objects) != len(rows) {
		return nil, newError("filterRows", AssemblyError, fmt.Errorf("row count mismatch: %d vs %d", len(objects), len(rows)))
	}
	var out []Row
	for i, obj := range objects {
		rec, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		if cfg.Filter.Eval(rec) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

// ReadBloomFilter decodes the Bloom filter attached to one column chunk, or
// nil if the chunk carries none.
func ReadBloomFilter(ctx context.Context, src source.AsyncSource, col *format.ColumnMetaData) (*bloom.Filter, error) {
	if !col.HasBloomFilterOffset {
		return nil, nil
	}
	size := int64(col.BloomFilterLength)
	if size <= 0 {
		size = 256 * 1024 // headers are small; over-fetch a bounded prefix when length is unknown
	}
	buf, err := src.ReadRange(ctx, col.BloomFilterOffset, col.BloomFilterOffset+size)
	if err != nil {
		return nil, newError("ReadBloomFilter", SourceError, err)
	}
	f, err := bloom.Decode(buf)
	if err != nil {
		return nil, newError("ReadBloomFilter", InvalidFile, err)
	}
	return f, nil
}
