package parquet

import (
	"github.com/segmentio/parquet-go/encoding"
	"github.com/segmentio/parquet-go/encoding/plain"
	"github.com/segmentio/parquet-go/filterdsl"
	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/internal/debug"
)

// ByteRange is a half-open [Start, End) byte extent within the file.
type ByteRange struct {
	Start int64
	End   int64
}

// ChunkPlan is one column chunk's read plan within a group.
type ChunkPlan struct {
	ColumnChunk    *format.ColumnChunk
	Column         *format.ColumnMetaData
	LeafIndex      int
	FullRange      ByteRange // the whole chunk's byte extent (§3 range invariant)
	UseOffsetIndex bool      // selection is partial and the chunk carries a usable offset index
}

// GroupPlan is the read plan for one included row group.
type GroupPlan struct {
	RowGroupIndex int
	RowGroup      *format.RowGroup
	GroupStart    int64 // row index of the group's first row, file-wide
	GroupRows     int64
	SelectStart   int64 // row offset within the group
	SelectEnd     int64
	Chunks        []ChunkPlan
}

// QueryPlan is the full row-group/column-chunk plan for one read, computed
// once and then driven by the row-group reader.
type QueryPlan struct {
	Metadata *format.FileMetaData
	Columns  []*Node // selected leaves, in request order; empty when every leaf is read
	Groups   []GroupPlan
}

// chunkByteRange implements the range invariant of §3: the chunk's bytes
// start at min(data_page_offset, dictionary_page_offset) when the latter
// exists and is smaller, and extend for total_compressed_size bytes.
func chunkByteRange(col *format.ColumnMetaData) ByteRange {
	start := col.DataPageOffset
	if col.HasDictionaryPageOffset && col.DictionaryPageOffset < start {
		start = col.DictionaryPageOffset
	}
	return ByteRange{Start: start, End: start + col.TotalCompressedSize}
}

// buildPlan computes the QueryPlan for the [rowStart, rowEnd) row range and
// the given leaf column selection (nil/empty means every column), pruning
// row groups whose statistics provably fail filter when filter != nil.
func buildPlan(md *format.FileMetaData, tree *SchemaTree, rowStart, rowEnd int64, selected []*Node, filter *filterdsl.Expr) (*QueryPlan, error) {
	plan := &QueryPlan{Metadata: md, Columns: selected}

	if len(selected) == 0 {
		selected = tree.Leaves
	}

	groupStart := int64(0)
	for gi := range md.RowGroups {
		rg := &md.RowGroups[gi]
		groupRows := rg.NumRows
		groupEnd := groupStart + groupRows

		overlaps := groupStart < rowEnd && rowEnd > rowStart && groupEnd > rowStart
		if rowEnd <= rowStart {
			overlaps = false
		}
		if !overlaps {
			groupStart = groupEnd
			continue
		}

		if filter != nil && canSkipRowGroup(tree, rg, filter) {
			if debug.Plan() {
				debug.Logf("plan", "row group %d skipped: statistics rule out filter", gi)
			}
			groupStart = groupEnd
			continue
		}

		selStart := int64(0)
		if rowStart > groupStart {
			selStart = rowStart - groupStart
		}
		selEnd := groupRows
		if rowEnd < groupEnd {
			selEnd = rowEnd - groupStart
		}

		gp := GroupPlan{
			RowGroupIndex: gi,
			RowGroup:      rg,
			GroupStart:    groupStart,
			GroupRows:     groupRows,
			SelectStart:   selStart,
			SelectEnd:     selEnd,
		}

		partial := selStart > 0 || selEnd < groupRows

		for _, leaf := range selected {
			col := findColumnChunk(rg, leaf)
			if col == nil {
				continue
			}
			cp := ChunkPlan{
				ColumnChunk:    col,
				Column:         col.MetaData,
				LeafIndex:      leaf.Index,
				FullRange:      chunkByteRange(col.MetaData),
				UseOffsetIndex: partial && col.HasOffsetIndexOffset,
			}
			gp.Chunks = append(gp.Chunks, cp)
		}

		plan.Groups = append(plan.Groups, gp)
		groupStart = groupEnd
	}

	return plan, nil
}

func findColumnChunk(rg *format.RowGroup, leaf *Node) *format.ColumnChunk {
	path := leaf.Path
	for i := range rg.Columns {
		col := &rg.Columns[i]
		if pathEqual(col.MetaData.PathInSchema, path) {
			return col
		}
	}
	return nil
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// canSkipRowGroup tests the filter's row-group-prunable clauses against the
// column chunk statistics available for this group, per §4.11.
func canSkipRowGroup(tree *SchemaTree, rg *format.RowGroup, filter *filterdsl.Expr) bool {
	ranges := make(map[string]filterdsl.Range)
	for i := range rg.Columns {
		col := &rg.Columns[i]
		stats := col.MetaData.Statistics
		if stats == nil {
			continue
		}
		leaf, ok := tree.FindColumn(joinPath(col.MetaData.PathInSchema))
		if !ok {
			continue
		}
		min, max := stats.MinValue, stats.MaxValue
		if min == nil {
			min = stats.Min
		}
		if max == nil {
			max = stats.Max
		}
		if min == nil && max == nil {
			continue
		}
		r := filterdsl.Range{}
		if min != nil {
			r.Min, r.HasMin = decodeStatBound(leaf, min), true
		}
		if max != nil {
			r.Max, r.HasMax = decodeStatBound(leaf, max), true
		}
		ranges[leaf.PathString()] = r
	}
	return filterdsl.CanSkip(filter, ranges)
}

func joinPath(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

// decodeStatBound decodes a Statistics min/max byte string using the same
// physical-type rules as page values (PLAIN encoding of a single value).
func decodeStatBound(leaf *Node, b []byte) interface{} {
	if b == nil {
		return nil
	}
	var values encoding.Values
	dec := &plain.Decoder{Kind: encoding.KindFromFormat(leaf.Element.Type), FixedSize: int(leaf.Element.TypeLength)}
	if _, err := dec.Decode(&values, b, 1); err != nil || values.Len() == 0 {
		return nil
	}
	v, err := convertValue(leaf, &values, 0, nil)
	if err != nil {
		return rawValue(&values, 0)
	}
	return v
}
