package parquet

import (
	"context"

	"github.com/segmentio/parquet-go/source"
)

// readRowGroup reads every selected column of one planned row group and
// transposes the results into one assembled column per top-level schema
// node (STRUCT/LIST/MAP groups already folded in), ready for row.go to zip
// into rows.
//
// Per spec.md §4.9 step 1, chunk byte ranges are resolved up front; if their
// union fits under cfg's GroupReadThreshold, the whole row group is fetched
// with a single ReadRange and every chunk decodes out of that shared
// buffer. Otherwise each chunk falls back to its own ReadRange call.
func readRowGroup(ctx context.Context, src source.AsyncSource, tree *SchemaTree, gp GroupPlan, cfg *Config) (map[*Node]*assembledColumn, error) {
	leaves := make(map[*Node]*assembledColumn, len(gp.Chunks))

	type resolvedChunk struct {
		chunk       ChunkPlan
		leaf        *Node
		byteRange   ByteRange
		selectStart int64
		selectEnd   int64
	}
	resolved := make([]resolvedChunk, 0, len(gp.Chunks))

	var groupStart, groupEnd int64
	haveRange := false
	for _, chunk := range gp.Chunks {
		leaf := tree.Leaves[chunk.LeafIndex]

		byteRange, rowOffset, err := resolveChunkRange(ctx, src, chunk, gp)
		if err != nil {
			return nil, err
		}

		selectStart := gp.SelectStart - rowOffset
		selectEnd := gp.SelectEnd - rowOffset
		if selectStart < 0 {
			selectStart = 0
		}

		resolved = append(resolved, resolvedChunk{chunk, leaf, byteRange, selectStart, selectEnd})

		if !haveRange || byteRange.Start < groupStart {
			groupStart = byteRange.Start
		}
		if !haveRange || byteRange.End > groupEnd {
			groupEnd = byteRange.End
		}
		haveRange = true
	}

	var groupBuf []byte
	threshold := groupReadThreshold(cfg)
	if haveRange && threshold > 0 && groupEnd-groupStart <= threshold {
		buf, err := src.ReadRange(ctx, groupStart, groupEnd)
		if err != nil {
			return nil, newError("readRowGroup", SourceError, err)
		}
		groupBuf = buf
	}

	for _, rc := range resolved {
		var col *assembledColumn
		var err error
		if groupBuf != nil {
			off := rc.byteRange.Start - groupStart
			length := rc.byteRange.End - rc.byteRange.Start
			col, err = decodeColumnChunk(rc.leaf, rc.chunk, groupBuf[off:off+length], rc.selectStart, rc.selectEnd, cfg)
		} else {
			col, err = readColumnChunk(ctx, src, rc.leaf, rc.chunk, rc.byteRange, rc.selectStart, rc.selectEnd, cfg)
		}
		if err != nil {
			return nil, err
		}

		leaves[rc.leaf] = col
	}

	if cfg != nil && cfg.OnRowGroup != nil {
		cfg.OnRowGroup(gp.RowGroupIndex, gp.GroupRows)
	}

	return leaves, nil
}

// resolveChunkRange computes the byte extent to fetch for one chunk (per
// §4.9's read path), and the row offset (relative to the row group's first
// row) of the first row covered by that extent.
//
// When the chunk's selection is partial and it carries a usable offset
// index, only the pages overlapping [SelectStart, SelectEnd) (plus any
// dictionary page, which always precedes the data pages) are fetched.
// Otherwise the whole chunk is fetched and rowOffset is 0.
func resolveChunkRange(ctx context.Context, src source.AsyncSource, chunk ChunkPlan, gp GroupPlan) (ByteRange, int64, error) {
	if !chunk.UseOffsetIndex {
		return chunk.FullRange, 0, nil
	}

	idx, err := readOffsetIndex(ctx, src, chunk.ColumnChunk)
	if err != nil {
		return ByteRange{}, 0, err
	}
	if idx == nil || len(idx.PageLocations) == 0 {
		return chunk.FullRange, 0, nil
	}

	firstPage, lastPage := -1, -1
	for i, loc := range idx.PageLocations {
		pageStart := loc.FirstRowIndex
		pageEnd := gp.GroupRows
		if i+1 < len(idx.PageLocations) {
			pageEnd = idx.PageLocations[i+1].FirstRowIndex
		}
		if pageStart < gp.SelectEnd && pageEnd > gp.SelectStart {
			if firstPage == -1 {
				firstPage = i
			}
			lastPage = i
		}
	}
	if firstPage == -1 {
		// No page overlaps the selection (shouldn't happen given the
		// group-level overlap check); fall back to the full chunk.
		return chunk.FullRange, 0, nil
	}

	start := idx.PageLocations[firstPage].Offset
	if chunk.Column.HasDictionaryPageOffset && chunk.Column.DictionaryPageOffset < start {
		start = chunk.Column.DictionaryPageOffset
	}
	last := idx.PageLocations[lastPage]
	end := last.Offset + int64(last.CompressedPageSize)

	return ByteRange{Start: start, End: end}, idx.PageLocations[firstPage].FirstRowIndex, nil
}

// readPlan executes an entire QueryPlan, returning the leaves assembled
// per group in row-group order; row.go concatenates and zips them into
// rows.
func readPlan(ctx context.Context, src source.AsyncSource, tree *SchemaTree, plan *QueryPlan, cfg *Config) ([]map[*Node]*assembledColumn, error) {
	out := make([]map[*Node]*assembledColumn, len(plan.Groups))
	for i, gp := range plan.Groups {
		leaves, err := readRowGroup(ctx, src, tree, gp, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = leaves
	}
	return out, nil
}
