package parquet

import (
	"testing"

	"github.com/segmentio/parquet-go/format"
)

func threeGroupMetadata() *format.FileMetaData {
	return &format.FileMetaData{
		RowGroups: []format.RowGroup{
			{NumRows: 5},
			{NumRows: 5},
			{NumRows: 5},
		},
	}
}

// TestBuildPlanRowRange covers boundary scenario b: rowStart=2, rowEnd=4
// over 15 rows split across three five-row groups selects only the first
// group, narrowed to its rows [2, 4).
func TestBuildPlanRowRange(t *testing.T) {
	tree, _ := BuildSchemaTree(flatSchema())
	plan, err := buildPlan(threeGroupMetadata(), tree, 2, 4, nil, nil)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if len(plan.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(plan.Groups))
	}
	gp := plan.Groups[0]
	if gp.RowGroupIndex != 0 || gp.SelectStart != 2 || gp.SelectEnd != 4 {
		t.Fatalf("unexpected group plan: %+v", gp)
	}
}

// TestBuildPlanRowRangeClampsToFile covers boundary scenario c: a rowEnd
// past the file's total row count clamps to every row of every group.
func TestBuildPlanRowRangeClampsToFile(t *testing.T) {
	tree, _ := BuildSchemaTree(flatSchema())
	plan, err := buildPlan(threeGroupMetadata(), tree, 0, 100, nil, nil)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if len(plan.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(plan.Groups))
	}
	for i, gp := range plan.Groups {
		if gp.SelectStart != 0 || gp.SelectEnd != 5 {
			t.Fatalf("group %d: unexpected select range [%d, %d)", i, gp.SelectStart, gp.SelectEnd)
		}
	}
}

// TestChunkByteRangeInvariant checks the §3 range invariant: the chunk's
// bytes start at the dictionary page offset when one exists and precedes
// the data page, and always span total_compressed_size bytes.
func TestChunkByteRangeInvariant(t *testing.T) {
	col := &format.ColumnMetaData{
		DataPageOffset:          1000,
		HasDictionaryPageOffset: true,
		DictionaryPageOffset:    900,
		TotalCompressedSize:     500,
	}
	got := chunkByteRange(col)
	want := ByteRange{Start: 900, End: 1400}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	noDict := &format.ColumnMetaData{DataPageOffset: 1000, TotalCompressedSize: 200}
	got = chunkByteRange(noDict)
	want = ByteRange{Start: 1000, End: 1200}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
