package parquet

import (
	"context"
	"testing"

	"github.com/segmentio/parquet-go/filterdsl"
	"github.com/segmentio/parquet-go/format"
)

// buildIntColumnFile assembles a one-group, one-column (required INT32 "id")
// File directly from its parts, bypassing Open/thrift decoding entirely:
// reader.go's ReadRows/ReadObjects consume a *File and a *Config, so the
// footer need not round-trip through bytes to exercise them.
func buildIntColumnFile(t *testing.T, values []int32) (*File, *fakeByteSource) {
	t.Helper()
	leaf := requiredInt32Leaf()
	root := leaf.Parent
	tree := &SchemaTree{Root: root, Leaves: []*Node{leaf}}
	leaf.Index = 0

	page := buildDataPageV1Int32(values)
	const offset = 1000
	src := &fakeByteSource{buf: make([]byte, offset+len(page))}
	copy(src.buf[offset:], page)

	meta := &format.FileMetaData{
		Version: 1,
		Schema:  nil, // unused: tests drive the tree directly, not BuildSchemaTree
		NumRows: int64(len(values)),
		RowGroups: []format.RowGroup{
			{
				NumRows: int64(len(values)),
				Columns: []format.ColumnChunk{
					{
						MetaData: &format.ColumnMetaData{
							Type:                format.Int32,
							Codec:               format.Uncompressed,
							PathInSchema:        []string{"id"},
							NumValues:           int64(len(values)),
							DataPageOffset:      offset,
							TotalCompressedSize: int64(len(page)),
						},
					},
				},
			},
		},
	}

	f := &File{src: src, size: int64(len(src.buf)), Metadata: meta, Schema: tree}
	return f, src
}

func TestFileReadRowsArrayFormat(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{10, 20, 30})

	rows, err := f.ReadRows(context.Background(), NewConfig())
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, want := range []int32{10, 20, 30} {
		rec, ok := rows[i].([]interface{})
		if !ok || len(rec) != 1 {
			t.Fatalf("row %d = %#v, want a 1-field array row", i, rows[i])
		}
		if rec[0] != want {
			t.Fatalf("row %d field 0 = %v, want %d", i, rec[0], want)
		}
	}
}

func TestFileReadRowsRowRangeClamped(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{10, 20, 30, 40, 50})

	cfg := NewConfig(RowRange(1, 3))
	rows, err := f.ReadRows(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	want := []int32{20, 30}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		rec := rows[i].([]interface{})
		if rec[0] != w {
			t.Fatalf("row %d = %v, want %d", i, rec[0], w)
		}
	}
}

func TestFileReadRowsEmptyRangeErrors(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{1, 2, 3})
	cfg := NewConfig(RowRange(2, 1))
	if _, err := f.ReadRows(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an inverted row range")
	}
}

func TestFileReadRowsUnknownColumnErrors(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{1})
	cfg := NewConfig(Columns("nope"))
	if _, err := f.ReadRows(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an unknown column selection")
	}
}

func TestReadObjectsProducesNamedMaps(t *testing.T) {
	// ReadObjects itself opens src via Open, which wants a real decodable
	// footer; buildIntColumnFile's fixture skips that to keep the plumbing
	// focused on ReadRows/resolveLeaves/buildRows, so exercise the
	// RowFormatObject path ReadObjects delegates to directly on f instead.
	f, _ := buildIntColumnFile(t, []int32{7, 8})

	rows, err := f.ReadRows(context.Background(), &Config{RowFormat: RowFormatObject})
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	rec, ok := rows[0].(map[string]interface{})
	if !ok {
		t.Fatalf("row 0 = %#v, want a map", rows[0])
	}
	if rec["id"] != int32(7) {
		t.Fatalf("row 0[\"id\"] = %v, want 7", rec["id"])
	}
}

func TestFileReadRowsWithFilter(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{1, 2, 3, 4})

	cfg := NewConfig(Filter(filterdsl.Field("id", filterdsl.Gt, int32(2))))
	rows, err := f.ReadRows(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	want := []int32{3, 4}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		rec := rows[i].([]interface{})
		if rec[0] != w {
			t.Fatalf("row %d = %v, want %d", i, rec[0], w)
		}
	}
}

func TestResolveLeavesEmptySelectionMeansEveryLeaf(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{1})
	leaves, err := f.resolveLeaves(nil)
	if err != nil {
		t.Fatalf("resolveLeaves: %v", err)
	}
	if leaves != nil {
		t.Fatalf("resolveLeaves(nil) = %v, want nil (every leaf)", leaves)
	}
}

func TestResolveLeavesByTopLevelName(t *testing.T) {
	f, _ := buildIntColumnFile(t, []int32{1})
	leaves, err := f.resolveLeaves([]string{"id"})
	if err != nil {
		t.Fatalf("resolveLeaves: %v", err)
	}
	if len(leaves) != 1 || leaves[0].PathString() != "id" {
		t.Fatalf("resolveLeaves([\"id\"]) = %+v", leaves)
	}
}

func TestTopLevelSegment(t *testing.T) {
	cases := map[string]string{"a.b.c": "a", "solo": "solo", "": ""}
	for in, want := range cases {
		if got := topLevelSegment(in); got != want {
			t.Fatalf("topLevelSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadBloomFilterNilWhenAbsent(t *testing.T) {
	col := &format.ColumnMetaData{}
	f, err := ReadBloomFilter(context.Background(), &fakeByteSource{}, col)
	if err != nil {
		t.Fatalf("ReadBloomFilter: %v", err)
	}
	if f != nil {
		t.Fatalf("ReadBloomFilter = %v, want nil for a column with no bloom filter", f)
	}
}
