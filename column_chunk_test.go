package parquet

import (
	"encoding/binary"
	"testing"

	"github.com/segmentio/parquet-go/format"
)

func requiredInt32Leaf() *Node {
	root := &Node{Element: &format.SchemaElement{Name: "root", NumChildren: 1}}
	leaf := &Node{
		Element: &format.SchemaElement{Name: "id", HasType: true, Type: format.Int32, RepetitionType: format.Required},
		Parent:  root,
		Path:    []string{"id"},
	}
	root.Children = []*Node{leaf}
	return leaf
}

func buildDataPageV1Int32(values []int32) []byte {
	var valueBytes []byte
	for _, v := range values {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		valueBytes = append(valueBytes, b[:]...)
	}
	size := int32(len(valueBytes))

	dph := append([]byte{fieldHdr(1, 5)}, zz32(int32(len(values)))...)
	dph = append(dph, fieldHdr(1, 5))
	dph = append(dph, zz32(int32(format.Plain))...)
	dph = append(dph, 0x00)

	hdr := append([]byte{fieldHdr(1, 5)}, zz32(int32(format.DataPage))...)
	hdr = append(hdr, fieldHdr(1, 5))
	hdr = append(hdr, zz32(size)...)
	hdr = append(hdr, fieldHdr(1, 5))
	hdr = append(hdr, zz32(size)...)
	hdr = append(hdr, fieldHdr(2, 12)) // field 5: data_page_header (struct)
	hdr = append(hdr, dph...)
	hdr = append(hdr, 0x00)

	return append(hdr, valueBytes...)
}

func TestDecodeColumnChunkSinglePagePlainInt32(t *testing.T) {
	leaf := requiredInt32Leaf()
	buf := buildDataPageV1Int32([]int32{7, -3, 99})

	chunk := ChunkPlan{
		Column: &format.ColumnMetaData{
			Type: format.Int32, Codec: format.Uncompressed, NumValues: 3,
			TotalCompressedSize: int64(len(buf)),
		},
	}

	col, err := decodeColumnChunk(leaf, chunk, buf, 0, 3, nil)
	if err != nil {
		t.Fatalf("decodeColumnChunk: %v", err)
	}
	if len(col.values) != 3 {
		t.Fatalf("got %d rows, want 3", len(col.values))
	}
	want := []int32{7, -3, 99}
	for i, w := range want {
		if col.values[i] != int32(w) {
			t.Fatalf("row %d = %v, want %d", i, col.values[i], w)
		}
	}
}

func TestDecodeColumnChunkSelectSlicesRows(t *testing.T) {
	leaf := requiredInt32Leaf()
	buf := buildDataPageV1Int32([]int32{1, 2, 3, 4, 5})

	chunk := ChunkPlan{
		Column: &format.ColumnMetaData{
			Type: format.Int32, Codec: format.Uncompressed, NumValues: 5,
			TotalCompressedSize: int64(len(buf)),
		},
	}

	col, err := decodeColumnChunk(leaf, chunk, buf, 1, 3, nil)
	if err != nil {
		t.Fatalf("decodeColumnChunk: %v", err)
	}
	want := []int32{2, 3}
	if len(col.values) != len(want) {
		t.Fatalf("got %d rows, want %d", len(col.values), len(want))
	}
	for i, w := range want {
		if col.values[i] != int32(w) {
			t.Fatalf("row %d = %v, want %d", i, col.values[i], w)
		}
	}
}

func TestCheckChunkSizeRejectsOversizedChunk(t *testing.T) {
	leaf := requiredInt32Leaf()
	chunk := ChunkPlan{Column: &format.ColumnMetaData{TotalCompressedSize: maxChunkBytes + 1}}
	if err := checkChunkSize(leaf, chunk); err == nil {
		t.Fatal("expected oversized chunk to be rejected")
	}
}
