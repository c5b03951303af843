package parquet

import (
	"context"
	"encoding/binary"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeByteSource struct {
	buf       []byte
	rangeCall int32
}

func (s *fakeByteSource) Size(ctx context.Context) (int64, error) { return int64(len(s.buf)), nil }

func (s *fakeByteSource) ReadRange(ctx context.Context, start, end int64) ([]byte, error) {
	atomic.AddInt32(&s.rangeCall, 1)
	return s.buf[start:end], nil
}

// buildFileMetaDataBuf hand-encodes a minimal Thrift-compact FileMetaData:
// one required INT32 leaf "id", zero row groups, and a single filler
// key/value pair used to pad the footer past a given size in the splice
// test below.
func buildFileMetaDataBuf(filler string) []byte {
	root := append([]byte{fieldHdr(5, 5)}, zz32(1)...) // num_children=1
	root = append(root, 0x00)

	var leaf []byte
	leaf = append(leaf, fieldHdr(1, 5))
	leaf = append(leaf, zz32(1)...) // type=INT32 (Type enum value 1)
	leaf = append(leaf, fieldHdr(2, 5))
	leaf = append(leaf, zz32(0)...) // repetition_type=REQUIRED
	leaf = append(leaf, fieldHdr(1, 8))
	leaf = append(leaf, byte(len("id")))
	leaf = append(leaf, "id"...)
	leaf = append(leaf, 0x00)

	var buf []byte
	buf = append(buf, fieldHdr(1, 5))
	buf = append(buf, zz32(1)...) // version=1

	buf = append(buf, fieldHdr(1, 9))       // field 2: schema, list
	buf = append(buf, byte(2)<<4|byte(12))  // count=2, elemType=struct
	buf = append(buf, root...)
	buf = append(buf, leaf...)

	buf = append(buf, fieldHdr(1, 6)) // field 3: num_rows, i64
	buf = append(buf, zz32(0)...)

	buf = append(buf, fieldHdr(1, 9))     // field 4: row_groups, list
	buf = append(buf, byte(0)<<4|byte(12)) // count=0

	if filler != "" {
		buf = append(buf, fieldHdr(1, 9))      // field 5: key_value_metadata, list
		buf = append(buf, byte(1)<<4|byte(12)) // count=1

		buf = append(buf, fieldHdr(1, 8)) // KeyValue.key
		buf = append(buf, byte(len("pad")))
		buf = append(buf, "pad"...)
		buf = append(buf, fieldHdr(1, 8)) // KeyValue.value
		buf = append(buf, varintLen(len(filler))...)
		buf = append(buf, filler...)
		buf = append(buf, 0x00)
	}

	buf = append(buf, 0x00) // FileMetaData STOP
	return buf
}

func varintLen(n int) []byte {
	u := uint64(n)
	var out []byte
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

func buildParquetFile(metaBuf []byte) []byte {
	var buf []byte
	buf = append(buf, magic[:]...)
	buf = append(buf, metaBuf...)
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(metaBuf)))
	buf = append(buf, lenBytes[:]...)
	buf = append(buf, magic[:]...)
	return buf
}

func TestOpenSmallFileFitsInSinglePrefetch(t *testing.T) {
	meta := buildFileMetaDataBuf("")
	src := &fakeByteSource{buf: buildParquetFile(meta)}

	f, err := Open(context.Background(), src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Metadata.Version != 1 {
		t.Fatalf("Version = %d, want 1", f.Metadata.Version)
	}
	if len(f.Schema.Leaves) != 1 || f.Schema.Leaves[0].PathString() != "id" {
		t.Fatalf("Schema.Leaves = %+v", f.Schema.Leaves)
	}
	if src.rangeCall != 1 {
		t.Fatalf("small file should resolve from the single suffix prefetch alone, got %d ReadRange calls, want 1", src.rangeCall)
	}
}

func TestOpenLargeFooterSplicesAMissingPrefix(t *testing.T) {
	filler := strings.Repeat("x", suffixPrefetchSize) // pushes the footer well past the 512 KiB prefetch window
	meta := buildFileMetaDataBuf(filler)
	src := &fakeByteSource{buf: buildParquetFile(meta)}

	if int64(len(src.buf)) <= suffixPrefetchSize {
		t.Fatalf("test fixture must exceed the prefetch window, got %d bytes", len(src.buf))
	}

	f, err := Open(context.Background(), src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Metadata.Version != 1 {
		t.Fatalf("Version = %d, want 1", f.Metadata.Version)
	}
	if len(f.Schema.Leaves) != 1 {
		t.Fatalf("Schema.Leaves = %+v", f.Schema.Leaves)
	}
	if src.rangeCall != 2 {
		t.Fatalf("expected the suffix prefetch plus exactly one splice ReadRange call, got %d ReadRange calls", src.rangeCall)
	}
}

func TestOpenRejectsMissingTrailingMagic(t *testing.T) {
	buf := buildParquetFile(buildFileMetaDataBuf(""))
	buf[len(buf)-1] = 'X'
	src := &fakeByteSource{buf: buf}
	if _, err := Open(context.Background(), src); err == nil {
		t.Fatal("expected error for corrupted trailing magic")
	}
}

func TestOpenRejectsFileTooSmall(t *testing.T) {
	src := &fakeByteSource{buf: []byte{'P', 'A', 'R'}}
	if _, err := Open(context.Background(), src); err == nil {
		t.Fatal("expected error for undersized file")
	}
}

func TestNumRows(t *testing.T) {
	src := &fakeByteSource{buf: buildParquetFile(buildFileMetaDataBuf(""))}
	f, err := Open(context.Background(), src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.NumRows() != 0 {
		t.Fatalf("NumRows = %d, want 0", f.NumRows())
	}
}
