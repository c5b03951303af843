package parquet

import (
	"testing"

	"github.com/segmentio/parquet-go/format"
)

func fieldHdr(delta byte, wireType byte) byte { return delta<<4 | wireType }

func zz32(v int32) []byte {
	n := uint64(int64(v)<<1) ^ uint64(int64(v)>>63)
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

func TestReadPageHeaderDictionaryPage(t *testing.T) {
	// DictionaryPageHeader{num_values=4, encoding=PLAIN, is_sorted=true}
	dph := append([]byte{fieldHdr(1, byte(5))}, zz32(4)...)         // field1 I32
	dph = append(dph, fieldHdr(1, byte(5)))                         // field2 I32 (encoding)
	dph = append(dph, zz32(int32(format.Plain))...)
	dph = append(dph, fieldHdr(1, byte(1))) // field3 bool True wire type folds value
	dph = append(dph, 0x00)

	buf := append([]byte{fieldHdr(1, byte(5))}, zz32(int32(format.DictionaryPage))...)
	buf = append(buf, fieldHdr(6, byte(12))) // jump straight to field 7 (dictionary_page_header), struct
	buf = append(buf, dph...)
	buf = append(buf, 0x00)

	hdr, n, err := readPageHeader(buf)
	if err != nil {
		t.Fatalf("readPageHeader: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d, want %d", n, len(buf))
	}
	if hdr.Type != format.DictionaryPage {
		t.Fatalf("Type = %v, want DICTIONARY_PAGE", hdr.Type)
	}
	if hdr.DictionaryPageHeader == nil || hdr.DictionaryPageHeader.NumValues != 4 {
		t.Fatalf("DictionaryPageHeader = %+v", hdr.DictionaryPageHeader)
	}
	if !hdr.DictionaryPageHeader.IsSorted {
		t.Fatal("expected IsSorted = true")
	}
}

func TestReadPageHeaderTruncatedErrors(t *testing.T) {
	if _, _, err := readPageHeader([]byte{0x15}); err == nil {
		t.Fatal("expected error decoding truncated page header")
	}
}
