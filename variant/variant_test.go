package variant

import (
	"reflect"
	"testing"
)

// metadata dictionary {0:"a", 1:"b"}, version 1, unsorted, 1-byte offsets.
var twoKeyMetadata = []byte{
	1,       // header: version=1, sorted=0, offsetSize-1=0
	2,       // dictionary size
	0, 1, 2, // offsets into the trailing string data
	'a', 'b',
}

func TestDecodeMetadata(t *testing.T) {
	md, err := DecodeMetadata(twoKeyMetadata)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(md.dict, want) {
		t.Fatalf("dict = %v, want %v", md.dict, want)
	}
}

func TestDecodeObjectValue(t *testing.T) {
	// {"a": 5, "b": "hi"}: object header (small, idSize=1, offSize=1),
	// 2 elements, field ids [0,1], offsets [0,2,5], then an int8 primitive
	// (5) and a 2-byte short string ("hi").
	value := []byte{
		2,           // basicObject, small header
		2,           // element count
		0, 1,        // field ids: a, b
		0, 2, 5,     // value offsets
		12, 5,       // int8 primitive: header, value
		9, 'h', 'i', // short string length 2: header, bytes
	}

	got, err := Decode(twoKeyMetadata, value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{"a": int64(5), "b": "hi"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeArrayValue(t *testing.T) {
	// [null, true] as a small array with 1-byte offsets: null's primitive
	// header is (0<<2)|0=0, true's is (1<<2)|0=4.
	value := []byte{
		3,       // basicArray, small header, offSize-1=0
		2,       // element count
		0, 1, 2, // offsets
		0, // null primitive
		4, // true primitive
	}

	got, err := Decode(twoKeyMetadata, value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []any{nil, true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeShortString(t *testing.T) {
	// basicShortStr with length 5: header=(5<<2)|1=21.
	value := append([]byte{21}, []byte("hyper")...)
	got, err := Decode(twoKeyMetadata, value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hyper" {
		t.Fatalf("got %#v, want %q", got, "hyper")
	}
}

func TestDecodeMetadataRejectsUnsupportedVersion(t *testing.T) {
	if _, err := DecodeMetadata([]byte{0x02}); err == nil {
		t.Fatal("expected unsupported version error, got nil")
	}
}
