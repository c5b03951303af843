package snappy

import "testing"

// Spot checks from the Snappy block format: a plain literal run, and a
// literal followed by a copy (back-reference) run that repeats "hyp"
// beyond the source bytes already emitted.
func TestDecodeLiteral(t *testing.T) {
	src := []byte{0x05, 0x10, 'h', 'y', 'p', 'e', 'r'}
	got, err := Decode(nil, src)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != "hyper" {
		t.Fatalf("got %q, want %q", got, "hyper")
	}
}

func TestDecodeCopy(t *testing.T) {
	src := []byte{0x15, 0x08, 'h', 'y', 'p', 0x46, 0x03, 0x00}
	got, err := Decode(nil, src)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "hyphyphyphyphyphyphyp"
	if len(got) != 21 {
		t.Fatalf("got %d bytes (%q), want 21", len(got), got)
	}
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
