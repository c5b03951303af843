package parquet

import (
	"testing"

	"github.com/segmentio/parquet-go/format"
)

func TestDefaultCodecsCoverUncompressedAndSnappy(t *testing.T) {
	table := defaultCodecs()
	if _, ok := table[format.Uncompressed]; !ok {
		t.Fatal("defaultCodecs missing UNCOMPRESSED")
	}
	if _, ok := table[format.Snappy]; !ok {
		t.Fatal("defaultCodecs missing SNAPPY")
	}
	if _, ok := table[format.Gzip]; ok {
		t.Fatal("GZIP should not be a default codec")
	}
}

func TestCodecTableForMergesCallerOverrides(t *testing.T) {
	table := codecTableFor(NewConfig(Codecs(OptionalCodecs())))
	for _, codec := range []format.CompressionCodec{format.Gzip, format.Brotli, format.Lz4, format.Lz4Raw, format.Zstd} {
		if _, ok := table[codec]; !ok {
			t.Fatalf("codecTableFor missing %s after opting into OptionalCodecs", codec)
		}
	}
}

func TestCodecForFallsBackToDefaultWhenNilConfig(t *testing.T) {
	c, ok := codecFor(nil, format.Uncompressed)
	if !ok || c == nil {
		t.Fatal("codecFor(nil, UNCOMPRESSED) should resolve from the built-in table")
	}
	if _, ok := codecFor(nil, format.Gzip); ok {
		t.Fatal("codecFor(nil, GZIP) should fail: GZIP is opt-in only")
	}
}
