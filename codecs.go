package parquet

import (
	"github.com/segmentio/parquet-go/compress"
	"github.com/segmentio/parquet-go/compress/brotli"
	"github.com/segmentio/parquet-go/compress/gzip"
	"github.com/segmentio/parquet-go/compress/lz4"
	"github.com/segmentio/parquet-go/compress/snappy"
	"github.com/segmentio/parquet-go/compress/uncompressed"
	"github.com/segmentio/parquet-go/compress/zstd"
	"github.com/segmentio/parquet-go/format"
)

// Only UNCOMPRESSED and SNAPPY ship built in: SNAPPY's decoder is small
// enough to carry natively (compress/snappy), and UNCOMPRESSED needs no
// library at all. GZIP, BROTLI, LZ4(_RAW) and ZSTD are real third-party
// dependencies this module already vendors adapters for
// (compress/{gzip,brotli,lz4,zstd}), but callers opt into them explicitly
// via the Codecs option instead of paying for their init cost unasked.
func defaultCodecs() map[format.CompressionCodec]compress.Codec {
	return map[format.CompressionCodec]compress.Codec{
		format.Uncompressed: uncompressed.Codec,
		format.Snappy:       snappy.Codec,
	}
}

// OptionalCodecs returns the GZIP, BROTLI, LZ4(_RAW) and ZSTD codec
// adapters, keyed the way Codecs expects, for callers that want the full
// compression surface without hand-wiring each adapter package themselves:
//
//	parquet.ReadRows(ctx, src, parquet.Codecs(parquet.OptionalCodecs()))
func OptionalCodecs() map[string]compress.Codec {
	return map[string]compress.Codec{
		format.Gzip.String():   gzip.Codec,
		format.Brotli.String(): brotli.Codec,
		format.Lz4.String():    lz4.FrameCodec,
		format.Lz4Raw.String(): lz4.RawCodec,
		format.Zstd.String():   zstd.Codec,
	}
}

func codecFor(cfg *Config, codec format.CompressionCodec) (compress.Codec, bool) {
	if cfg != nil {
		if c, ok := cfg.Codecs[codec.String()]; ok {
			return c, true
		}
	}
	c, ok := defaultCodecs()[codec]
	return c, ok
}

// allKnownCodecs lists every CompressionCodec value codecFor/codecTableFor
// know how to name, so the merged table can include caller-supplied
// overrides regardless of whether the built-in table already has an entry.
var allKnownCodecs = []format.CompressionCodec{
	format.Uncompressed, format.Snappy, format.Gzip, format.Lzo,
	format.Brotli, format.Lz4, format.Zstd, format.Lz4Raw,
}

// codecTableFor builds the merged codec → Codec map a page decoder pass
// uses, combining the built-in UNCOMPRESSED/SNAPPY pair with any codecs the
// caller supplied via the Codecs option.
func codecTableFor(cfg *Config) map[format.CompressionCodec]compress.Codec {
	table := defaultCodecs()
	for _, codec := range allKnownCodecs {
		if c, ok := codecFor(cfg, codec); ok {
			table[codec] = c
		}
	}
	return table
}
