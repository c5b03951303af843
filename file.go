package parquet

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/internal/thrift"
	"github.com/segmentio/parquet-go/source"
)

// magic is the 4-byte tag bracketing every Parquet file, at offset 0 and at
// the trailing 4 bytes before the footer-length prefix.
var magic = [4]byte{'P', 'A', 'R', '1'}

// footerTrailerSize is the 4-byte metadata length plus the trailing 4-byte
// magic, the fixed-size tail every reader seeks to first.
const footerTrailerSize = 8

// suffixPrefetchSize is the speculative trailing read Open issues before it
// knows the footer's true length: large enough to cover the footer of all
// but the widest-schema files in one round trip (spec.md §4.3 step 1).
const suffixPrefetchSize = 512 * 1024

// File is an opened, metadata-parsed Parquet object ready to be queried.
// It holds no page data; every read re-fetches from src (wrap src in
// source.NewCachedSource to amortize repeated metadata/index reads).
type File struct {
	src      source.AsyncSource
	size     int64
	Metadata *format.FileMetaData
	Schema   *SchemaTree
}

// Open validates the PAR1 envelope, fetches and decodes the Thrift-compact
// footer, and rebuilds the schema tree.
//
// Follows spec.md §4.3's protocol: a single speculative suffix prefetch
// covers the trailing magic, the metadata length, and (for all but
// unusually large footers) the metadata itself in one round trip; only
// when the footer doesn't fit does a second, precisely-sized request
// fetch the missing prefix to splice onto the prefetch.
func Open(ctx context.Context, src source.AsyncSource) (*File, error) {
	size, err := src.Size(ctx)
	if err != nil {
		return nil, newError("Open", SourceError, err)
	}
	if size < int64(len(magic))+footerTrailerSize {
		return nil, newError("Open", InvalidFile, fmt.Errorf("file too small (%d bytes) to contain a Parquet envelope", size))
	}

	prefetchSize := int64(suffixPrefetchSize)
	if prefetchSize > size {
		prefetchSize = size
	}
	prefetch, err := source.ReadSuffix(ctx, src, prefetchSize)
	if err != nil {
		return nil, newError("Open", SourceError, err)
	}
	prefetchStart := size - int64(len(prefetch))

	if !bytes.Equal(prefetch[len(prefetch)-4:], magic[:]) {
		return nil, newError("Open", InvalidFile, fmt.Errorf("missing trailing PAR1 magic"))
	}
	// When the whole file fit in the prefetch, its leading bytes are the
	// file's leading bytes too, so this check is free; a larger file skips
	// it rather than pay a dedicated round trip just to confirm what a
	// successful footer decode below already implies.
	if prefetchStart == 0 && !bytes.Equal(prefetch[:len(magic)], magic[:]) {
		return nil, newError("Open", InvalidFile, fmt.Errorf("missing leading PAR1 magic"))
	}

	lengthOff := len(prefetch) - footerTrailerSize
	footerLen := int64(binary.LittleEndian.Uint32(prefetch[lengthOff : lengthOff+4]))
	footerStart := size - footerTrailerSize - footerLen
	if footerLen < 0 || footerStart < int64(len(magic)) {
		return nil, newError("Open", InvalidFile, fmt.Errorf("footer length %d is inconsistent with file size %d", footerLen, size))
	}

	var buf []byte
	if footerStart >= prefetchStart {
		// The whole metadata was already covered by the prefetch.
		off := footerStart - prefetchStart
		buf = prefetch[off : off+footerLen]
	} else {
		// Splice: fetch exactly the missing prefix and prepend it to the
		// portion of the metadata the prefetch already holds.
		head, err := src.ReadRange(ctx, footerStart, prefetchStart)
		if err != nil {
			return nil, newError("Open", SourceError, err)
		}
		tailLen := footerLen - (prefetchStart - footerStart)
		buf = append(append([]byte(nil), head...), prefetch[:tailLen]...)
	}

	var md format.FileMetaData
	if err := thrift.DecodeFileMetaData(buf, &md); err != nil {
		return nil, newError("Open", InvalidFile, fmt.Errorf("decoding footer: %w", err))
	}

	tree, err := BuildSchemaTree(md.Schema)
	if err != nil {
		return nil, err
	}

	return &File{src: src, size: size, Metadata: &md, Schema: tree}, nil
}

// NumRows returns the file's total row count across every row group.
func (f *File) NumRows() int64 {
	var n int64
	for i := range f.Metadata.RowGroups {
		n += f.Metadata.RowGroups[i].NumRows
	}
	return n
}
