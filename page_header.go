package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-go/format"
	"github.com/segmentio/parquet-go/internal/thrift"
)

// readPageHeader decodes one PageHeader from the front of buf, returning
// the header and the number of bytes consumed.
func readPageHeader(buf []byte) (*format.PageHeader, int, error) {
	var h format.PageHeader
	n, err := thrift.DecodePageHeader(buf, &h)
	if err != nil {
		return nil, 0, newError("readPageHeader", InvalidFile, fmt.Errorf("decoding page header: %w", err))
	}
	return &h, n, nil
}
