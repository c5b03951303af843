package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource is an AsyncSource backed by an *os.File.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens path and wraps it as a FileSource.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("source: stating %s: %w", path, err)
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

// NewFileSource wraps an already-open *os.File.
func NewFileSource(f *os.File) (*FileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("source: stating file: %w", err)
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

func (s *FileSource) Size(ctx context.Context) (int64, error) {
	return s.size, nil
}

func (s *FileSource) ReadRange(ctx context.Context, start, end int64) (_ []byte, err error) {
	if start > end {
		return nil, fmt.Errorf("source: invalid range [%d, %d)", start, end)
	}
	if end > s.size {
		end = s.size
	}
	buf := make([]byte, end-start)
	_, err = s.f.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("source: reading [%d, %d): %w", start, end, err)
	}
	return buf, nil
}

// Close closes the underlying file.
func (s *FileSource) Close() error { return s.f.Close() }
