package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/segmentio/parquet-go/internal/debug"
)

// HTTPSource is an AsyncSource backed by HTTP Range requests against a
// fixed URL.
type HTTPSource struct {
	url    string
	client *http.Client

	size       int64
	sizeKnown  bool
	rangeKnown bool // server confirmed to honor byte ranges

	// fullBody memoises the whole object body the first time the server
	// proves it ignores Range requests (spec.md §4.1/§9), so repeated
	// ReadRange calls slice an in-memory buffer instead of re-GETting the
	// whole object once per call.
	bodyMu   sync.Mutex
	fullBody []byte
	bodyDone bool
}

// NewHTTPSource constructs an HTTPSource for url, using client (or
// http.DefaultClient if nil).
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Size(ctx context.Context) (int64, error) {
	if s.sizeKnown {
		return s.size, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("source: building HEAD request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK && resp.ContentLength >= 0 {
			s.size, s.sizeKnown = resp.ContentLength, true
			s.rangeKnown = strings.EqualFold(resp.Header.Get("Accept-Ranges"), "bytes")
			return s.size, nil
		}
	}

	// HEAD unsupported or uninformative: probe with a zero-length range GET.
	debug.Logf("source", "HEAD probe failed for %s, falling back to range probe", s.url)
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("source: building probe request: %w", err)
	}
	req.Header.Set("Range", "bytes=0-0")
	resp, err = s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("source: probing size: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPartialContent {
		if size, ok := parseContentRangeSize(resp.Header.Get("Content-Range")); ok {
			s.size, s.sizeKnown, s.rangeKnown = size, true, true
			return s.size, nil
		}
	}

	// Server ignored the range and returned the whole body: cancel it
	// immediately rather than reading it all just to learn the length.
	if resp.StatusCode == http.StatusOK {
		debug.Logf("source", "server for %s does not honor ranges, cancelling full-body fallback", s.url)
		resp.Body.Close()
		if resp.ContentLength >= 0 {
			s.size, s.sizeKnown = resp.ContentLength, true
			return s.size, nil
		}
	}

	return 0, fmt.Errorf("source: could not determine size of %s (status %s)", s.url, resp.Status)
}

func parseContentRangeSize(v string) (int64, bool) {
	// "bytes 0-0/12345"
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(v[i+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *HTTPSource) ReadRange(ctx context.Context, start, end int64) ([]byte, error) {
	if start > end {
		return nil, fmt.Errorf("source: invalid range [%d, %d)", start, end)
	}

	if buf, ok := s.memoisedBody(); ok {
		return sliceBody(buf, start, end)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: building range request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end-1))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		buf, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("source: reading range body: %w", err)
		}
		return buf, nil
	case http.StatusOK:
		// Server ignored the Range header: read the whole object once and
		// memoise it as a per-reader field, since every subsequent
		// ReadRange call will hit this same fallback.
		debug.Logf("source", "server for %s ignored Range on read, memoising full body", s.url)
		buf, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("source: reading fallback body: %w", err)
		}
		s.storeBody(buf)
		return sliceBody(buf, start, end)
	default:
		return nil, fmt.Errorf("source: unexpected status %s for range [%d, %d)", resp.Status, start, end)
	}
}

func (s *HTTPSource) memoisedBody() ([]byte, bool) {
	s.bodyMu.Lock()
	defer s.bodyMu.Unlock()
	return s.fullBody, s.bodyDone
}

func (s *HTTPSource) storeBody(buf []byte) {
	s.bodyMu.Lock()
	defer s.bodyMu.Unlock()
	if !s.bodyDone {
		s.fullBody, s.bodyDone = buf, true
	}
}

func sliceBody(buf []byte, start, end int64) ([]byte, error) {
	if end > int64(len(buf)) {
		return nil, fmt.Errorf("source: fallback body shorter than requested range")
	}
	return buf[start:end], nil
}
