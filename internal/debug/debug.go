// Package debug implements opt-in, low-volume tracing of the read path,
// gated by the PARQUETGODEBUG environment variable (modelled after Go's own
// GODEBUG convention: a comma-separated list of name=value settings).
//
// Recognized settings:
//
//	source=1   trace AsyncSource byte-range fetches and cache hits/misses
//	plan=1     trace query planning (row group / column selection, coalescing)
//	page=1     trace page dispatch (type, encoding, codec, size)
//
// Settings are read from the environment once, on first use; changing
// PARQUETGODEBUG after that has no effect.
package debug

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	once     sync.Once
	settings map[string]string
)

func parse() map[string]string {
	once.Do(func() {
		settings = make(map[string]string)
		for _, kv := range strings.Split(os.Getenv("PARQUETGODEBUG"), ",") {
			kv = strings.TrimSpace(kv)
			if kv == "" {
				continue
			}
			if i := strings.IndexByte(kv, '='); i >= 0 {
				settings[kv[:i]] = kv[i+1:]
			} else {
				settings[kv] = "1"
			}
		}
	})
	return settings
}

func enabled(name string) bool {
	v, ok := parse()[name]
	return ok && v != "" && v != "0"
}

// Source reports whether AsyncSource tracing is enabled.
func Source() bool { return enabled("source") }

// Plan reports whether query-planning tracing is enabled.
func Plan() bool { return enabled("plan") }

// Page reports whether page-dispatch tracing is enabled.
func Page() bool { return enabled("page") }

// Logf writes a trace line to stderr when the named setting is enabled. The
// name is also used as the line's prefix so interleaved traces stay
// distinguishable.
func Logf(name, format string, args ...any) {
	if !enabled(name) {
		return
	}
	fmt.Fprintf(os.Stderr, "parquet-go: %s: %s\n", name, fmt.Sprintf(format, args...))
}
