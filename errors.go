package parquet

import (
	"errors"
	"fmt"
)

// Kind classifies the error conditions this module's read path can surface,
// mirroring the small closed set of failure modes a Parquet reader can hit:
// a malformed footer, a truncated stream, an encoding or codec this decoder
// does not implement, or a schema/assembly inconsistency.
type Kind int

const (
	_ Kind = iota
	InvalidFile
	TruncatedInput
	UnsupportedEncoding
	UnsupportedCodec
	UnsupportedLogicalType
	UnsupportedPageType
	DecompressionFailure
	SchemaError
	AssemblyError
	SourceError
	ArgumentError
)

func (k Kind) String() string {
	switch k {
	case InvalidFile:
		return "invalid file"
	case TruncatedInput:
		return "truncated input"
	case UnsupportedEncoding:
		return "unsupported encoding"
	case UnsupportedCodec:
		return "unsupported codec"
	case UnsupportedLogicalType:
		return "unsupported logical type"
	case UnsupportedPageType:
		return "unsupported page type"
	case DecompressionFailure:
		return "decompression failure"
	case SchemaError:
		return "schema error"
	case AssemblyError:
		return "assembly error"
	case SourceError:
		return "source error"
	case ArgumentError:
		return "argument error"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every exported operation in this
// module; callers discriminate failure modes with errors.As and Kind,
// rather than string matching.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parquet: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("parquet: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, SomeKind) style matching against a bare Kind
// value wrapped in a sentinel *Error (see the Err* values below).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Sentinel errors for errors.Is comparisons against a specific Kind without
// needing to construct a full *Error value.
var (
	ErrInvalidFile            = &Error{Kind: InvalidFile}
	ErrTruncatedInput         = &Error{Kind: TruncatedInput}
	ErrUnsupportedEncoding    = &Error{Kind: UnsupportedEncoding}
	ErrUnsupportedCodec       = &Error{Kind: UnsupportedCodec}
	ErrUnsupportedLogicalType = &Error{Kind: UnsupportedLogicalType}
	ErrUnsupportedPageType    = &Error{Kind: UnsupportedPageType}
	ErrDecompressionFailure   = &Error{Kind: DecompressionFailure}
	ErrSchemaError            = &Error{Kind: SchemaError}
	ErrAssemblyError          = &Error{Kind: AssemblyError}
	ErrSourceError            = &Error{Kind: SourceError}
	ErrArgumentError          = &Error{Kind: ArgumentError}
)
