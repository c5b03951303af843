// Package filterdsl implements a typed filter AST evaluated against
// assembled rows, replacing a MongoDB-style object filter with a closed
// set of Go types: And/Or/Nor combinators over leaf Field comparisons.
package filterdsl

import (
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Op is one of the per-field comparison operators a leaf Expr may use.
type Op int

const (
	Eq Op = iota
	Ne
	Gt
	Gte
	Lt
	Lte
	In
	NotIn
	Not
)

// Expr is the filter AST. Exactly one of the combinator slices or the leaf
// fields is populated, as indicated by Kind.
type Expr struct {
	Kind ExprKind

	// And/Or/Nor
	Children []*Expr

	// Field comparison
	Path   string // dot-notation path, e.g. "address.city"
	Op     Op
	Value  any   // Eq/Ne/Gt/Gte/Lt/Lte/Not
	Values []any // In/NotIn

	// Strict controls whether type mismatches between the row's value and
	// Value/Values are treated as unequal (true) or coerced (false).
	Strict bool
}

type ExprKind int

const (
	KindAnd ExprKind = iota
	KindOr
	KindNor
	KindField
)

func And(children ...*Expr) *Expr { return &Expr{Kind: KindAnd, Children: children} }
func Or(children ...*Expr) *Expr  { return &Expr{Kind: KindOr, Children: children} }
func Nor(children ...*Expr) *Expr { return &Expr{Kind: KindNor, Children: children} }

// Field builds a leaf comparison against the value found at path.
func Field(path string, op Op, value any) *Expr {
	return &Expr{Kind: KindField, Path: path, Op: op, Value: value}
}

// FieldIn builds an $in/$nin-style leaf comparison.
func FieldIn(path string, op Op, values ...any) *Expr {
	return &Expr{Kind: KindField, Path: path, Op: op, Values: values}
}

// Eval evaluates the filter against an assembled row (a map[string]any for
// rowFormat=object rows; array rows must be converted to a named map by
// the caller first, since paths are name-based).
func (e *Expr) Eval(row map[string]any) bool {
	switch e.Kind {
	case KindAnd:
		for _, c := range e.Children {
			if !c.Eval(row) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range e.Children {
			if c.Eval(row) {
				return true
			}
		}
		return false
	case KindNor:
		for _, c := range e.Children {
			if c.Eval(row) {
				return false
			}
		}
		return true
	case KindField:
		return e.evalField(row)
	default:
		return false
	}
}

func (e *Expr) evalField(row map[string]any) bool {
	v, ok := resolvePath(row, e.Path)
	switch e.Op {
	case Eq:
		return ok && deepEqual(v, e.Value, e.Strict)
	case Ne:
		return !ok || !deepEqual(v, e.Value, e.Strict)
	case Not:
		return !(ok && deepEqual(v, e.Value, e.Strict))
	case Gt, Gte, Lt, Lte:
		if !ok {
			return false
		}
		return compareOrdered(v, e.Value, e.Op)
	case In:
		if !ok {
			return false
		}
		for _, cand := range e.Values {
			if deepEqual(v, cand, e.Strict) {
				return true
			}
		}
		return false
	case NotIn:
		if !ok {
			return true
		}
		for _, cand := range e.Values {
			if deepEqual(v, cand, e.Strict) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func resolvePath(row map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = row
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// deepEqual compares two row values field-by-field/element-by-element
// (arrays, maps, scalars), using google/go-cmp so nested []any/map[string]any
// trees compare by value rather than identity. When strict is false,
// numeric values of different Go types (e.g. int64 vs float64) compare
// equal if numerically equal.
func deepEqual(a, b any, strict bool) bool {
	if !strict {
		if af, aok := toFloat(a); aok {
			if bf, bok := toFloat(b); bok {
				return af == bf
			}
		}
	}
	return cmp.Equal(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func compareOrdered(a, b any, op Op) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return compareFloats(af, bf, op)
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return compareStrings(as, bs, op)
	}
	return false
}

func compareFloats(a, b float64, op Op) bool {
	switch op {
	case Gt:
		return a > b
	case Gte:
		return a >= b
	case Lt:
		return a < b
	case Lte:
		return a <= b
	default:
		return false
	}
}

func compareStrings(a, b string, op Op) bool {
	switch op {
	case Gt:
		return a > b
	case Gte:
		return a >= b
	case Lt:
		return a < b
	case Lte:
		return a <= b
	default:
		return false
	}
}

// String renders a human-readable form, useful for debug logging.
func (e *Expr) String() string {
	switch e.Kind {
	case KindAnd:
		return "and(...)"
	case KindOr:
		return "or(...)"
	case KindNor:
		return "nor(...)"
	case KindField:
		if len(e.Values) > 0 {
			return e.Path + " " + opName(e.Op) + " [" + strconv.Itoa(len(e.Values)) + " values]"
		}
		return e.Path + " " + opName(e.Op)
	default:
		return "<invalid>"
	}
}

func opName(op Op) string {
	switch op {
	case Eq:
		return "$eq"
	case Ne:
		return "$ne"
	case Gt:
		return "$gt"
	case Gte:
		return "$gte"
	case Lt:
		return "$lt"
	case Lte:
		return "$lte"
	case In:
		return "$in"
	case NotIn:
		return "$nin"
	case Not:
		return "$not"
	default:
		return "?"
	}
}
