package filterdsl

// Range is the [Min, Max] interval known for one field over a row group
// (from ColumnMetaData/ColumnIndex statistics), used to decide whether the
// group can be skipped without evaluating any row.
type Range struct {
	Min, Max any
	HasMin   bool
	HasMax   bool
}

// CanSkip reports whether ranges (keyed by field path) prove the filter
// false for every row of the group, so the whole group can be skipped
// without decoding it. Only direct field comparisons under And/Or/Nor are
// considered; a path absent from ranges, or a comparator this function
// does not reason about, is conservatively assumed satisfiable.
func CanSkip(e *Expr, ranges map[string]Range) bool {
	switch e.Kind {
	case KindAnd:
		for _, c := range e.Children {
			if CanSkip(c, ranges) {
				return true
			}
		}
		return false
	case KindOr:
		for _, c := range e.Children {
			if !CanSkip(c, ranges) {
				return false
			}
		}
		return len(e.Children) > 0
	case KindNor:
		// Nor(children...) is false for the group only if every child is
		// *certainly true* for the whole range, which this statistics-only
		// check cannot establish; be conservative.
		return false
	case KindField:
		return fieldCanSkip(e, ranges)
	default:
		return false
	}
}

func fieldCanSkip(e *Expr, ranges map[string]Range) bool {
	r, ok := ranges[e.Path]
	if !ok {
		return false
	}
	switch e.Op {
	case Gt:
		max, ok := toFloat(r.Max)
		t, tok := toFloat(e.Value)
		return r.HasMax && ok && tok && max <= t
	case Gte:
		max, ok := toFloat(r.Max)
		t, tok := toFloat(e.Value)
		return r.HasMax && ok && tok && max < t
	case Lt:
		min, ok := toFloat(r.Min)
		t, tok := toFloat(e.Value)
		return r.HasMin && ok && tok && min >= t
	case Lte:
		min, ok := toFloat(r.Min)
		t, tok := toFloat(e.Value)
		return r.HasMin && ok && tok && min > t
	case Eq:
		min, minOk := toFloat(r.Min)
		max, maxOk := toFloat(r.Max)
		t, tok := toFloat(e.Value)
		if r.HasMin && r.HasMax && minOk && maxOk && tok {
			return t < min || t > max
		}
		return false
	default:
		return false
	}
}
