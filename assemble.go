package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-go/format"
)

// container is a mutable box around the values collected for one opened
// list level; boxes are stored as elements of their parent's Values slice
// and unboxed into plain []interface{} once assembly for a leaf finishes.
type container struct {
	Values []interface{}
}

// assembleColumn runs the repetition/definition-level stack algorithm over
// one leaf column's flat (already logical-converted) values, producing one
// nested value per top-level record. The nesting depth equals the number
// of non-REQUIRED ancestors in leaf.RepetitionPath(); REQUIRED ancestors
// advance depth without introducing a list level.
func assembleColumn(leaf *Node, values []interface{}, defLevels, repLevels []int32, maxDef int) ([]interface{}, error) {
	path := leaf.RepetitionPath() // depth d (1-indexed) == path[d-1]
	n := len(values)

	def := func(i int) int {
		if defLevels == nil {
			return maxDef
		}
		return int(defLevels[i])
	}
	rep := func(i int) int {
		if repLevels == nil {
			return 0
		}
		return int(repLevels[i])
	}

	top := &container{}
	stack := []*container{top}
	currentDepth := 0
	currentDefLevel := 0
	currentRepLevel := 0

	for i := 0; i < n; i++ {
		d := def(i)
		r := rep(i)

		// 1. Pop container-stack entries.
		for currentDepth > 0 && (r < currentRepLevel || path[currentDepth-1] == format.Optional) {
			popped := path[currentDepth-1]
			if popped == format.Repeated {
				currentRepLevel--
			}
			if popped != format.Required {
				currentDefLevel--
				stack = stack[:len(stack)-1]
			}
			currentDepth--
		}

		// 2. Push new lists.
		for currentDepth < len(path)-1 && currentDefLevel < d {
			node := path[currentDepth]
			currentDepth++
			if node != format.Required {
				child := &container{}
				top := stack[len(stack)-1]
				top.Values = append(top.Values, child)
				stack = append(stack, child)
				currentDefLevel++
			}
			if node == format.Repeated {
				currentRepLevel++
			}
		}

		// 3. Emit.
		cur := stack[len(stack)-1]
		switch {
		case d == maxDef:
			cur.Values = append(cur.Values, values[i])
		case currentDepth == len(path)-1:
			cur.Values = append(cur.Values, nil)
		default:
			cur.Values = append(cur.Values, []interface{}{})
		}
	}

	return unbox(top), nil
}

func unbox(c *container) []interface{} {
	out := make([]interface{}, len(c.Values))
	for i, v := range c.Values {
		if child, ok := v.(*container); ok {
			out[i] = unbox(child)
		} else {
			out[i] = v
		}
	}
	return out
}

// assembledColumn bundles one leaf's per-record nested values with the
// schema node they belong to, the unit assembleGroup transposes.
type assembledColumn struct {
	node   *Node
	values []interface{} // len == number of records in the row group
}

// assembleGroup transposes a set of already-assembled leaf/child columns
// sharing a common group ancestor into one nested-value-per-record column
// for that group, recursing bottom-up from leaves through LIST/MAP/STRUCT
// groups until it reaches the schema root.
func assembleGroup(node *Node, leaves map[*Node]*assembledColumn, numRecords int) (*assembledColumn, error) {
	if node.IsLeaf() {
		col, ok := leaves[node]
		if !ok {
			return nil, newError("assembleGroup", AssemblyError, fmt.Errorf("no assembled column for leaf %s", node.PathString()))
		}
		return col, nil
	}

	// A LIST or MAP group holds its element (or key/value) columns under one
	// intermediate repeated group; those columns are assembled directly so
	// the intermediate level does not become a struct of its own.
	kids := node.Children
	if len(kids) == 1 && !kids[0].IsLeaf() &&
		((node.isListLike() && len(kids[0].Children) == 1) || (node.isMapLike() && len(kids[0].Children) == 2)) {
		kids = kids[0].Children
	}
	children := make([]*assembledColumn, len(kids))
	for i, c := range kids {
		assembled, err := assembleGroup(c, leaves, numRecords)
		if err != nil {
			return nil, err
		}
		children[i] = assembled
	}

	switch {
	case node.isVariantLike():
		return assembleVariantGroup(node, children, numRecords)
	case node.isListLike():
		return assembleListGroup(node, children, numRecords)
	case node.isMapLike():
		return assembleMapGroup(node, children, numRecords)
	default:
		return assembleStructGroup(node, children, numRecords)
	}
}

// assembleStructGroup transposes children's per-record values column-wise
// into a map[string]interface{} record per row, dropping the empty-list
// wrapping a non-REQUIRED group level introduces and using nil for an
// entirely absent group.
func assembleStructGroup(node *Node, children []*assembledColumn, numRecords int) (*assembledColumn, error) {
	out := make([]interface{}, numRecords)
	for r := 0; r < numRecords; r++ {
		rec := make(map[string]interface{}, len(children))
		present := false
		for _, c := range children {
			v := flattenAtDepth(c.values[r], node)
			rec[c.node.Name()] = v
			if v != nil {
				present = true
			}
		}
		if present || node.Element.RepetitionType == format.Required {
			out[r] = rec
		} else {
			out[r] = nil
		}
	}
	return &assembledColumn{node: node, values: out}, nil
}

// assembleListGroup unwraps one layer of singleton wrapping the group's
// own (non-REQUIRED) level introduced, yielding a []interface{} per record
// (or nil if the list itself is absent).
func assembleListGroup(node *Node, children []*assembledColumn, numRecords int) (*assembledColumn, error) {
	if len(children) != 1 {
		return nil, newError("assembleListGroup", AssemblyError, fmt.Errorf("LIST group %s: expected exactly one element child, got %d", node.PathString(), len(children)))
	}
	inner := children[0]
	out := make([]interface{}, numRecords)
	for r := 0; r < numRecords; r++ {
		out[r] = flattenAtDepth(inner.values[r], node)
	}
	return &assembledColumn{node: node, values: out}, nil
}

// assembleMapGroup zips the key and value element columns pairwise into
// objects, treating a missing entry as an absent record and an undefined
// value as null.
func assembleMapGroup(node *Node, children []*assembledColumn, numRecords int) (*assembledColumn, error) {
	if len(children) != 2 {
		return nil, newError("assembleMapGroup", AssemblyError, fmt.Errorf("MAP group %s: expected key/value children, got %d", node.PathString(), len(children)))
	}
	keys, vals := children[0], children[1]
	out := make([]interface{}, numRecords)
	for r := 0; r < numRecords; r++ {
		kList, _ := flattenAtDepth(keys.values[r], node).([]interface{})
		vList, _ := flattenAtDepth(vals.values[r], node).([]interface{})
		if kList == nil {
			out[r] = nil
			continue
		}
		m := make(map[string]interface{}, len(kList))
		for i, k := range kList {
			key := fmt.Sprint(k)
			if i < len(vList) {
				m[key] = vList[i]
			} else {
				m[key] = nil
			}
		}
		out[r] = m
	}
	return &assembledColumn{node: node, values: out}, nil
}

// assembleVariantGroup decodes the (metadata, value) pair carried by a
// VARIANT-shredded group into the tagged Variant value tree.
func assembleVariantGroup(node *Node, children []*assembledColumn, numRecords int) (*assembledColumn, error) {
	var metaCol, valCol *assembledColumn
	for _, c := range children {
		switch c.node.Name() {
		case "metadata":
			metaCol = c
		case "value":
			valCol = c
		}
	}
	if metaCol == nil || valCol == nil {
		return nil, newError("assembleVariantGroup", SchemaError, fmt.Errorf("VARIANT group %s: missing metadata/value child", node.PathString()))
	}
	out := make([]interface{}, numRecords)
	for r := 0; r < numRecords; r++ {
		md, _ := metaCol.values[r].([]byte)
		val, _ := valCol.values[r].([]byte)
		if md == nil && val == nil {
			out[r] = nil
			continue
		}
		v, err := combineVariantGroup(md, val)
		if err != nil {
			return nil, err
		}
		out[r] = v
	}
	return &assembledColumn{node: node, values: out}, nil
}

// flattenAtDepth unwraps one layer of []interface{} singleton wrapping
// introduced by the enclosing (non-REQUIRED) group's own repetition level,
// per the stack algorithm's "push new lists" step. A REQUIRED group
// introduces no wrapping and v passes through unchanged.
func flattenAtDepth(v interface{}, node *Node) interface{} {
	if node.Element.RepetitionType == format.Required {
		return v
	}
	list, ok := v.([]interface{})
	if !ok {
		return v
	}
	if len(list) == 0 {
		if node.Element.RepetitionType == format.Repeated {
			return []interface{}{}
		}
		return nil
	}
	if node.Element.RepetitionType == format.Repeated {
		return list
	}
	return list[0]
}
