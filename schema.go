package parquet

import (
	"fmt"
	"strings"

	"github.com/segmentio/parquet-go/format"
)

// Node is one node of the schema tree rebuilt from the flat, pre-order
// FileMetaData.Schema slice. The root node (index 0) has no element name
// of its own significance beyond grouping the file's top-level columns.
type Node struct {
	Element  *format.SchemaElement
	Children []*Node
	Parent   *Node
	Path     []string // ancestor names, root excluded, this node included
	Index    int      // index into SchemaTree.Leaves, valid only for leaves
}

// IsLeaf reports whether n is a physical column (as opposed to a group).
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Name is the node's own (unqualified) name.
func (n *Node) Name() string {
	if len(n.Path) == 0 {
		return ""
	}
	return n.Path[len(n.Path)-1]
}

// PathString renders the node's dotted path.
func (n *Node) PathString() string { return strings.Join(n.Path, ".") }

// isListLike reports whether n is a LIST-annotated group (the Parquet
// "3-level list" convention: a group with one REPEATED child group named
// "list", itself holding one "element" child) or the legacy 2-level form
// (a single REPEATED child directly).
func (n *Node) isListLike() bool {
	if n.Element.HasConvertedType && n.Element.ConvertedType == format.List {
		return true
	}
	if n.Element.LogicalType != nil && n.Element.LogicalType.Tag == format.LogicalList {
		return true
	}
	return false
}

// isVariantLike reports whether n is a VARIANT-annotated group: the
// shredded representation of a Variant value as a group with "metadata"
// and "value" BYTE_ARRAY children.
func (n *Node) isVariantLike() bool {
	return n.Element.LogicalType != nil && n.Element.LogicalType.Tag == format.LogicalVariant
}

// isMapLike reports whether n is a MAP-annotated group.
func (n *Node) isMapLike() bool {
	if n.Element.HasConvertedType && (n.Element.ConvertedType == format.Map || n.Element.ConvertedType == format.MapKeyValue) {
		return true
	}
	if n.Element.LogicalType != nil && n.Element.LogicalType.Tag == format.LogicalMap {
		return true
	}
	return false
}

// SchemaTree is the rebuilt tree over a FileMetaData's flat schema array,
// plus the per-leaf level/path bookkeeping the page pipeline and assembler
// need.
type SchemaTree struct {
	Root   *Node
	Leaves []*Node
}

// BuildSchemaTree reconstructs the tree from a FileMetaData's pre-order,
// num_children-delimited schema array.
func BuildSchemaTree(schema []format.SchemaElement) (*SchemaTree, error) {
	if len(schema) == 0 {
		return nil, newError("BuildSchemaTree", SchemaError, fmt.Errorf("empty schema"))
	}
	pos := 0
	root, err := buildNode(schema, &pos, nil, nil)
	if err != nil {
		return nil, newError("BuildSchemaTree", SchemaError, err)
	}
	if pos != len(schema) {
		return nil, newError("BuildSchemaTree", SchemaError, fmt.Errorf("%d trailing schema elements not consumed", len(schema)-pos))
	}
	tree := &SchemaTree{Root: root}
	collectLeaves(root, tree)
	return tree, nil
}

func buildNode(schema []format.SchemaElement, pos *int, parent *Node, parentPath []string) (*Node, error) {
	if *pos >= len(schema) {
		return nil, fmt.Errorf("schema array exhausted while reading child")
	}
	elem := &schema[*pos]
	*pos++

	path := parentPath
	if parent != nil {
		path = append(append([]string(nil), parentPath...), elem.Name)
	}

	n := &Node{Element: elem, Parent: parent, Path: path}
	numChildren := int(elem.NumChildren)
	if numChildren == 0 {
		if elem.HasType {
			return n, nil // leaf
		}
		// A group with zero children but no physical type is a malformed
		// (but tolerated) empty struct.
		return n, nil
	}
	n.Children = make([]*Node, 0, numChildren)
	for i := 0; i < numChildren; i++ {
		child, err := buildNode(schema, pos, n, path)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func collectLeaves(n *Node, tree *SchemaTree) {
	if n.IsLeaf() && n.Parent != nil {
		n.Index = len(tree.Leaves)
		tree.Leaves = append(tree.Leaves, n)
		return
	}
	for _, c := range n.Children {
		collectLeaves(c, tree)
	}
}

// MaxDefinitionLevel returns the number of optional/repeated ancestors
// (inclusive of n itself) between the root and n.
func (n *Node) MaxDefinitionLevel() int {
	level := 0
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		if cur.Element.RepetitionType != format.Required {
			level++
		}
	}
	return level
}

// MaxRepetitionLevel returns the number of REPEATED ancestors (inclusive of
// n itself) between the root and n.
func (n *Node) MaxRepetitionLevel() int {
	level := 0
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		if cur.Element.RepetitionType == format.Repeated {
			level++
		}
	}
	return level
}

// RepetitionPath returns, root-exclusive, the RepetitionType of every
// ancestor of n (inclusive of n), the sequence the Dremel assembler walks
// to decide when to open/close containers.
func (n *Node) RepetitionPath() []format.FieldRepetitionType {
	var chain []*Node
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	path := make([]format.FieldRepetitionType, len(chain))
	for i, node := range chain {
		path[len(chain)-1-i] = node.Element.RepetitionType
	}
	return path
}

// FindColumn looks up a leaf by its dotted path.
func (t *SchemaTree) FindColumn(path string) (*Node, bool) {
	for _, leaf := range t.Leaves {
		if leaf.PathString() == path {
			return leaf, true
		}
	}
	return nil, false
}

// TopLevelName returns the first path segment of a leaf, used to group
// leaves under a `columns` top-level selection.
func (n *Node) TopLevelName() string {
	if len(n.Path) == 0 {
		return ""
	}
	return n.Path[0]
}
