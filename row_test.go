package parquet

import (
	"reflect"
	"testing"

	"github.com/segmentio/parquet-go/format"
)

func twoColumnTree() (*SchemaTree, *Node, *Node) {
	root := &Node{Element: &format.SchemaElement{Name: "root"}}
	x := &Node{Element: &format.SchemaElement{Name: "x", RepetitionType: format.Required, HasType: true}, Parent: root, Path: []string{"x"}}
	y := &Node{Element: &format.SchemaElement{Name: "y", RepetitionType: format.Required, HasType: true}, Parent: root, Path: []string{"y"}}
	root.Children = []*Node{x, y}
	x.Index, y.Index = 0, 1
	return &SchemaTree{Root: root, Leaves: []*Node{x, y}}, x, y
}

// TestBuildRowsHonorsColumnOrderWithDuplicatesAndMissing covers testable
// property §8.4: output fields appear in the exact order requested,
// including a name repeated twice and one with no matching column (filled
// with null).
func TestBuildRowsHonorsColumnOrderWithDuplicatesAndMissing(t *testing.T) {
	tree, x, y := twoColumnTree()
	leaves := map[*Node]*assembledColumn{
		x: {node: x, values: []interface{}{"a0", "a1"}},
		y: {node: y, values: []interface{}{"b0", "b1"}},
	}

	rows, err := buildRows(tree, []map[*Node]*assembledColumn{leaves}, []string{"x", "y", "x", "missing"}, RowFormatArray)
	if err != nil {
		t.Fatalf("buildRows: %v", err)
	}
	want := []Row{
		[]interface{}{"a0", "b0", "a0", nil},
		[]interface{}{"a1", "b1", "a1", nil},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %#v, want %#v", rows, want)
	}
}

func TestBuildRowsObjectFormat(t *testing.T) {
	tree, x, y := twoColumnTree()
	leaves := map[*Node]*assembledColumn{
		x: {node: x, values: []interface{}{"a0"}},
		y: {node: y, values: []interface{}{"b0"}},
	}

	rows, err := buildRows(tree, []map[*Node]*assembledColumn{leaves}, nil, RowFormatObject)
	if err != nil {
		t.Fatalf("buildRows: %v", err)
	}
	want := []Row{map[string]interface{}{"x": "a0", "y": "b0"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %#v, want %#v", rows, want)
	}
}
