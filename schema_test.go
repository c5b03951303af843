package parquet

import (
	"testing"

	"github.com/segmentio/parquet-go/format"
)

// flatSchema builds the pre-order, num_children-delimited schema array for
//
//	message root {
//	  required int64 docid;
//	  optional group links {
//	    repeated int64 forward;
//	  }
//	}
func flatSchema() []format.SchemaElement {
	return []format.SchemaElement{
		{Name: "root", NumChildren: 2},
		{Name: "docid", RepetitionType: format.Required, HasType: true, Type: format.Int64},
		{Name: "links", RepetitionType: format.Optional, NumChildren: 1},
		{Name: "forward", RepetitionType: format.Repeated, HasType: true, Type: format.Int64},
	}
}

func TestBuildSchemaTreeLeavesAndLevels(t *testing.T) {
	tree, err := BuildSchemaTree(flatSchema())
	if err != nil {
		t.Fatalf("BuildSchemaTree: %v", err)
	}
	if len(tree.Leaves) != 2 {
		t.Fatalf("got %d leaves, want 2", len(tree.Leaves))
	}

	docid, forward := tree.Leaves[0], tree.Leaves[1]
	if docid.PathString() != "docid" || forward.PathString() != "links.forward" {
		t.Fatalf("unexpected leaf paths: %q, %q", docid.PathString(), forward.PathString())
	}
	if docid.MaxDefinitionLevel() != 0 {
		t.Fatalf("docid maxDef = %d, want 0", docid.MaxDefinitionLevel())
	}
	if forward.MaxDefinitionLevel() != 2 {
		t.Fatalf("forward maxDef = %d, want 2", forward.MaxDefinitionLevel())
	}
	if forward.MaxRepetitionLevel() != 1 {
		t.Fatalf("forward maxRep = %d, want 1", forward.MaxRepetitionLevel())
	}
	if docid.TopLevelName() != "docid" || forward.TopLevelName() != "links" {
		t.Fatalf("unexpected top-level names: %q, %q", docid.TopLevelName(), forward.TopLevelName())
	}
}

func TestBuildSchemaTreeRejectsTrailingElements(t *testing.T) {
	schema := append(flatSchema(), format.SchemaElement{Name: "stray", HasType: true})
	if _, err := BuildSchemaTree(schema); err == nil {
		t.Fatalf("expected an error for a schema array with unconsumed trailing elements")
	}
}
