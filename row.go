package parquet

import "fmt"

// Row is one materialised record, either a positional []any (RowFormatArray)
// or a map[string]any keyed by top-level column name (RowFormatObject).
type Row interface{}

// buildRows transposes the groups' assembled top-level columns into Rows,
// honoring cfg.Columns' exact order (including duplicates and names with
// no matching column, which come back as null) when non-empty, or every
// top-level column in schema order otherwise.
func buildRows(tree *SchemaTree, groupColumns []map[*Node]*assembledColumn, selectedTopLevel []string, format RowFormat) ([]Row, error) {
	topLevel := topLevelNodes(tree)

	names := selectedTopLevel
	if len(names) == 0 {
		for _, n := range topLevel {
			names = append(names, n.Name())
		}
	}

	byName := make(map[string]*Node, len(topLevel))
	for _, n := range topLevel {
		byName[n.Name()] = n
	}

	var rows []Row
	for _, leaves := range groupColumns {
		assembled, err := assembleTopLevel(tree, topLevel, leaves)
		if err != nil {
			return nil, err
		}
		numRows := topLevelRowCount(assembled)

		for r := 0; r < numRows; r++ {
			switch format {
			case RowFormatObject:
				rec := make(map[string]interface{}, len(names))
				for _, name := range names {
					rec[name] = valueFor(assembled, byName, name, r)
				}
				rows = append(rows, rec)
			default:
				rec := make([]interface{}, len(names))
				for i, name := range names {
					rec[i] = valueFor(assembled, byName, name, r)
				}
				rows = append(rows, rec)
			}
		}
	}
	return rows, nil
}

func valueFor(assembled map[*Node]*assembledColumn, byName map[string]*Node, name string, row int) interface{} {
	node, ok := byName[name]
	if !ok {
		return nil
	}
	col, ok := assembled[node]
	if !ok || row >= len(col.values) {
		return nil
	}
	return col.values[row]
}

// topLevelNodes returns the schema's immediate children, in order.
func topLevelNodes(tree *SchemaTree) []*Node {
	return tree.Root.Children
}

// assembleTopLevel runs assembleGroup for every top-level node, producing
// the full per-record nested value for each.
func assembleTopLevel(tree *SchemaTree, topLevel []*Node, leaves map[*Node]*assembledColumn) (map[*Node]*assembledColumn, error) {
	numRecords := rowGroupRecordCount(leaves)
	out := make(map[*Node]*assembledColumn, len(topLevel))
	for _, n := range topLevel {
		col, err := assembleGroup(n, leaves, numRecords)
		if err != nil {
			return nil, fmt.Errorf("assembling column %s: %w", n.PathString(), err)
		}
		out[n] = col
	}
	return out, nil
}

func rowGroupRecordCount(leaves map[*Node]*assembledColumn) int {
	for _, col := range leaves {
		return len(col.values)
	}
	return 0
}

func topLevelRowCount(assembled map[*Node]*assembledColumn) int {
	for _, col := range assembled {
		return len(col.values)
	}
	return 0
}
