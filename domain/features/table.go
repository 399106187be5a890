package features

import (
	"lotogrid/domain/core"
)

// Table is a dense feature matrix: one row per draw (observed) or per
// simulation (baseline means), columns aligned with Names().
type Table struct {
	FeatureNames []string `json:"feature_names"`
	RowIDs       []int    `json:"row_ids"` // contest ids or simulation indices
	Rows         []Vector `json:"rows"`
}

// NewTable creates an empty table over the fixed schema.
func NewTable(capacity int) *Table {
	return &Table{
		FeatureNames: Names(),
		RowIDs:       make([]int, 0, capacity),
		Rows:         make([]Vector, 0, capacity),
	}
}

// Append adds one row, enforcing the schema invariant.
func (t *Table) Append(rowID int, v Vector) error {
	if len(v) != len(t.FeatureNames) {
		return core.SchemaMismatchError("row width does not match table schema")
	}
	t.RowIDs = append(t.RowIDs, rowID)
	t.Rows = append(t.Rows, v)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column extracts one feature's values across all rows.
func (t *Table) Column(idx int) []float64 {
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col
}

// ColumnByName extracts one feature's values by schema name.
func (t *Table) ColumnByName(name string) ([]float64, error) {
	idx, ok := Index(name)
	if !ok {
		return nil, core.SchemaMismatchError("unknown feature " + name)
	}
	return t.Column(idx), nil
}

// SameSchema reports whether two tables agree on the feature set and order.
func (t *Table) SameSchema(other *Table) bool {
	if other == nil || len(t.FeatureNames) != len(other.FeatureNames) {
		return false
	}
	for i, n := range t.FeatureNames {
		if other.FeatureNames[i] != n {
			return false
		}
	}
	return true
}
