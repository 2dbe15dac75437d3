package schedule

import (
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// FieldColumns are the fixed leading columns of a Table, one per
// recognized definition field.
var FieldColumns = []string{"name", "description", "components", "deadline", "keywords"}

// Table is the schedule pivoted into a matrix: one row per milestone and,
// after the field columns, one column per milestone holding the label of
// the dependency from the row milestone to the column milestone.
type Table struct {
	columns []string
	rowIDs  []string
	rows    map[string][]string
	colIdx  map[string]int
	defs    map[string]domain.Definition
}

// BuildTable pivots definitions into a Table. Row and milestone column order
// follow defs.
func BuildTable(defs []domain.Definition) *Table {
	t := &Table{
		columns: make([]string, 0, len(FieldColumns)+len(defs)),
		rowIDs:  make([]string, 0, len(defs)),
		rows:    make(map[string][]string, len(defs)),
		colIdx:  make(map[string]int, len(FieldColumns)+len(defs)),
		defs:    make(map[string]domain.Definition, len(defs)),
	}

	t.columns = append(t.columns, FieldColumns...)
	for _, d := range defs {
		t.columns = append(t.columns, d.ID)
	}
	// Milestone columns are registered first so a milestone whose ID clashes
	// with a field name cannot shadow the field column.
	for i := len(t.columns) - 1; i >= 0; i-- {
		t.colIdx[t.columns[i]] = i
	}

	for _, d := range defs {
		row := make([]string, len(t.columns))
		row[0] = d.Name
		row[1] = d.Description
		row[2] = strings.Join(d.Components, ", ")
		row[3] = d.Deadline
		row[4] = strings.Join(d.Keywords, ", ")
		for j, target := range defs {
			row[len(FieldColumns)+j] = d.Inputs[target.ID]
		}
		t.rowIDs = append(t.rowIDs, d.ID)
		t.rows[d.ID] = row
		t.defs[d.ID] = d
	}
	return t
}

// Columns returns the column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// RowIDs returns milestone IDs in row order.
func (t *Table) RowIDs() []string {
	return append([]string(nil), t.rowIDs...)
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.rowIDs)
}

// Row returns the cells of the given milestone's row, or nil.
func (t *Table) Row(id string) []string {
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	return append([]string(nil), row...)
}

// Cell returns the value at (row, col), or "" when either is unknown.
func (t *Table) Cell(row, col string) string {
	r, ok := t.rows[row]
	if !ok {
		return ""
	}
	i, ok := t.colIdx[col]
	if !ok {
		return ""
	}
	return r[i]
}

// Support returns the label of the dependency src -> dst, or "".
func (t *Table) Support(src, dst string) string {
	r, ok := t.rows[src]
	if !ok {
		return ""
	}
	for j, id := range t.rowIDs {
		if id == dst {
			return r[len(FieldColumns)+j]
		}
	}
	return ""
}

// Definition returns the definition a row was built from.
func (t *Table) Definition(id string) (domain.Definition, bool) {
	d, ok := t.defs[id]
	return d, ok
}
