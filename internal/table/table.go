// =============================================================================
// Sales Data Merge - Table Type
// =============================================================================
//
// A Table is an ordered sequence of named columns whose cells align by row
// index. Column names are mutable metadata; row identity is positional.
// Every source file in the pipeline is loaded into a Table, and all pipeline
// stages (standardization, concatenation, joining, finalization) operate on
// Tables.
//
// OPERATIONS:
//   - Column lookup, rename, header whitespace trimming
//   - EnsureColumn / SelectColumns (pad absent columns with missing values)
//   - Append (row-bind two tables sharing a header set)
//   - SortBy (stable multi-key, missing values last)
//   - LeftJoin (key-equality left outer join, first right match wins)
//   - ReorderColumns (preferred prefix, remaining columns keep their order)
//
// =============================================================================

package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table holds tabular data: a header row plus data rows aligned by index.
type Table struct {
	// Headers contains the column names, in column order.
	Headers []string

	// Rows contains the data rows. Every row has len(Headers) cells.
	Rows [][]Cell
}

// New creates an empty table with the given column names.
func New(headers ...string) *Table {
	return &Table{Headers: append([]string(nil), headers...)}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 when absent.
// The match is exact and case-sensitive; callers that need fuzzy matching
// (date candidates, sales keywords) implement their own scan over Headers.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's cells, or nil when absent.
func (t *Table) Column(name string) []Cell {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells
}

// Rename changes a column name. Renaming an absent column is a no-op, as is
// renaming a column to the name it already has.
func (t *Table) Rename(oldName, newName string) {
	if oldName == newName {
		return
	}
	if idx := t.ColumnIndex(oldName); idx >= 0 {
		t.Headers[idx] = newName
	}
}

// TrimHeaderSpace strips leading and trailing whitespace from every column
// name.
func (t *Table) TrimHeaderSpace() {
	for i, h := range t.Headers {
		t.Headers[i] = strings.TrimSpace(h)
	}
}

// EnsureColumn appends a missing-filled column when the named column does
// not already exist.
func (t *Table) EnsureColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Headers = append(t.Headers, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], Missing())
	}
}

// SelectColumns returns a new table holding exactly the named columns, in
// the given order. Columns absent from the source are padded with missing
// values; source columns not named are dropped.
func (t *Table) SelectColumns(names ...string) *Table {
	out := New(names...)
	indices := make([]int, len(names))
	for i, name := range names {
		indices[i] = t.ColumnIndex(name)
	}
	out.Rows = make([][]Cell, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]Cell, len(names))
		for i, idx := range indices {
			if idx < 0 {
				cells[i] = Missing()
			} else {
				cells[i] = row[idx]
			}
		}
		out.Rows[r] = cells
	}
	return out
}

// MapColumn replaces every cell of the named column with fn(cell). Mapping
// an absent column is a no-op.
func (t *Table) MapColumn(name string, fn func(Cell) Cell) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	for i := range t.Rows {
		t.Rows[i][idx] = fn(t.Rows[i][idx])
	}
}

// ReplaceEmptyWithMissing converts every empty-string cell into a missing
// cell.
func (t *Table) ReplaceEmptyWithMissing() {
	for i := range t.Rows {
		for j, c := range t.Rows[i] {
			if c.Kind == KindString && c.Str == "" {
				t.Rows[i][j] = Missing()
			}
		}
	}
}

// Append row-binds other onto t. Both tables must carry an identical header
// sequence; callers align schemas first via SelectColumns.
func (t *Table) Append(other *Table) error {
	if len(t.Headers) != len(other.Headers) {
		return fmt.Errorf("cannot append: %d columns vs %d columns", len(other.Headers), len(t.Headers))
	}
	for i, h := range t.Headers {
		if other.Headers[i] != h {
			return fmt.Errorf("cannot append: column %d is %q, expected %q", i, other.Headers[i], h)
		}
	}
	for _, row := range other.Rows {
		t.Rows = append(t.Rows, append([]Cell(nil), row...))
	}
	return nil
}

// SortKey names one sort column. AsText forces comparison on the canonical
// string form, which keeps identifier ordering stable when a column holds a
// mix of inferred numeric and textual values.
type SortKey struct {
	Column string
	AsText bool
}

// SortBy stably sorts rows ascending by the given keys. Missing values sort
// after present ones. Keys naming absent columns are skipped.
func (t *Table) SortBy(keys ...SortKey) {
	type resolved struct {
		idx    int
		asText bool
	}
	var cols []resolved
	for _, k := range keys {
		if idx := t.ColumnIndex(k.Column); idx >= 0 {
			cols = append(cols, resolved{idx: idx, asText: k.AsText})
		}
	}
	if len(cols) == 0 {
		return
	}
	sort.SliceStable(t.Rows, func(a, b int) bool {
		for _, c := range cols {
			var cmp int
			if c.asText {
				cmp = t.Rows[a][c.idx].CompareText(t.Rows[b][c.idx])
			} else {
				cmp = t.Rows[a][c.idx].Compare(t.Rows[b][c.idx])
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}

// LeftJoin joins t (the driving side) with right on equality of the key
// column, keeping every row of t. Unmatched rows receive missing values for
// the right-side columns. The right side is indexed by key and only the
// FIRST row per key value participates, so duplicate right-side keys never
// multiply driving rows. Rows whose key is missing never match. Right-side
// rows with no matching key are dropped.
func (t *Table) LeftJoin(right *Table, key string) (*Table, error) {
	leftKey := t.ColumnIndex(key)
	if leftKey < 0 {
		return nil, fmt.Errorf("left table has no column %q", key)
	}
	rightKey := right.ColumnIndex(key)
	if rightKey < 0 {
		return nil, fmt.Errorf("right table has no column %q", key)
	}

	// Right-side payload columns, excluding the key.
	var payload []int
	for i := range right.Headers {
		if i != rightKey {
			payload = append(payload, i)
		}
	}

	// Index the right side by canonical key form, first occurrence wins.
	index := make(map[string]int, len(right.Rows))
	for i, row := range right.Rows {
		k := row[rightKey]
		if k.IsMissing() {
			continue
		}
		if _, seen := index[k.String()]; !seen {
			index[k.String()] = i
		}
	}

	headers := append([]string(nil), t.Headers...)
	for _, idx := range payload {
		headers = append(headers, right.Headers[idx])
	}
	out := New(headers...)
	out.Rows = make([][]Cell, len(t.Rows))

	for r, row := range t.Rows {
		cells := make([]Cell, 0, len(headers))
		cells = append(cells, row...)
		matched := -1
		if k := row[leftKey]; !k.IsMissing() {
			if ri, ok := index[k.String()]; ok {
				matched = ri
			}
		}
		for _, idx := range payload {
			if matched >= 0 {
				cells = append(cells, right.Rows[matched][idx])
			} else {
				cells = append(cells, Missing())
			}
		}
		out.Rows[r] = cells
	}
	return out, nil
}

// ReorderColumns rearranges columns so those named in preferred come first,
// in the given order, skipping names the table does not have. All remaining
// columns follow in their existing relative order. The column set is
// unchanged.
func (t *Table) ReorderColumns(preferred []string) {
	taken := make(map[int]bool, len(t.Headers))
	var order []int
	for _, name := range preferred {
		if idx := t.ColumnIndex(name); idx >= 0 && !taken[idx] {
			order = append(order, idx)
			taken[idx] = true
		}
	}
	for i := range t.Headers {
		if !taken[i] {
			order = append(order, i)
		}
	}

	headers := make([]string, len(order))
	for i, idx := range order {
		headers[i] = t.Headers[idx]
	}
	for r, row := range t.Rows {
		cells := make([]Cell, len(order))
		for i, idx := range order {
			cells[i] = row[idx]
		}
		t.Rows[r] = cells
	}
	t.Headers = headers
}
