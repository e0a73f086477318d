// =============================================================================
// Sales Data Merge - Sales Standardizer
// =============================================================================
//
// Guarantees the canonical sales schema on any loaded sales table. After
// standardization the table always carries the columns
//
//   date         - the parsed date key (produced earlier by the loader)
//   id           - optional external identifier
//   warengruppe  - product category code
//   umsatz       - numeric revenue
//
// Discovery works by keyword substring: for each canonical column, in a
// fixed priority order, the existing column names are scanned
// case-insensitively for any name containing one of the configured keyword
// substrings. The first match in column order is renamed to the canonical
// name. A column already named canonically is left untouched, and a
// canonical column with no match at all is created filled with missing
// values.
//
// The revenue column is additionally coerced to numeric: values are
// stringified, a comma decimal separator becomes a dot, and unparseable
// values become missing. Identifier resolution runs before revenue
// resolution, so a header matching both keyword sets is claimed by "id"
// and never coerced.
//
// =============================================================================

package sales

import (
	"strings"

	"salesmerge/internal/config"
	"salesmerge/internal/table"
)

// Canonical sales column names.
const (
	ColumnDate     = "date"
	ColumnID       = "id"
	ColumnCategory = "warengruppe"
	ColumnRevenue  = "umsatz"
)

// CanonicalColumns is the exact schema sales tables are reduced to before
// concatenation and merging.
var CanonicalColumns = []string{ColumnDate, ColumnID, ColumnCategory, ColumnRevenue}

// Standardize renames heuristically-discovered columns to their canonical
// names, coerces revenue to numeric, and creates missing-filled canonical
// columns where no source column matched.
func Standardize(t *table.Table, mappings []config.ColumnKeywords) {
	for _, m := range mappings {
		// An existing canonical column wins over any keyword match; no
		// redundant rename, no duplicate column names.
		if !t.HasColumn(m.Canonical) {
			if src, ok := findByKeywords(t, m.Keywords); ok {
				t.Rename(src, m.Canonical)
			}
		}
		if m.Canonical == ColumnRevenue {
			t.MapColumn(ColumnRevenue, coerceRevenue)
		}
	}
	t.TrimHeaderSpace()

	for _, name := range CanonicalColumns {
		t.EnsureColumn(name)
	}
}

// AppendContinuation pads both tables to the canonical four-column schema
// (extra columns are dropped), normalizes empty strings to missing, row-binds
// the continuation onto the primary table, and re-sorts by (date, id-as-text)
// ascending with missing values last. The result is the working sales table
// for the merge stage.
func AppendContinuation(primary, continuation *table.Table) (*table.Table, error) {
	combined := primary.SelectColumns(CanonicalColumns...)
	cont := continuation.SelectColumns(CanonicalColumns...)

	combined.ReplaceEmptyWithMissing()
	cont.ReplaceEmptyWithMissing()

	if err := combined.Append(cont); err != nil {
		return nil, err
	}

	combined.SortBy(
		table.SortKey{Column: ColumnDate},
		table.SortKey{Column: ColumnID, AsText: true},
	)
	return combined, nil
}

// findByKeywords returns the first column (in column order) whose
// lower-cased name contains any of the keywords.
func findByKeywords(t *table.Table, keywords []string) (string, bool) {
	for _, h := range t.Headers {
		lh := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lh, strings.ToLower(kw)) {
				return h, true
			}
		}
	}
	return "", false
}

// coerceRevenue parses one revenue cell as a decimal, accepting either a
// comma or a dot separator. Parsing is idempotent: an already-numeric cell
// round-trips to the same value.
func coerceRevenue(c table.Cell) table.Cell {
	if c.IsMissing() {
		return c
	}
	if v, ok := c.Number(); ok {
		return table.NewFloat(v)
	}
	return table.Missing()
}
