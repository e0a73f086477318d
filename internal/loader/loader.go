// =============================================================================
// Sales Data Merge - Source Loader
// =============================================================================
//
// Loads one source file into a Table with a guaranteed, parsed date column:
//
//   1. Read the file (CSV, or XLSX for spreadsheet sources, by extension).
//   2. Locate the date column by case-insensitive exact match against the
//      configured candidate names; the first matching column wins. A file
//      without one fails with ErrNoDateColumn.
//   3. Parse the column to calendar dates, month-before-day ordering.
//      Unparseable cells become missing, never an error.
//   4. Rename the matched column to "date" and strip leading/trailing
//      whitespace from every header.
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"salesmerge/internal/table"
)

// ErrNoDateColumn reports a source file without any recognizable date
// column. This is fatal for the run; wrap it with the file path.
var ErrNoDateColumn = errors.New("no date column found")

// dateLayouts are tried in order. Numeric forms assume month before day.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"2006.01.02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Load reads the file at path and normalizes it per the contract above.
func Load(path string, dateCandidates []string) (*table.Table, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := Normalize(t, dateCandidates); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Normalize applies the date-column contract to an already-read table.
func Normalize(t *table.Table, dateCandidates []string) error {
	dateCol, ok := findDateColumn(t, dateCandidates)
	if !ok {
		return ErrNoDateColumn
	}

	t.MapColumn(dateCol, parseDateCell)
	t.Rename(dateCol, "date")
	t.TrimHeaderSpace()
	return nil
}

// readFile picks the reader by file extension.
func readFile(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return table.ReadXLSXFile(path)
	default:
		return table.ReadCSVFile(path)
	}
}

// findDateColumn returns the first column whose name matches a candidate,
// ignoring case.
func findDateColumn(t *table.Table, candidates []string) (string, bool) {
	for _, h := range t.Headers {
		lh := strings.ToLower(strings.TrimSpace(h))
		for _, cand := range candidates {
			if lh == strings.ToLower(cand) {
				return h, true
			}
		}
	}
	return "", false
}

// parseDateCell converts one cell to a date cell, or missing when no layout
// matches.
func parseDateCell(c table.Cell) table.Cell {
	if c.IsMissing() {
		return c
	}
	if c.Kind == table.KindDate {
		return c
	}
	text := strings.TrimSpace(c.String())
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return table.NewDate(parsed)
		}
	}
	return table.Missing()
}
