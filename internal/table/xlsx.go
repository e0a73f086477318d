// =============================================================================
// Sales Data Merge - XLSX Reading
// =============================================================================
//
// Some source files (continuation sales, holiday calendars) arrive as
// spreadsheets instead of CSV exports. This reader pulls the first sheet of
// an XLSX workbook into the same raw string grid the CSV reader produces, so
// downstream type inference and normalization behave identically for both
// formats.
//
// =============================================================================

package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXFile reads the first sheet of an XLSX workbook into a Table. The
// first row is the header row.
func ReadXLSXFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", path, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, sheets[0])
	}

	return fromGrid(rows[0], rows[1:]), nil
}
