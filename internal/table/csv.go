// =============================================================================
// Sales Data Merge - CSV Reading and Writing
// =============================================================================
//
// Reads delimited source files into Tables and serializes the merged result.
//
// READING:
//   - The first record is the header row (required).
//   - Rows may carry fewer or more fields than the header; short rows are
//     padded with missing values, surplus fields are dropped.
//   - Empty cells and the literal token "NaN" become missing values.
//   - Column types are inferred per column: a column whose present cells all
//     parse as integers becomes Int, else all-float becomes Float, else the
//     column stays String.
//
// WRITING:
//   - Comma-delimited, UTF-8, header row, no row index column.
//   - Missing cells are rendered as a caller-supplied token ("NaN" by
//     default in the pipeline configuration).
//
// =============================================================================

package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses CSV data from r into a Table.
func ReadCSV(r io.Reader) (*Table, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))

	// Tolerate ragged rows and sloppy quoting; legacy exports have both.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	return fromGrid(records[0], records[1:]), nil
}

// ReadCSVFile opens path and parses it as CSV.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteCSV serializes the table to w. Missing cells render as missingToken.
func (t *Table) WriteCSV(w io.Writer, missingToken string) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, c := range row {
			if c.IsMissing() {
				record[i] = missingToken
			} else {
				record[i] = c.String()
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteCSVFile creates (or truncates) path and serializes the table into it.
func (t *Table) WriteCSVFile(path string, missingToken string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := t.WriteCSV(file, missingToken); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// fromGrid builds a typed Table out of a raw string grid.
func fromGrid(headers []string, records [][]string) *Table {
	t := New(headers...)
	width := len(headers)

	t.Rows = make([][]Cell, len(records))
	for r, record := range records {
		row := make([]Cell, width)
		for i := 0; i < width; i++ {
			if i >= len(record) {
				row[i] = Missing()
				continue
			}
			row[i] = rawCell(record[i])
		}
		t.Rows[r] = row
	}

	inferColumnTypes(t)
	return t
}

// rawCell converts one raw field into an untyped cell.
func rawCell(field string) Cell {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" || trimmed == "NaN" {
		return Missing()
	}
	return NewString(field)
}

// inferColumnTypes upgrades String columns to Int or Float when every
// present cell parses accordingly. Missing cells do not block inference;
// a column with no present cells stays as it is.
func inferColumnTypes(t *Table) {
	for col := range t.Headers {
		kind := KindMissing
		for _, row := range t.Rows {
			c := row[col]
			if c.IsMissing() {
				continue
			}
			trimmed := strings.TrimSpace(c.Str)
			if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				if kind == KindMissing {
					kind = KindInt
				}
				continue
			}
			if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
				if kind == KindMissing || kind == KindInt {
					kind = KindFloat
				}
				continue
			}
			kind = KindString
			break
		}
		if kind != KindInt && kind != KindFloat {
			continue
		}
		for i, row := range t.Rows {
			c := row[col]
			if c.IsMissing() {
				continue
			}
			trimmed := strings.TrimSpace(c.Str)
			if kind == KindInt {
				v, _ := strconv.ParseInt(trimmed, 10, 64)
				t.Rows[i][col] = NewInt(v)
			} else {
				v, _ := strconv.ParseFloat(trimmed, 64)
				t.Rows[i][col] = NewFloat(v)
			}
		}
	}
}
