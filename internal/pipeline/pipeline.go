// =============================================================================
// Sales Data Merge - Pipeline Module
// =============================================================================
//
// Orchestrates one full merge run, sequentially:
//
//   1. Load the sales, weather, and event-day tables (required sources).
//   2. Standardize the sales table to the canonical schema.
//   3. When a continuation sales file exists, standardize it identically
//      and append it to the primary table.
//   4. When holiday calendars exist, reduce them to {date, school_holiday}
//      and {date, public_holiday} flag tables.
//   5. Left-join the sales table with weather, event days, and holidays on
//      the date key. Every sales row survives the merge; unmatched rows get
//      missing values for the auxiliary columns.
//   6. Finalize: default present holiday flags to 0, coerce the configured
//      columns to integer-or-missing, sort rows by (date, warengruppe, id),
//      reorder columns behind the preferred prefix.
//   7. Write the merged CSV and optionally archive the inputs.
//
// Each stage consumes the full output of the previous one; there is no
// concurrency and no partial-output mode. Per-cell parse failures were
// absorbed upstream as missing values, so any error reaching this module
// aborts the run.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"math"
	"os"
	"time"

	"salesmerge/internal/config"
	"salesmerge/internal/loader"
	"salesmerge/internal/sales"
	"salesmerge/internal/table"
	"salesmerge/pkg/utils"
)

// Holiday flag columns added during the merge.
const (
	schoolHolidayColumn = "school_holiday"
	publicHolidayColumn = "public_holiday"
)

// Result describes a completed run.
type Result struct {
	// SourceRows holds the row count of each loaded source, keyed by path.
	SourceRows map[string]int

	// SalesRows is the row count of the working sales table entering the
	// merge (after any continuation append).
	SalesRows int

	// OutputRows is the row count of the merged table. The left join keeps
	// this equal to SalesRows.
	OutputRows int

	// OutputPath is where the merged CSV was written.
	OutputPath string

	// Archived lists input files moved to the archive directory.
	Archived []string

	// Elapsed is the total run time.
	Elapsed time.Duration
}

// Logger is the logging interface the pipeline reports progress through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Pipeline runs the merge for one configuration.
type Pipeline struct {
	cfg    *config.Config
	logger Logger
}

// New creates a Pipeline. A nil logger falls back to the default stdout
// logger with debug output disabled.
func New(cfg *config.Config, logger Logger) *Pipeline {
	if logger == nil {
		logger = NewStdLogger(false)
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes the full merge and returns the run statistics. Any returned
// error means no usable output was produced.
func (p *Pipeline) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{SourceRows: make(map[string]int)}

	// =========================================================================
	// STEP 1: LOAD REQUIRED SOURCES
	// =========================================================================

	p.logger.Info("Reading base files...")

	salesTable, err := p.loadSource(p.cfg.SalesFile, result)
	if err != nil {
		return nil, err
	}
	weather, err := p.loadSource(p.cfg.WeatherFile, result)
	if err != nil {
		return nil, err
	}
	events, err := p.loadSource(p.cfg.EventFile, result)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: STANDARDIZE SALES, APPEND CONTINUATION
	// =========================================================================

	sales.Standardize(salesTable, p.cfg.SalesColumnKeywords)

	contPath := p.cfg.ResolvePath(p.cfg.ContinuationFile)
	if fileExists(contPath) {
		p.logger.Info("Appending continuation file: %s", contPath)

		continuation, err := p.loadSource(p.cfg.ContinuationFile, result)
		if err != nil {
			return nil, err
		}
		sales.Standardize(continuation, p.cfg.SalesColumnKeywords)

		salesTable, err = sales.AppendContinuation(salesTable, continuation)
		if err != nil {
			return nil, fmt.Errorf("failed to append continuation: %w", err)
		}
		p.logger.Info("Combined sales rows: %d", salesTable.RowCount())
	}

	result.SalesRows = salesTable.RowCount()

	// =========================================================================
	// STEP 3: PREPARE HOLIDAY FLAG TABLES
	// =========================================================================

	school, err := p.loadSchoolHolidays(result)
	if err != nil {
		return nil, err
	}
	public, err := p.loadPublicHolidays(result)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: MERGE ON THE DATE KEY
	// =========================================================================

	p.logger.Info("Merging with weather and event days (left join on date)...")

	merged, err := salesTable.LeftJoin(weather, sales.ColumnDate)
	if err != nil {
		return nil, fmt.Errorf("failed to merge weather: %w", err)
	}
	merged, err = merged.LeftJoin(events, sales.ColumnDate)
	if err != nil {
		return nil, fmt.Errorf("failed to merge event days: %w", err)
	}
	if school != nil {
		if merged, err = merged.LeftJoin(school, sales.ColumnDate); err != nil {
			return nil, fmt.Errorf("failed to merge school holidays: %w", err)
		}
	}
	if public != nil {
		if merged, err = merged.LeftJoin(public, sales.ColumnDate); err != nil {
			return nil, fmt.Errorf("failed to merge public holidays: %w", err)
		}
	}

	if merged.RowCount() != result.SalesRows {
		return nil, fmt.Errorf("merge changed the sales row count: %d -> %d",
			result.SalesRows, merged.RowCount())
	}

	// =========================================================================
	// STEP 5: FINALIZE
	// =========================================================================

	if school != nil {
		fillHolidayFlag(merged, schoolHolidayColumn)
	}
	if public != nil {
		fillHolidayFlag(merged, publicHolidayColumn)
	}

	for _, col := range p.cfg.IntegerColumns {
		merged.MapColumn(col, coerceInteger)
	}

	merged.SortBy(
		table.SortKey{Column: sales.ColumnDate},
		table.SortKey{Column: sales.ColumnCategory},
		table.SortKey{Column: sales.ColumnID},
	)
	merged.ReorderColumns(p.cfg.PreferredColumnOrder)

	// =========================================================================
	// STEP 6: WRITE OUTPUT
	// =========================================================================

	if err := utils.EnsureDir(p.cfg.AnalysisDir); err != nil {
		return nil, fmt.Errorf("failed to create analysis directory: %w", err)
	}

	outputPath := p.cfg.OutputPath()
	if err := merged.WriteCSVFile(outputPath, p.cfg.MissingToken); err != nil {
		return nil, err
	}

	result.OutputRows = merged.RowCount()
	result.OutputPath = outputPath
	p.logger.Info("Wrote merged CSV to: %s (rows: %d)", outputPath, result.OutputRows)

	// =========================================================================
	// STEP 7: ARCHIVE INPUTS
	// =========================================================================

	if p.cfg.ArchiveInputs {
		result.Archived = p.archiveInputs()
	}

	result.Elapsed = time.Since(startTime)
	return result, nil
}

// loadSource loads and normalizes one source file, recording its row count.
func (p *Pipeline) loadSource(relPath string, result *Result) (*table.Table, error) {
	path := p.cfg.ResolvePath(relPath)
	t, err := loader.Load(path, p.cfg.DateColumnCandidates)
	if err != nil {
		return nil, err
	}
	result.SourceRows[relPath] = t.RowCount()
	p.logger.Debug("Loaded %s: %d rows, %d columns", path, t.RowCount(), len(t.Headers))
	return t, nil
}

// loadSchoolHolidays builds the {date, school_holiday} flag table. Every
// row present in the calendar marks its date as a holiday. Returns nil when
// the source does not exist.
func (p *Pipeline) loadSchoolHolidays(result *Result) (*table.Table, error) {
	if !fileExists(p.cfg.ResolvePath(p.cfg.SchoolHolidayFile)) {
		return nil, nil
	}
	t, err := p.loadSource(p.cfg.SchoolHolidayFile, result)
	if err != nil {
		return nil, err
	}
	t.EnsureColumn(schoolHolidayColumn)
	t.MapColumn(schoolHolidayColumn, func(table.Cell) table.Cell {
		return table.NewInt(1)
	})
	return t.SelectColumns(sales.ColumnDate, schoolHolidayColumn), nil
}

// loadPublicHolidays builds the {date, public_holiday} flag table from the
// calendar's 0/1 indicator column. Returns nil when the source does not
// exist.
func (p *Pipeline) loadPublicHolidays(result *Result) (*table.Table, error) {
	if !fileExists(p.cfg.ResolvePath(p.cfg.PublicHolidayFile)) {
		return nil, nil
	}
	t, err := p.loadSource(p.cfg.PublicHolidayFile, result)
	if err != nil {
		return nil, err
	}
	t.Rename(p.cfg.PublicHolidaySourceColumn, publicHolidayColumn)
	return t.SelectColumns(sales.ColumnDate, publicHolidayColumn), nil
}

// archiveInputs moves every still-present input file into the archive
// directory. Archival failures are logged, not fatal: the output is already
// written.
func (p *Pipeline) archiveInputs() []string {
	fm := utils.NewFileManager(p.cfg.ArchiveDir)
	inputs := []string{
		p.cfg.SalesFile, p.cfg.WeatherFile, p.cfg.EventFile,
		p.cfg.ContinuationFile, p.cfg.SchoolHolidayFile, p.cfg.PublicHolidayFile,
	}
	var archived []string
	for _, rel := range inputs {
		path := p.cfg.ResolvePath(rel)
		if !fileExists(path) {
			continue
		}
		dest, err := fm.ArchiveFile(path)
		if err != nil {
			p.logger.Warn("Failed to archive %s: %v", path, err)
			continue
		}
		p.logger.Debug("Archived %s -> %s", path, dest)
		archived = append(archived, dest)
	}
	return archived
}

// fillHolidayFlag defaults a holiday flag column to 0 and normalizes
// present values to integers.
func fillHolidayFlag(t *table.Table, column string) {
	t.MapColumn(column, func(c table.Cell) table.Cell {
		if c.IsMissing() {
			return table.NewInt(0)
		}
		if v, ok := c.Number(); ok {
			return table.NewInt(int64(math.RoundToEven(v)))
		}
		return c
	})
}

// coerceInteger parses one cell as a number and rounds it to the nearest
// integer (ties to even). Unparseable values become missing; the column
// never displays a fractional value.
func coerceInteger(c table.Cell) table.Cell {
	if c.IsMissing() {
		return c
	}
	if v, ok := c.Number(); ok {
		return table.NewInt(int64(math.RoundToEven(v)))
	}
	return table.Missing()
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
