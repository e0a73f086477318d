// =============================================================================
// Sales Data Merge - Input Validation
// =============================================================================
//
// Pre-flight checks over the configured source files, run standalone by the
// 'validate' command and as the first stage of 'merge'. Checks:
//
//   - Required sources (sales, weather, event days) exist and are readable
//   - Every readable source has a recognizable date column
//   - Auxiliary tables carry at most one row per date; a duplicate would
//     be silently collapsed to its first row during the merge, so it is
//     surfaced as a warning
//
// Severity "error" aborts a merge run; "warning" does not.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"os"

	"salesmerge/internal/config"
	"salesmerge/internal/loader"
	"salesmerge/internal/sales"
	"salesmerge/internal/table"
)

// Severity levels for check results.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// CheckError is one validation finding.
type CheckError struct {
	// Severity is "error" (fatal for a merge run) or "warning".
	Severity string

	// File is the source file the finding concerns.
	File string

	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.File, e.Message)
}

// Result aggregates the findings of one validation pass.
type Result struct {
	// Findings lists every error and warning, in source order.
	Findings []*CheckError

	// ErrorCount is the number of error-severity findings.
	ErrorCount int

	// WarningCount is the number of warning-severity findings.
	WarningCount int
}

// OK reports whether a merge run may proceed.
func (r *Result) OK() bool {
	return r.ErrorCount == 0
}

// add records one finding.
func (r *Result) add(severity, file, message string) {
	r.Findings = append(r.Findings, &CheckError{Severity: severity, File: file, Message: message})
	if severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// CheckSources validates every configured source file.
func CheckSources(cfg *config.Config) *Result {
	result := &Result{}

	type source struct {
		path      string
		required  bool
		auxiliary bool
	}
	sources := []source{
		{path: cfg.SalesFile, required: true},
		{path: cfg.WeatherFile, required: true, auxiliary: true},
		{path: cfg.EventFile, required: true, auxiliary: true},
		{path: cfg.ContinuationFile},
		{path: cfg.SchoolHolidayFile, auxiliary: true},
		{path: cfg.PublicHolidayFile, auxiliary: true},
	}

	for _, src := range sources {
		checkSource(cfg, src.path, src.required, src.auxiliary, result)
	}
	return result
}

// checkSource validates one source file.
func checkSource(cfg *config.Config, relPath string, required, auxiliary bool, result *Result) {
	path := cfg.ResolvePath(relPath)

	if _, err := os.Stat(path); err != nil {
		if required {
			result.add(SeverityError, relPath, "required file not found")
		}
		return
	}

	t, err := loader.Load(path, cfg.DateColumnCandidates)
	if err != nil {
		if errors.Is(err, loader.ErrNoDateColumn) {
			result.add(SeverityError, relPath, "no recognizable date column")
		} else {
			result.add(SeverityError, relPath, fmt.Sprintf("unreadable: %v", err))
		}
		return
	}

	if auxiliary {
		checkOneRowPerDate(t, relPath, result)
	}
}

// checkOneRowPerDate warns when an auxiliary table carries more than one
// row for the same date. Only the first such row would survive the merge.
func checkOneRowPerDate(t *table.Table, relPath string, result *Result) {
	seen := make(map[string]bool, t.RowCount())
	duplicates := 0
	for _, c := range t.Column(sales.ColumnDate) {
		if c.IsMissing() {
			continue
		}
		key := c.String()
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	if duplicates > 0 {
		result.add(SeverityWarning, relPath,
			fmt.Sprintf("%d duplicate date(s); only the first row per date is merged", duplicates))
	}
}
