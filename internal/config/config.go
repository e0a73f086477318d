// =============================================================================
// Sales Data Merge - Configuration Module
// =============================================================================
//
// Loads the single YAML configuration file that drives a merge run. Every
// setting has a default matching the standard repository layout, so the tool
// runs with no configuration file at all: a missing file simply yields the
// defaults, while an unreadable or malformed file is an error.
//
// CONFIGURED CONCERNS:
//   - Source file locations (sales, weather, event days, optional
//     continuation sales and holiday calendars), resolved against root_dir
//   - The analysis output directory and output file name
//   - Column heuristics: date-column candidates, the ordered canonical
//     sales-column keyword mapping, the public-holiday indicator column
//   - Finalization: integer-coerced columns, preferred column order,
//     missing-value token
//   - Archival of processed inputs
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ColumnKeywords maps one canonical sales column to the keyword substrings
// that identify it in a source header. Mappings are evaluated in slice
// order, and within one mapping the first column (in column order) whose
// lower-cased name contains any keyword wins.
type ColumnKeywords struct {
	// Canonical is the column name the match is renamed to.
	Canonical string `yaml:"canonical"`

	// Keywords are the case-insensitive substrings that identify the column.
	Keywords []string `yaml:"keywords"`
}

// Config holds the full configuration for a merge run.
type Config struct {
	// =========================================================================
	// LOCATIONS
	// =========================================================================

	// RootDir anchors every relative source path. Default: ".".
	RootDir string `yaml:"root_dir"`

	// AnalysisDir receives the merged output (and error logs). It is created
	// when absent. Default: "./analysis".
	AnalysisDir string `yaml:"analysis_dir"`

	// OutputFile is the merged CSV file name inside AnalysisDir.
	OutputFile string `yaml:"output_file"`

	// SalesFile is the primary revenue-by-date-and-category table. Required.
	SalesFile string `yaml:"sales_file"`

	// WeatherFile is the daily weather observation table. Required.
	WeatherFile string `yaml:"weather_file"`

	// EventFile is the event-day indicator table. Required.
	EventFile string `yaml:"event_file"`

	// ContinuationFile is an optional second sales table appended to the
	// primary one before merging. Skipped when the file does not exist.
	ContinuationFile string `yaml:"continuation_file"`

	// SchoolHolidayFile is an optional school-holiday calendar; every row
	// present marks its date as a holiday. Skipped when absent.
	SchoolHolidayFile string `yaml:"school_holiday_file"`

	// PublicHolidayFile is an optional public-holiday calendar carrying a
	// 0/1 indicator column. Skipped when absent.
	PublicHolidayFile string `yaml:"public_holiday_file"`

	// =========================================================================
	// COLUMN HEURISTICS
	// =========================================================================

	// DateColumnCandidates are the names accepted as a date column,
	// matched case-insensitively and exactly.
	DateColumnCandidates []string `yaml:"date_column_candidates"`

	// SalesColumnKeywords is the ordered canonical-name -> keyword mapping
	// used to standardize the sales table.
	SalesColumnKeywords []ColumnKeywords `yaml:"sales_column_keywords"`

	// PublicHolidaySourceColumn is the indicator column in the
	// public-holiday table that is renamed to "public_holiday".
	PublicHolidaySourceColumn string `yaml:"public_holiday_source_column"`

	// =========================================================================
	// FINALIZATION
	// =========================================================================

	// IntegerColumns are coerced to integer-or-missing after the merge
	// (parse numeric, round to nearest, never fractional display).
	IntegerColumns []string `yaml:"integer_columns"`

	// PreferredColumnOrder is the fixed column prefix of the output; any
	// remaining columns follow in their existing order.
	PreferredColumnOrder []string `yaml:"preferred_column_order"`

	// MissingToken is the literal written for missing cells. Default: "NaN".
	MissingToken string `yaml:"missing_token"`

	// =========================================================================
	// ARCHIVAL
	// =========================================================================

	// ArchiveInputs moves the source files into ArchiveDir after a
	// successful run. Default: false.
	ArchiveInputs bool `yaml:"archive_inputs"`

	// ArchiveDir receives archived inputs. Default: "./input_archive".
	ArchiveDir string `yaml:"archive_dir"`
}

// Load reads the configuration file at path. A nonexistent file is not an
// error: the defaults describe a complete run.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults fills every unset option.
func applyDefaults(cfg *Config) {
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	if cfg.AnalysisDir == "" {
		cfg.AnalysisDir = "./analysis"
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "merged_data_updated.csv"
	}
	if cfg.SalesFile == "" {
		cfg.SalesFile = "umsatzdaten_gekuerzt.csv"
	}
	if cfg.WeatherFile == "" {
		cfg.WeatherFile = "wetter.csv"
	}
	if cfg.EventFile == "" {
		cfg.EventFile = "kiwo.csv"
	}
	if cfg.ContinuationFile == "" {
		cfg.ContinuationFile = filepath.Join("analysis", "test.csv")
	}
	if cfg.SchoolHolidayFile == "" {
		cfg.SchoolHolidayFile = "Ferien_SH.csv"
	}
	if cfg.PublicHolidayFile == "" {
		cfg.PublicHolidayFile = "Feiertage_holidays_sh_2013_2019.csv"
	}
	if len(cfg.DateColumnCandidates) == 0 {
		cfg.DateColumnCandidates = []string{"date", "datum"}
	}
	if len(cfg.SalesColumnKeywords) == 0 {
		// Evaluation order matters: "id" must resolve before "umsatz" so a
		// column matching both keywords is never renamed twice.
		cfg.SalesColumnKeywords = []ColumnKeywords{
			{Canonical: "id", Keywords: []string{"id"}},
			{Canonical: "warengruppe", Keywords: []string{"wareng", "warengruppe"}},
			{Canonical: "umsatz", Keywords: []string{"umsatz"}},
		}
	}
	if cfg.PublicHolidaySourceColumn == "" {
		cfg.PublicHolidaySourceColumn = "is_holiday"
	}
	if len(cfg.IntegerColumns) == 0 {
		cfg.IntegerColumns = []string{"Bewoelkung", "Windgeschwindigkeit", "KielerWoche"}
	}
	if len(cfg.PreferredColumnOrder) == 0 {
		cfg.PreferredColumnOrder = []string{
			"date", "warengruppe", "id", "umsatz",
			"Bewoelkung", "Temperatur", "Windgeschwindigkeit", "Wettercode",
			"KielerWoche", "school_holiday", "public_holiday",
		}
	}
	if cfg.MissingToken == "" {
		cfg.MissingToken = "NaN"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./input_archive"
	}
}

// validate rejects configurations the pipeline cannot run with.
func validate(cfg *Config) error {
	if cfg.SalesFile == cfg.OutputFile {
		return fmt.Errorf("sales_file and output_file must differ")
	}
	for _, m := range cfg.SalesColumnKeywords {
		if m.Canonical == "" {
			return fmt.Errorf("sales_column_keywords entry has no canonical name")
		}
		if len(m.Keywords) == 0 {
			return fmt.Errorf("sales_column_keywords entry %q has no keywords", m.Canonical)
		}
	}
	return nil
}

// ResolvePath anchors a relative source path at RootDir. Absolute paths are
// returned unchanged.
func (cfg *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.RootDir, path)
}

// OutputPath returns the full path of the merged CSV.
func (cfg *Config) OutputPath() string {
	return filepath.Join(cfg.AnalysisDir, cfg.OutputFile)
}
