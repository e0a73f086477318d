// =============================================================================
// Sales Data Merge - Merge Command
// =============================================================================
//
// Defines the 'merge' command, which runs the full data-preparation
// pipeline.
//
// COMMAND USAGE:
//   salesmerge merge [flags]
//
// FLAGS:
//   --output  : Override the output file path
//   --no-validate : Skip the pre-flight source validation
//
// PIPELINE:
//   1. Load configuration
//   2. Validate the source files (unless --no-validate)
//   3. Load, standardize, merge and finalize the tables
//   4. Write the merged CSV and print the run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"salesmerge/internal/config"
	"salesmerge/internal/pipeline"
	"salesmerge/internal/validation"
	"salesmerge/pkg/utils"

	"github.com/spf13/cobra"
)

// outputOverride replaces the configured output path when non-empty.
var outputOverride string

// noValidate skips the pre-flight source validation.
var noValidate bool

// mergeCmd represents the 'merge' command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the sales, weather, event and holiday tables into one CSV",
	Long: `The merge command reads the configured source files, standardizes the sales
table to the canonical {date, id, warengruppe, umsatz} schema, appends the
continuation file when present, left-joins weather, event-day and holiday
tables on the date key, and writes the merged CSV into the analysis
directory.

Every sales row survives the merge: auxiliary tables only contribute
columns, never rows. Cells that cannot be parsed become missing values and
are written out as the configured missing token.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge()
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(
		&outputOverride,
		"output",
		"",
		"Override the output file path",
	)

	mergeCmd.Flags().BoolVar(
		&noValidate,
		"no-validate",
		false,
		"Skip the pre-flight source validation",
	)
}

// runMerge orchestrates one merge run.
func runMerge() error {
	fmt.Println("=== Sales Data Merge ===")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputOverride != "" {
		cfg.AnalysisDir = filepath.Dir(outputOverride)
		cfg.OutputFile = filepath.Base(outputOverride)
	}

	if !noValidate {
		result := validation.CheckSources(cfg)
		for _, finding := range result.Findings {
			fmt.Println(" ", finding.Error())
		}
		if !result.OK() {
			return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
		}
	}

	logger := pipeline.NewStdLogger(verbose)
	result, err := pipeline.New(cfg, logger).Run()
	if err != nil {
		if logPath, logErr := utils.WriteErrorLog(cfg.AnalysisDir, []string{err.Error()}); logErr == nil {
			fmt.Fprintf(os.Stderr, "Error log written to: %s\n", logPath)
		}
		return err
	}

	fmt.Println("\n=== Merge Complete ===")
	for path, rows := range result.SourceRows {
		fmt.Printf("  %-40s %d rows\n", path, rows)
	}
	fmt.Printf("Sales rows merged:  %d\n", result.SalesRows)
	fmt.Printf("Output rows:        %d\n", result.OutputRows)
	fmt.Printf("Output file:        %s\n", result.OutputPath)
	if len(result.Archived) > 0 {
		fmt.Printf("Archived inputs:    %d\n", len(result.Archived))
	}
	fmt.Printf("Time elapsed:       %s\n", result.Elapsed)
	return nil
}
