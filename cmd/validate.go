// =============================================================================
// Sales Data Merge - Validate Command
// =============================================================================
//
// Defines the 'validate' command, which runs the pre-flight source checks
// without producing any output file.
//
// COMMAND USAGE:
//   salesmerge validate
//
// =============================================================================

package cmd

import (
	"fmt"

	"salesmerge/internal/config"
	"salesmerge/internal/validation"

	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configured source files without merging",
	Long: `The validate command loads the configuration, checks that the required
source files exist and are readable, that every source has a recognizable
date column, and that auxiliary tables carry at most one row per date.
Nothing is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		result := validation.CheckSources(cfg)
		for _, finding := range result.Findings {
			fmt.Println(" ", finding.Error())
		}
		fmt.Printf("Errors: %d, Warnings: %d\n", result.ErrorCount, result.WarningCount)

		if !result.OK() {
			return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
		}
		fmt.Println("All source files are ready to merge.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
