// =============================================================================
// Sales Data Merge - Root Command
// =============================================================================
//
// Defines the root command for the Cobra CLI. All other commands (merge,
// validate, version) are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesmerge)
//   ├── mergeCmd    (salesmerge merge)
//   ├── validateCmd (salesmerge validate)
//   └── versionCmd  (salesmerge version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the configuration file. Overridden with the
// --config flag; the file is optional and defaults cover a full run.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesmerge",
	Short: "Sales Data Merge - join sales, weather, event and holiday tables into one dated CSV",
	Long: `Sales Data Merge is a batch data-preparation CLI. It reads several tabular
source files (sales records, weather observations, an event-day indicator,
and optional continuation sales and holiday calendars), normalizes their
date columns and sales-related column names, left-joins them on calendar
date, and writes the result as a single merged CSV.

Example Usage:
  salesmerge merge                     # Run the merge with the default layout
  salesmerge merge --config ./my.yaml  # Use a custom configuration file
  salesmerge validate                  # Check the source files without merging`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional, defaults cover a full run)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
