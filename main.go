// =============================================================================
// Sales Data Merge - Main Entry Point
// =============================================================================
//
// Initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   salesmerge merge      - Run the full merge pipeline
//   salesmerge validate   - Check the source files without merging
//   salesmerge version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core pipeline logic (not for external import)
//   - pkg/       : shared utilities
//
// =============================================================================

package main

import (
	"salesmerge/cmd"
)

func main() {
	cmd.Execute()
}
