// =============================================================================
// Workbank Normalizer - Main Entry Point
// =============================================================================
//
// USAGE:
//   workbank process   - Normalize the files in the input directory
//   workbank serve     - Start the HTTP upload server
//   workbank systems   - List the supported partner systems
//   workbank version   - Display the application version
//
// LAYOUT:
//   cmd/       : CLI commands (Cobra)
//   internal/  : Header resolution, normalizers, rule sets and the pipeline
//   pkg/utils  : File discovery, archival and run logs
//   configs/   : Per-system YAML configurations
//
// =============================================================================

package main

import "github.com/ginjaninja78/workbank-normalizer/cmd"

func main() {
	cmd.Execute()
}
