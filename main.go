package main

import (
	"forceu8exe/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// forceu8exe makes Windows executables run with UTF-8 as their active code page:
//   - Generates an application manifest declaring <activeCodePage>UTF-8</activeCodePage>
//   - Probes the target with `mt -validate_manifest` to learn whether a manifest resource exists
//   - Runs mt again with -updateresource or -outputresource to merge or embed the manifest
//
// Any failure is printed to standard error and the process exits with status 1.
func main() {
	cmd.Execute()
}
