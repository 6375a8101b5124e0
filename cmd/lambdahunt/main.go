// Package main provides the entry point for the lambdahunt CLI tool.
// lambdahunt acquires ephemeral GPU instances from Lambda Cloud, polling
// for capacity until a requested instance type becomes available.
package main

import (
	"github.com/tmeurs/lambdahunt/internal/cli"
)

// Version information set at build time via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Set version information in the CLI package
	cli.SetVersion(version, commit, date)

	// Execute the Cobra CLI
	cli.Execute()
}
