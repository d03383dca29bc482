// Package main provides the CLI entry point for SQLWeave.
package main

import (
	"os"

	"github.com/sqlweave-labs/sqlweave/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
