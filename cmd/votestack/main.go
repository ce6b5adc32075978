// Package main provides the votestack CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/votestack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
