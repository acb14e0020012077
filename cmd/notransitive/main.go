// Package main is the notransitive command.
package main

import (
	"os"

	"github.com/leapstack-labs/notransitive/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
