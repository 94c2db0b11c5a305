// Package main is the entry point for the Flashi CLI.
package main

import (
	"os"

	"github.com/chaichat/flashi/cmd/flashi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
