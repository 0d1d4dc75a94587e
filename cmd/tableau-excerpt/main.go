// Package main is the entry point for the tableau-excerpt CLI.
package main

import (
	"os"

	"github.com/halostatue/tableau-excerpt-extension/cmd/tableau-excerpt/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
