package main

import (
	"os"

	"github.com/verdictlab/verdict/cmd/verdict/commands"
)

// main is the entry point for the Verdict CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
