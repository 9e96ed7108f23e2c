// Package main is the entry point for the obsorg CLI tool.
package main

import (
	"os"

	"github.com/flyswxf/obsidian-ai-organizer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
