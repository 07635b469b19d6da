package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/njchilds90/gometric/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
