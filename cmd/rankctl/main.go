package main

import (
	"os"

	"github.com/fatih/color"
)

var errColor = color.New(color.FgRed, color.Bold)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errColor.Fprintln(os.Stderr, "rankctl:", err)
		os.Exit(1)
	}
}
