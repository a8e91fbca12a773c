// Package main is the entry point for the emperfect CLI.
package main

import (
	"os"

	"github.com/emperfect/emperfect/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
