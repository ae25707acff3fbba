// Command tokloom splits stdin into tokens by a regular-expression
// delimiter (or direct match), applies a configurable chain of
// per-token filters and transforms plus optional stream-level sort/
// unique/reverse/head/tail reductions, and writes the result to stdout
// — or, under --tui, hands it to an interactive selector.
//
// This file is intentionally thin: every decision lives in
// internal/cliapp, the same split buildkite-agent draws between its
// own main.go and clicommand package.
package main

import (
	"os"

	"github.com/tokloom/tokloom/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Main(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
