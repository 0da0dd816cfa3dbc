// Package main is the single-binary entrypoint for Stride.
// One binary, one SQLite file, no accounts.
package main

import "github.com/stride-coach/stride/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
