// Package main provides the taskbin CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/taskbin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
