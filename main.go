package main

import (
	"os"

	"github.com/codalotl/splitdiff/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args, nil))
}
