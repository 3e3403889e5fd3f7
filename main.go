package main

import (
	"os"

	"github.com/fepegar/dcm2niiw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
