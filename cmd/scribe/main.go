package main

import (
	"os"

	"github.com/scribe-cli/scribe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
