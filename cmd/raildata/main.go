package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/railwayhistory/raildata/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Findings already went to stdout; only surface unexpected errors.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
