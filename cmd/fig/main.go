// fig - Claude Code settings editor

package main

import (
	"os"

	"github.com/utensils/fig/internal/cli"
	figerrors "github.com/utensils/fig/internal/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !cli.IsExitError(err) {
			figerrors.PrintError(err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
