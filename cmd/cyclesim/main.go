// Command cyclesim is the entry point for the cycle-stepped scheduling
// and synchronization simulator.
package main

import (
	"os"

	"github.com/halvard/cyclesim/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
