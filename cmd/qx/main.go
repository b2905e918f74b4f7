// Command qx compiles, simulates and records quantum circuits.
package main

import (
	"fmt"
	"os"

	"github.com/richarc/qx-sub001/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands render their own failures in the selected format
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
