// Command depgraph scores, orders and propagates impulses through a
// dependency graph read from a YAML, CUE or HCL definition.
package main

import (
	"fmt"
	"os"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
