// Command dlsimcli is the textual driver over package dlsim: the
// equivalent of the original implementation's main.py/main_par.py/
// quick_test.py hard-coded drivers, generalized into a YAML-scenario
// runner over every protocol.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dlsimcli: %s\n", err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "dlsimcli",
		Short:        "Run data-link layer protocol simulations",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCommand())
	return root
}
