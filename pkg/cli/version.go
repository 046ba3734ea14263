package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "lc2kpp v%s\n", Version)
			fmt.Fprintf(w, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(w, "  Build Date: %s\n", BuildDate)
			fmt.Fprintf(w, "  Go Version: %s\n", runtime.Version())
		},
	}
}
