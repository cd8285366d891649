package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags "-X github.com/abhisek/quizvox/cmd.version=...".
var version = ""

// resolveVersion falls back to the module version recorded by
// `go install`, then to "(devel)".
func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quizvox version and build platform",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quizvox %s (%s, %s/%s)\n",
			resolveVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
