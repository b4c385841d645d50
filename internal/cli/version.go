package cli

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/LeJamon/campuspay/internal/cli.version=...".
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "campuspay version %s\n", version)
		fmt.Fprintf(out, "Git commit: %s\n", gitCommit)
		fmt.Fprintf(out, "Build time: %s\n", buildTime)
		fmt.Fprintf(out, "Go version: %s\n", goruntime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", goruntime.GOOS, goruntime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
