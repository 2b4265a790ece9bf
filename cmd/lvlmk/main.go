package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lvlmk",
		Short: "Maze images in, game levels out",
		Long:  "lvlmk converts maze bitmaps into level JSON, keeps a level library, and serves it to game clients.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newLevelsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newDoctorCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lvlmk %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
