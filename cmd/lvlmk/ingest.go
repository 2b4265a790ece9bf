package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ilog "github.com/vdbe/maze-lvl-maker/internal/log"
	"github.com/vdbe/maze-lvl-maker/internal/watch"
)

func newIngestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ingest <dir>...",
		Short: "Sweep directories of maze images into the library",
		Long:  "Scans every maze image under the given directories and stores the levels. Images whose level is already in the library are skipped.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	return cmd
}

func runIngest(cmd *cobra.Command, configPath string, dirs []string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Opts{DB: gormDB, Dirs: dirs})
	if err != nil {
		return err
	}

	ctx := ilog.NewContext(cmd.Context(), "lvlmk")
	runs, err := w.Sweep(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var found, ingested, skipped, failed int
	for _, run := range runs {
		fmt.Fprintf(out, "%s: %d found, %d ingested, %d skipped, %d failed\n",
			run.Dir, run.Found, run.Ingested, run.Skipped, run.Failed)
		found += run.Found
		ingested += run.Ingested
		skipped += run.Skipped
		failed += run.Failed
	}
	if len(runs) > 1 {
		fmt.Fprintf(out, "Total: %d found, %d ingested, %d skipped, %d failed\n",
			found, ingested, skipped, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d image(s) failed to ingest", failed)
	}
	return nil
}
