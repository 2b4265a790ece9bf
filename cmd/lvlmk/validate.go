package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/level"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <level.json>...",
		Short: "Validate level files",
		Long:  "Checks each level file against the playability rules: axis-aligned ordered walls, no duplicates, start/end/checkpoints off walls and distinct.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0

	for _, path := range args {
		lvl, err := level.Load(path)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			invalid++
			continue
		}
		if err := lvl.Validate(); err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			invalid++
			continue
		}
		w, h := lvl.Bounds()
		fmt.Fprintf(out, "OK   %s (%dx%d, %d walls, %d checkpoints)\n",
			path, w, h, len(lvl.Walls), len(lvl.Checkpoints))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d level(s) invalid", invalid, len(args))
	}
	return nil
}
