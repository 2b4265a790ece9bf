package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ilog "github.com/vdbe/maze-lvl-maker/internal/log"
	"github.com/vdbe/maze-lvl-maker/internal/scan"
)

func newConvertCmd() *cobra.Command {
	var (
		input    string
		output   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a maze image into level JSON",
		Long:  "Scans a maze bitmap (png, jpeg, gif) and emits the level as JSON: pretty-printed on stdout, compact when written to a file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, input, output, validate)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "maze image to convert (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write level JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&validate, "validate", false, "reject levels that fail validation")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runConvert(cmd *cobra.Command, input, output string, validate bool) error {
	ctx := ilog.NewContext(cmd.Context(), "lvlmk")

	lvl, err := scan.File(ctx, input)
	if err != nil {
		return err
	}
	if validate {
		if err := lvl.Validate(); err != nil {
			return err
		}
	}

	if output == "" {
		return lvl.Encode(cmd.OutOrStdout(), true)
	}

	if err := lvl.WriteFile(output); err != nil {
		return err
	}
	w, h := lvl.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d walls, %d checkpoints)\n",
		output, w, h, len(lvl.Walls), len(lvl.Checkpoints))
	return nil
}
