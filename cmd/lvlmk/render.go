package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/level"
	"github.com/vdbe/maze-lvl-maker/internal/render"
)

func newRenderCmd() *cobra.Command {
	var (
		input  string
		output string
		scale  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render level JSON back into a maze PNG",
		Long:  "Draws a level file as a maze image, the inverse of convert. At scale 1 the output scans back to the identical level.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, input, output, scale)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "level JSON file to render (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default: input with .png extension)")
	cmd.Flags().IntVar(&scale, "scale", 1, "pixels per tile")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runRender(cmd *cobra.Command, input, output string, scale int) error {
	if scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", scale)
	}

	lvl, err := level.Load(input)
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".png"
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := render.PNG(f, lvl, scale); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	w, h := lvl.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s to %s (%dx%d at scale %d)\n", input, output, w, h, scale)
	return nil
}
