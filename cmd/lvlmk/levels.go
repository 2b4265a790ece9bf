package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/library"
)

const (
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Level library inspection commands",
	}

	cmd.AddCommand(newLevelsListCmd())
	cmd.AddCommand(newLevelsShowCmd())
	cmd.AddCommand(newLevelsExportCmd())
	cmd.AddCommand(newLevelsRmCmd())
	return cmd
}

func newLevelsListCmd() *cobra.Command {
	var (
		configPath string
		name       string
		published  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List levels",
		Long:  "Lists stored levels with optional filters. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := library.ListFilters{Name: name}
			if cmd.Flags().Changed("published") {
				filters.Published = &published
			}
			return runLevelsList(cmd, configPath, filters)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	cmd.Flags().BoolVar(&published, "published", false, "filter by published state (true or false)")
	return cmd
}

func runLevelsList(cmd *cobra.Command, configPath string, filters library.ListFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	levels, err := library.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(levels) == 0 {
		fmt.Fprintln(out, "No levels found.")
		return nil
	}

	color := isTerminal(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tWALLS\tCPS\tCREATED\tTAG")
	for _, lvl := range levels {
		tag := lvl.PublishedTag
		if tag == "" {
			tag = "-"
		} else if color {
			tag = ansiGreen + tag + ansiReset
		}
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%s\t%s\n",
			lvl.ID, truncate(lvl.Name, 40), lvl.Width, lvl.Height,
			lvl.WallCount, lvl.CheckpointCount,
			lvl.CreatedAt.Format("2006-01-02 15:04"), tag)
	}
	w.Flush()
	return nil
}

func newLevelsShowCmd() *cobra.Command {
	var (
		configPath  string
		showPayload bool
	)

	cmd := &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Show level details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevelsShow(cmd, configPath, args[0], showPayload)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().BoolVar(&showPayload, "payload", false, "print the level JSON payload")
	return cmd
}

func runLevelsShow(cmd *cobra.Command, configPath, idOrName string, showPayload bool) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rec, err := library.Get(gormDB, idOrName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", rec.ID)
	fmt.Fprintf(out, "Name:        %s\n", rec.Name)
	if rec.Source != "" {
		fmt.Fprintf(out, "Source:      %s\n", rec.Source)
	}
	fmt.Fprintf(out, "Checksum:    %s\n", rec.Checksum)
	fmt.Fprintf(out, "Size:        %dx%d\n", rec.Width, rec.Height)
	fmt.Fprintf(out, "Walls:       %d\n", rec.WallCount)
	fmt.Fprintf(out, "Checkpoints: %d\n", rec.CheckpointCount)
	if rec.PublishedTag != "" {
		fmt.Fprintf(out, "Published:   %s\n", rec.PublishedTag)
	}
	fmt.Fprintf(out, "Created:     %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:     %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))

	if showPayload {
		lvl, err := library.Data(rec)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		return lvl.Encode(out, true)
	}
	return nil
}

func newLevelsExportCmd() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export <id-or-name>",
		Short: "Export a level to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevelsExport(cmd, configPath, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <name>.json)")
	return cmd
}

func runLevelsExport(cmd *cobra.Command, configPath, idOrName, output string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rec, err := library.Get(gormDB, idOrName)
	if err != nil {
		return err
	}

	if output == "" {
		output = rec.Name + ".json"
	}
	if err := os.WriteFile(output, []byte(rec.Payload), 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", rec.ID, output)
	return nil
}

func newLevelsRmCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "rm <id-or-name>",
		Short: "Remove a level from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevelsRm(cmd, configPath, args[0], yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runLevelsRm(cmd *cobra.Command, configPath, idOrName string, skipConfirm bool) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rec, err := library.Get(gormDB, idOrName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !skipConfirm {
		fmt.Fprintf(out, "This will remove level %s (%q) from the library.\n", rec.ID, rec.Name)
		fmt.Fprint(out, "Type \"yes\" to confirm: ")

		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if _, err := library.Delete(gormDB, rec.ID); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s (%q)\n", rec.ID, rec.Name)
	return nil
}
