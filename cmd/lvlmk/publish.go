package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/config"
	"github.com/vdbe/maze-lvl-maker/internal/library"
	"github.com/vdbe/maze-lvl-maker/internal/publish"
)

func newPublishCmd() *cobra.Command {
	var (
		configPath string
		tag        string
		output     string
		packOnly   bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a level pack as a GitHub release",
		Long:  "Zips unpublished levels into a pack, creates (or reuses) the GitHub release for the tag, uploads the pack asset, and marks the levels published.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, configPath, tag, output, packOnly, all)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().StringVar(&tag, "tag", "", "release tag (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "pack file path (default: levels-<tag>.zip)")
	cmd.Flags().BoolVar(&packOnly, "pack-only", false, "write the pack file without creating a release")
	cmd.Flags().BoolVar(&all, "all", false, "include already-published levels")
	cmd.MarkFlagRequired("tag")
	return cmd
}

func runPublish(cmd *cobra.Command, configPath, tag, output string, packOnly, all bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	filters := library.ListFilters{}
	if !all {
		unpublished := false
		filters.Published = &unpublished
	}
	levels, err := library.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(levels) == 0 {
		fmt.Fprintln(out, "No levels to publish.")
		return nil
	}

	if output == "" {
		output = fmt.Sprintf("levels-%s.zip", tag)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	manifest, err := publish.WritePack(f, tag, levels)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	fmt.Fprintf(out, "Packed %d level(s) into %s\n", manifest.Count, output)

	if packOnly {
		return nil
	}

	ctx := cmd.Context()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return err
	}

	pub, err := publish.New(ctx, publish.Opts{
		Owner: cfg.Publish.Owner,
		Repo:  cfg.Publish.Repo,
		Token: secrets.GitHubToken,
	})
	if err != nil {
		return err
	}

	url, err := pub.Release(ctx, tag, output)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Release %s: %s\n", tag, url)

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	if err := library.MarkPublished(gormDB, ids, tag); err != nil {
		return err
	}
	fmt.Fprintf(out, "Marked %d level(s) published with tag %s\n", len(ids), tag)
	return nil
}
