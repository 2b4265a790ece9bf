package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/config"
	"github.com/vdbe/maze-lvl-maker/internal/db"
	"github.com/vdbe/maze-lvl-maker/internal/watch"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and library health",
		Long:  "Runs diagnostic checks on the lvlmk setup: config, library connection, schema, watch schedule and dirs, and announce/publish tokens.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	return cmd
}

type checkResult struct {
	name   string
	status string // "PASS", "FAIL", "WARN"
	detail string
}

func runDoctor(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "lvlmk Doctor")
	fmt.Fprintln(out, "============")

	var results []checkResult

	// 1. Config
	cfg, cfgResult := checkConfig(configPath)
	results = append(results, cfgResult)

	// 2. Library
	if cfg != nil {
		results = append(results, checkLibrary(cfg))
	} else {
		results = append(results, checkResult{"Library", "FAIL", "skipped (no config)"})
	}

	// 3. Schema
	if cfg != nil {
		results = append(results, checkSchema(cfg))
	} else {
		results = append(results, checkResult{"Schema", "FAIL", "skipped (no config)"})
	}

	// 4. Watch schedule
	if cfg != nil {
		results = append(results, checkSchedule(cfg))
	} else {
		results = append(results, checkResult{"Watch schedule", "FAIL", "skipped (no config)"})
	}

	// 5. Watch dirs
	if cfg != nil {
		results = append(results, checkWatchDirs(cfg)...)
	}

	// 6. Announce and publish tokens
	if cfg != nil {
		results = append(results, checkTokens(cmd.Context(), cfg)...)
	}

	// Print results.
	passed, failed, warned := 0, 0, 0
	for _, r := range results {
		printCheckResult(out, r)
		switch r.status {
		case "PASS":
			passed++
		case "FAIL":
			failed++
		case "WARN":
			warned++
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed, %d warning\n", passed, failed, warned)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func printCheckResult(out io.Writer, r checkResult) {
	fmt.Fprintf(out, "[%s] %s: %s\n", r.status, r.name, r.detail)
}

func checkConfig(path string) (*config.Config, checkResult) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), checkResult{"Config file", "WARN", fmt.Sprintf("%s not found, using defaults", path)}
	}
	if err != nil {
		return nil, checkResult{"Config file", "FAIL", fmt.Sprintf("%s: %v", path, err)}
	}
	return cfg, checkResult{"Config file", "PASS", path}
}

func checkLibrary(cfg *config.Config) checkResult {
	// Connecting to a missing sqlite file would create it as a side effect.
	if cfg.Library.Driver == "sqlite" {
		if _, err := os.Stat(cfg.Library.Path); err != nil {
			return checkResult{"Library", "FAIL", fmt.Sprintf("%s missing (run \"lvlmk db init\")", cfg.Library.Path)}
		}
	}

	gormDB, err := db.Connect(cfg.Library)
	if err != nil {
		return checkResult{"Library", "FAIL", err.Error()}
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return checkResult{"Library", "FAIL", fmt.Sprintf("get sql.DB: %v", err)}
	}
	if err := sqlDB.Ping(); err != nil {
		return checkResult{"Library", "FAIL", fmt.Sprintf("ping failed: %v", err)}
	}

	if cfg.Library.Driver == "sqlite" {
		return checkResult{"Library", "PASS", cfg.Library.Path}
	}
	return checkResult{"Library", "PASS", fmt.Sprintf("%s:%d/%s reachable", cfg.Library.Host, cfg.Library.Port, cfg.Library.Database)}
}

func checkSchema(cfg *config.Config) checkResult {
	if cfg.Library.Driver == "sqlite" {
		if _, err := os.Stat(cfg.Library.Path); err != nil {
			return checkResult{"Schema", "WARN", "skipped (library not initialized)"}
		}
	}

	gormDB, err := db.Connect(cfg.Library)
	if err != nil {
		return checkResult{"Schema", "FAIL", fmt.Sprintf("connect: %v", err)}
	}

	all := db.AllModels()
	migrated := 0
	for _, m := range all {
		if gormDB.Migrator().HasTable(m) {
			migrated++
		}
	}
	if migrated == len(all) {
		return checkResult{"Schema", "PASS", fmt.Sprintf("%d/%d tables migrated", migrated, len(all))}
	}
	return checkResult{"Schema", "WARN", fmt.Sprintf("%d/%d tables migrated (run \"lvlmk db init\")", migrated, len(all))}
}

func checkSchedule(cfg *config.Config) checkResult {
	if err := watch.ValidateSchedule(cfg.Watch.Schedule); err != nil {
		return checkResult{"Watch schedule", "FAIL", err.Error()}
	}
	return checkResult{"Watch schedule", "PASS", cfg.Watch.Schedule}
}

func checkWatchDirs(cfg *config.Config) []checkResult {
	if len(cfg.Watch.Dirs) == 0 {
		return []checkResult{{"Watch dirs", "WARN", "none configured"}}
	}

	var results []checkResult
	for _, dir := range cfg.Watch.Dirs {
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			results = append(results, checkResult{"Watch dir", "WARN", fmt.Sprintf("%s does not exist", dir)})
		case !info.IsDir():
			results = append(results, checkResult{"Watch dir", "FAIL", fmt.Sprintf("%s is not a directory", dir)})
		default:
			results = append(results, checkResult{"Watch dir", "PASS", dir})
		}
	}
	return results
}

func checkTokens(ctx context.Context, cfg *config.Config) []checkResult {
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return []checkResult{{"Secrets", "FAIL", err.Error()}}
	}

	var results []checkResult
	if cfg.Announce.Discord.Channel != "" {
		if secrets.DiscordToken != "" {
			results = append(results, checkResult{"Discord token", "PASS", "LVLMK_DISCORD_TOKEN set"})
		} else {
			results = append(results, checkResult{"Discord token", "WARN", "announce.discord configured but LVLMK_DISCORD_TOKEN is not set"})
		}
	}
	if cfg.Announce.Slack.Channel != "" {
		if secrets.SlackToken != "" {
			results = append(results, checkResult{"Slack token", "PASS", "LVLMK_SLACK_TOKEN set"})
		} else {
			results = append(results, checkResult{"Slack token", "WARN", "announce.slack configured but LVLMK_SLACK_TOKEN is not set"})
		}
	}
	if cfg.Publish.Owner != "" {
		if secrets.GitHubToken != "" {
			results = append(results, checkResult{"GitHub token", "PASS", "LVLMK_GITHUB_TOKEN set"})
		} else {
			results = append(results, checkResult{"GitHub token", "WARN", "publish configured but LVLMK_GITHUB_TOKEN is not set"})
		}
	}
	return results
}
