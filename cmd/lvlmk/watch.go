package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/announce"
	"github.com/vdbe/maze-lvl-maker/internal/announce/discord"
	"github.com/vdbe/maze-lvl-maker/internal/announce/slack"
	"github.com/vdbe/maze-lvl-maker/internal/config"
	ilog "github.com/vdbe/maze-lvl-maker/internal/log"
	"github.com/vdbe/maze-lvl-maker/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		schedule   string
		now        bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]...",
		Short: "Sweep maze directories on a schedule",
		Long:  "Runs scheduled sweeps over the watch dirs, ingesting new maze images as they appear. Directory arguments override watch.dirs from config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchDaemon(cmd, configPath, schedule, now, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule override (5-field)")
	cmd.Flags().BoolVar(&now, "now", false, "run one sweep immediately on start")
	return cmd
}

func runWatchDaemon(cmd *cobra.Command, configPath, schedule string, now bool, dirs []string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if len(dirs) == 0 {
		dirs = cfg.Watch.Dirs
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no watch dirs: set watch.dirs in %s or pass directories", configPath)
	}
	if schedule == "" {
		schedule = cfg.Watch.Schedule
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ilog.NewContext(ctx, "lvlmk")

	var announcer announce.Announcer
	if cfg.Watch.Announce {
		announcer = buildAnnouncer(ctx, cfg, cmd.OutOrStdout())
	}

	w, err := watch.New(watch.Opts{
		DB:        gormDB,
		Dirs:      dirs,
		Schedule:  schedule,
		Announcer: announcer,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s on schedule %q... (Ctrl+C to stop)\n", strings.Join(dirs, ", "), schedule)

	if now {
		if _, err := w.Sweep(ctx); err != nil {
			fmt.Fprintf(out, "initial sweep: %v\n", err)
		}
	}

	return w.Run(ctx)
}

// buildAnnouncer assembles the announcers the config and environment allow.
// Missing tokens disable a channel with a notice rather than failing the
// daemon.
func buildAnnouncer(ctx context.Context, cfg *config.Config, out io.Writer) announce.Announcer {
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		fmt.Fprintf(out, "Announcements disabled: %v\n", err)
		return nil
	}

	var multi announce.Multi

	if ch := cfg.Announce.Discord.Channel; ch != "" {
		if secrets.DiscordToken == "" {
			fmt.Fprintln(out, "Discord announce configured but LVLMK_DISCORD_TOKEN is not set")
		} else {
			a, err := discord.New(discord.Opts{BotToken: secrets.DiscordToken, ChannelID: ch})
			if err != nil {
				fmt.Fprintf(out, "Discord announcer: %v\n", err)
			} else {
				multi = append(multi, a)
			}
		}
	}

	if ch := cfg.Announce.Slack.Channel; ch != "" {
		if secrets.SlackToken == "" {
			fmt.Fprintln(out, "Slack announce configured but LVLMK_SLACK_TOKEN is not set")
		} else {
			a, err := slack.New(slack.Opts{BotToken: secrets.SlackToken, Channel: ch})
			if err != nil {
				fmt.Fprintf(out, "Slack announcer: %v\n", err)
			} else {
				multi = append(multi, a)
			}
		}
	}

	if len(multi) == 0 {
		return nil
	}
	return multi
}
