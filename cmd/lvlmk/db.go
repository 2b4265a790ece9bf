package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vdbe/maze-lvl-maker/internal/config"
	"github.com/vdbe/maze-lvl-maker/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Level library management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the level library",
		Long:  "Creates the library database and migrates all tables. The sqlite driver needs no running server; mysql is created through the admin connection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Library.Driver == "mysql" {
		adminDB, err := db.ConnectAdmin(cfg.Library.Host, cfg.Library.Port)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Connected to %s:%d\n", cfg.Library.Host, cfg.Library.Port)

		if err := db.CreateDatabase(adminDB, cfg.Library.Database); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s ready\n", cfg.Library.Database)
	}

	gormDB, err := db.Connect(cfg.Library)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	fmt.Fprintln(out, "Level library initialized.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the level library",
		Long:  "Drops the library (deletes the sqlite file, or drops the mysql database) and re-creates the empty schema. All stored levels are lost.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to lvlmk config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	target := cfg.Library.Path
	if cfg.Library.Driver == "mysql" {
		target = cfg.Library.Database
	}

	if !skipConfirm {
		if !confirmReset(cmd, target) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	switch cfg.Library.Driver {
	case "sqlite":
		if err := os.Remove(cfg.Library.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", cfg.Library.Path, err)
		}
		fmt.Fprintf(out, "Removed %s\n", cfg.Library.Path)
	case "mysql":
		adminDB, err := db.ConnectAdmin(cfg.Library.Host, cfg.Library.Port)
		if err != nil {
			return err
		}
		if err := db.DropDatabase(adminDB, cfg.Library.Database); err != nil {
			return err
		}
		fmt.Fprintf(out, "Dropped database %s\n", cfg.Library.Database)
		if err := db.CreateDatabase(adminDB, cfg.Library.Database); err != nil {
			return err
		}
	}

	gormDB, err := db.Connect(cfg.Library)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	fmt.Fprintln(out, "Level library reset.")
	return nil
}

func confirmReset(cmd *cobra.Command, target string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintf(out, "WARNING: This will permanently delete all levels in %q.\n", target)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}
