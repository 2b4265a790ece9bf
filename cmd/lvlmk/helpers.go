package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/vdbe/maze-lvl-maker/internal/config"
	"github.com/vdbe/maze-lvl-maker/internal/db"
)

// defaultConfigPath is where lvlmk looks for its config when -c is not given.
const defaultConfigPath = "lvlmk.yaml"

// connectFromConfig loads config (falling back to defaults when the file is
// absent) and opens the level library.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Library)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
