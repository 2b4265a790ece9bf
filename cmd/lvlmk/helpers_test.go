package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a-much-longer-level-name", 10, "a-much-..."},
		{"", 5, ""},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
		if len(got) > tt.maxLen {
			t.Errorf("truncate(%q, %d) returned %d chars", tt.input, tt.maxLen, len(got))
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(new(bytes.Buffer)) {
		t.Error("bytes.Buffer should not be a terminal")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("regular file should not be a terminal")
	}
}

func TestConnectFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _ := writeLibraryConfig(t, dir)

	cfg, gormDB, err := connectFromConfig(cfgPath)
	if err != nil {
		t.Fatalf("connectFromConfig: %v", err)
	}
	if cfg.Library.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Library.Driver)
	}
	if gormDB == nil {
		t.Fatal("expected a database handle")
	}
}

func TestConnectFromConfig_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lvlmk.yaml")
	if err := writeTestFile(cfgPath, "library:\n  driver: oracle\n"); err != nil {
		t.Fatal(err)
	}

	_, _, err := connectFromConfig(cfgPath)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}
