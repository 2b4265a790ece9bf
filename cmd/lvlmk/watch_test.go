package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestWatchCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"watch", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("watch --help failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"scheduled sweeps", "--schedule", "--now", "--config"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q, got: %s", want, out)
		}
	}
}

func TestWatchCmd_NoDirs(t *testing.T) {
	dir := t.TempDir()
	cfgPath, dbPath := writeLibraryConfig(t, dir)
	openLibrary(t, dbPath)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"watch", "-c", cfgPath})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when no watch dirs are configured")
	}
	if !strings.Contains(err.Error(), "no watch dirs") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "no watch dirs")
	}
}

func TestWatchCmd_BadSchedule(t *testing.T) {
	dir := t.TempDir()
	cfgPath, dbPath := writeLibraryConfig(t, dir)
	openLibrary(t, dbPath)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"watch", "-c", cfgPath, "--schedule", "not a cron", dir})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if !strings.Contains(err.Error(), `parse schedule "not a cron"`) {
		t.Errorf("error = %q, want schedule parse failure", err.Error())
	}
}

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd()

	tests := []struct {
		name, defValue, shorthand string
	}{
		{"config", "lvlmk.yaml", "c"},
		{"schedule", "", ""},
		{"now", "false", ""},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Fatalf("expected --%s flag", tt.name)
		}
		if flag.DefValue != tt.defValue {
			t.Errorf("--%s default = %q, want %q", tt.name, flag.DefValue, tt.defValue)
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
		}
	}
}
