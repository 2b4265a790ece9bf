package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestServeCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("serve --help failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"JSON API", "--port", "--config"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q, got: %s", want, out)
		}
	}
}

func TestNewServeCmd(t *testing.T) {
	cmd := newServeCmd()
	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want %q", cmd.Use, "serve")
	}

	tests := []struct {
		name, defValue, shorthand string
	}{
		{"config", "lvlmk.yaml", "c"},
		{"port", "0", "p"},
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
