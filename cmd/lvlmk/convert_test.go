package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vdbe/maze-lvl-maker/internal/level"
	"github.com/vdbe/maze-lvl-maker/internal/scan"
)

// writeMazeImage writes a minimal valid maze PNG to path: wall rows top and
// bottom, a corridor between them with start on the left and end on the
// right.
func writeMazeImage(t *testing.T, path string, width int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, scan.Empty.Color())
		}
	}
	for x := 0; x < width; x++ {
		img.SetRGBA(x, 0, scan.Wall.Color())
		img.SetRGBA(x, 2, scan.Wall.Color())
	}
	img.SetRGBA(0, 1, scan.Start.Color())
	img.SetRGBA(width-1, 1, scan.End.Color())

	writeImage(t, path, img)
}

// writeBlankImage writes an all-empty PNG that scans but fails validation.
func writeBlankImage(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, scan.Empty.Color())
		}
	}
	writeImage(t, path, img)
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestConvertCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	mazePath := filepath.Join(dir, "maze.png")
	writeMazeImage(t, mazePath, 5)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert", "-i", mazePath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	lvl, err := level.Decode(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("output is not level JSON: %v", err)
	}
	w, h := lvl.Bounds()
	if w != 5 || h != 3 {
		t.Errorf("bounds = %dx%d, want 5x3", w, h)
	}
	// Stdout output is pretty-printed.
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("expected indented JSON, got: %s", buf.String())
	}
}

func TestConvertCmd_OutputFile(t *testing.T) {
	dir := t.TempDir()
	mazePath := filepath.Join(dir, "maze.png")
	outPath := filepath.Join(dir, "maze.json")
	writeMazeImage(t, mazePath, 6)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert", "-i", mazePath, "-o", outPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Wrote "+outPath) {
		t.Errorf("expected 'Wrote %s', got: %s", outPath, out)
	}
	if !strings.Contains(out, "(6x3,") {
		t.Errorf("expected size 6x3 in output, got: %s", out)
	}

	lvl, err := level.Load(outPath)
	if err != nil {
		t.Fatalf("load written level: %v", err)
	}
	if err := lvl.Validate(); err != nil {
		t.Errorf("written level should validate: %v", err)
	}
}

func TestConvertCmd_ValidateRejects(t *testing.T) {
	dir := t.TempDir()
	blankPath := filepath.Join(dir, "blank.png")
	writeBlankImage(t, blankPath)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert", "-i", blankPath, "--validate"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "validation failed")
	}
}

func TestConvertCmd_WithoutValidateAccepts(t *testing.T) {
	dir := t.TempDir()
	blankPath := filepath.Join(dir, "blank.png")
	writeBlankImage(t, blankPath)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert", "-i", blankPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("convert without --validate should pass invalid levels through: %v", err)
	}
}

func TestConvertCmd_MissingInput(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert", "-i", filepath.Join(t.TempDir(), "nope.png")})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestConvertCmd_RequiresInputFlag(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when --input is missing")
	}
	if !strings.Contains(err.Error(), "input") {
		t.Errorf("error = %q, want to mention the input flag", err.Error())
	}
}

func TestNewConvertCmd(t *testing.T) {
	cmd := newConvertCmd()
	tests := []struct {
		name, defValue, shorthand string
	}{
		{"input", "", "i"},
		{"output", "", "o"},
		{"validate", "false", ""},
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
