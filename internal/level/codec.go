package level

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Encode writes the level as JSON. Pretty output is indented for human
// reading; otherwise the encoding is compact. Nil slices are written as
// empty arrays so the wire format is stable.
func (l *Level) Encode(w io.Writer, pretty bool) error {
	out := *l
	if out.Walls == nil {
		out.Walls = []Wall{}
	}
	if out.Checkpoints == nil {
		out.Checkpoints = []Point{}
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("level: encode: %w", err)
	}
	return nil
}

// Decode reads a level from JSON.
func Decode(r io.Reader) (*Level, error) {
	var l Level
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("level: decode: %w", err)
	}
	return &l, nil
}

// Load reads a level file from path.
func Load(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("level: open %s: %w", path, err)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	return l, nil
}

// WriteFile writes the level to path in compact form, creating or
// truncating the file.
func (l *Level) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("level: create %s: %w", path, err)
	}
	defer f.Close()

	if err := l.Encode(f, false); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("level: close %s: %w", path, err)
	}
	return nil
}
