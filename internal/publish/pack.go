package publish

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vdbe/maze-lvl-maker/internal/models"
)

// Manifest describes the contents of a level pack.
type Manifest struct {
	Tag    string          `json:"tag"`
	Count  int             `json:"count"`
	Levels []ManifestEntry `json:"levels"`
}

// ManifestEntry summarizes one level in the pack.
type ManifestEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	File        string `json:"file"`
	Checksum    string `json:"checksum"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Walls       int    `json:"walls"`
	Checkpoints int    `json:"checkpoints"`
}

// WritePack writes a zip archive containing one JSON file per level plus a
// manifest.json. Entry names derive from level names; collisions fall back
// to the level ID.
func WritePack(w io.Writer, tag string, levels []models.Level) (*Manifest, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("publish: no levels to pack")
	}

	zw := zip.NewWriter(w)
	manifest := &Manifest{Tag: tag, Count: len(levels)}
	taken := make(map[string]bool)

	for _, lvl := range levels {
		name := sanitizeName(lvl.Name)
		file := name + ".json"
		if taken[file] {
			file = fmt.Sprintf("%s-%s.json", name, lvl.ID)
		}
		taken[file] = true

		f, err := zw.Create(file)
		if err != nil {
			return nil, fmt.Errorf("publish: pack entry %s: %w", file, err)
		}
		if _, err := f.Write([]byte(lvl.Payload)); err != nil {
			return nil, fmt.Errorf("publish: write entry %s: %w", file, err)
		}

		manifest.Levels = append(manifest.Levels, ManifestEntry{
			ID:          lvl.ID,
			Name:        lvl.Name,
			File:        file,
			Checksum:    lvl.Checksum,
			Width:       lvl.Width,
			Height:      lvl.Height,
			Walls:       lvl.WallCount,
			Checkpoints: lvl.CheckpointCount,
		})
	}

	mf, err := zw.Create("manifest.json")
	if err != nil {
		return nil, fmt.Errorf("publish: pack manifest: %w", err)
	}
	enc := json.NewEncoder(mf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("publish: write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("publish: close pack: %w", err)
	}
	return manifest, nil
}

// sanitizeName maps a level name onto a safe archive file name.
func sanitizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	mapped = strings.Trim(mapped, "-")
	if mapped == "" {
		return "level"
	}
	return mapped
}
