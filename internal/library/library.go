// Package library provides level storage operations.
package library

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vdbe/maze-lvl-maker/internal/level"
	"github.com/vdbe/maze-lvl-maker/internal/models"
)

// ErrNotFound is returned when no level matches an ID or name.
var ErrNotFound = errors.New("level not found")

// SaveOpts holds parameters for storing a level.
type SaveOpts struct {
	Name   string
	Source string
	Level  *level.Level
}

// ListFilters holds optional filters for listing levels.
type ListFilters struct {
	Name      string // substring match
	Published *bool
}

// GenerateID creates a unique level ID in lvl-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("library: generate ID: %w", err)
	}
	return "lvl-" + hex.EncodeToString(b)[:5], nil
}

// Checksum returns the hex SHA-256 of a compact level payload.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save stores a level in the library, deduplicating on payload checksum.
// The returned bool reports whether a new row was created; on a checksum
// match the existing row is returned unchanged.
func Save(db *gorm.DB, opts SaveOpts) (*models.Level, bool, error) {
	if opts.Name == "" {
		return nil, false, fmt.Errorf("library: name is required")
	}
	if opts.Level == nil {
		return nil, false, fmt.Errorf("library: level is required")
	}

	var buf bytes.Buffer
	if err := opts.Level.Encode(&buf, false); err != nil {
		return nil, false, err
	}
	sum := Checksum(buf.Bytes())

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, false, err
	}

	w, h := opts.Level.Bounds()
	rec := models.Level{
		ID:              id,
		Name:            opts.Name,
		Source:          opts.Source,
		Checksum:        sum,
		Width:           w,
		Height:          h,
		WallCount:       len(opts.Level.Walls),
		CheckpointCount: len(opts.Level.Checkpoints),
		Payload:         buf.String(),
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "checksum"}},
		DoNothing: true,
	}).Create(&rec)
	if result.Error != nil {
		return nil, false, fmt.Errorf("library: save %q: %w", opts.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		var existing models.Level
		if err := db.Where("checksum = ?", sum).First(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("library: fetch existing %q: %w", opts.Name, err)
		}
		return &existing, false, nil
	}
	return &rec, true, nil
}

// Get retrieves a level by ID, falling back to a name lookup. When several
// levels share a name the most recently stored one wins.
func Get(db *gorm.DB, idOrName string) (*models.Level, error) {
	var rec models.Level
	err := db.Where("id = ?", idOrName).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("name = ?", idOrName).Order("created_at DESC").First(&rec).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("library: %w: %s", ErrNotFound, idOrName)
		}
		return nil, fmt.Errorf("library: get %s: %w", idOrName, err)
	}
	return &rec, nil
}

// List returns levels matching the given filters, ordered by name.
func List(db *gorm.DB, filters ListFilters) ([]models.Level, error) {
	q := db.Model(&models.Level{})

	if filters.Name != "" {
		q = q.Where("name LIKE ?", "%"+filters.Name+"%")
	}
	if filters.Published != nil {
		if *filters.Published {
			q = q.Where("published_tag <> ''")
		} else {
			q = q.Where("published_tag = ''")
		}
	}

	var recs []models.Level
	if err := q.Order("name ASC, created_at ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	return recs, nil
}

// Delete removes a level by ID or name and returns the removed record.
func Delete(db *gorm.DB, idOrName string) (*models.Level, error) {
	rec, err := Get(db, idOrName)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(&models.Level{}, "id = ?", rec.ID).Error; err != nil {
		return nil, fmt.Errorf("library: delete %s: %w", rec.ID, err)
	}
	return rec, nil
}

// MarkPublished records the release tag on the given levels.
func MarkPublished(db *gorm.DB, ids []string, tag string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := db.Model(&models.Level{}).Where("id IN ?", ids).Update("published_tag", tag).Error; err != nil {
		return fmt.Errorf("library: mark published: %w", err)
	}
	return nil
}

// Data decodes the stored payload back into a level.
func Data(rec *models.Level) (*level.Level, error) {
	lvl, err := level.Decode(strings.NewReader(rec.Payload))
	if err != nil {
		return nil, fmt.Errorf("library: payload of %s: %w", rec.ID, err)
	}
	return lvl, nil
}

// Count returns the number of levels in the library.
func Count(db *gorm.DB) (int64, error) {
	var n int64
	if err := db.Model(&models.Level{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("library: count: %w", err)
	}
	return n, nil
}

// RecordScanRun stores the outcome of one ingest sweep.
func RecordScanRun(db *gorm.DB, run *models.ScanRun) error {
	if err := db.Create(run).Error; err != nil {
		return fmt.Errorf("library: record scan run: %w", err)
	}
	return nil
}

// RecentScanRuns returns the most recent scan runs, newest first.
func RecentScanRuns(db *gorm.DB, limit int) ([]models.ScanRun, error) {
	var runs []models.ScanRun
	if err := db.Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("library: recent scan runs: %w", err)
	}
	return runs, nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Level{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("library: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("library: failed to generate unique ID after retries")
}
