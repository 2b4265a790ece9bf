package models

import "time"

// ScanRun records one ingest sweep over a watched directory.
type ScanRun struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Dir        string `gorm:"size:512"`
	Found      int
	Ingested   int
	Skipped    int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}
