package models

import "time"

// Level is a stored maze level in the library. Payload holds the compact
// JSON document; the sibling columns are denormalized for listing without
// decoding it.
type Level struct {
	ID              string `gorm:"primaryKey;size:32"`
	Name            string `gorm:"size:128;not null;index"`
	Source          string `gorm:"size:512"`
	Checksum        string `gorm:"size:64;uniqueIndex"`
	Width           int
	Height          int
	WallCount       int
	CheckpointCount int
	Payload         string `gorm:"type:mediumtext"`
	PublishedTag    string `gorm:"size:128"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
