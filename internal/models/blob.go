package models

import (
	"time"
)

// Blob is a single keyed value in the kv_blobs table. The whole AppState is
// stored as one JSON blob under a fixed key.
type Blob struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by migrations
func (Blob) TableName() string {
	return "kv_blobs"
}
