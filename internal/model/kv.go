package model

import "time"

// KVEntry is one slot of the local key-value store.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
