package models

import "time"

// Snapshot is the complete persisted state of the dashboard.
type Snapshot struct {
	Transactions  []Transaction `json:"transactions"`
	Settings      Settings      `json:"settings"`
	RecordCounter int           `json:"recordCounter"`
}

// KVEntry is a row of the SQL-backed key-value medium.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the migrations.
func (KVEntry) TableName() string {
	return "kv_entries"
}
