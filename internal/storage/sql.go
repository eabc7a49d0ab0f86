package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finboard/internal/models"
)

// SQLKV stores values as rows of the kv_entries table.
type SQLKV struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLKV wraps an open gorm connection whose schema has been migrated.
func NewSQLKV(db *gorm.DB) *SQLKV {
	return &SQLKV{db: db, now: time.Now}
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func (s *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value), UpdatedAt: s.now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the connection belongs to the database manager.
func (s *SQLKV) Close() error { return nil }
