// Package sqlitecache persists the cached configuration document in a local
// SQLite database so it survives process restarts.
package sqlitecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Alwanly/service-config-client/pkg/database"
)

// Record is the single-row table holding the cached document as JSON.
type Record struct {
	ID        uint   `gorm:"primaryKey"`
	Document  string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName overrides the gorm default table name.
func (Record) TableName() string {
	return "cached_configurations"
}

// Cache stores a single configuration document in SQLite.
type Cache[T any] struct {
	db *gorm.DB
}

// New opens (or creates) the database at path and migrates the cache table.
// An empty path uses an in-memory database.
func New[T any](path string) (*Cache[T], error) {
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, &Record{}); err != nil {
		return nil, err
	}
	return &Cache[T]{db: db}, nil
}

// NewWithDB wraps an existing gorm handle. The cache table must already be
// migrated.
func NewWithDB[T any](db *gorm.DB) *Cache[T] {
	return &Cache[T]{db: db}
}

// Read returns the cached document, or nil when no row exists.
func (c *Cache[T]) Read(ctx context.Context) (*T, error) {
	var record Record
	err := c.db.WithContext(ctx).First(&record, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached configuration: %w", err)
	}

	value := new(T)
	if err := json.Unmarshal([]byte(record.Document), value); err != nil {
		return nil, fmt.Errorf("failed to decode cached configuration: %w", err)
	}
	return value, nil
}

// Write replaces the cached document. A nil value clears the slot.
func (c *Cache[T]) Write(ctx context.Context, value *T) error {
	if value == nil {
		err := c.db.WithContext(ctx).Delete(&Record{}, 1).Error
		if err != nil {
			return fmt.Errorf("failed to clear cached configuration: %w", err)
		}
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	record := Record{ID: 1, Document: string(payload), UpdatedAt: time.Now()}
	if err := c.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to write cached configuration: %w", err)
	}
	return nil
}
