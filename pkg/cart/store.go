package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store is the persistent key-value storage backing the cart engine: the
// cart itself, the last-order receipt, and the order history each live under
// one key as an opaque JSON record.
type Store interface {
	// Get unmarshals the record under key into v, reporting whether the key
	// existed.
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
	Delete(key string) error
}

type record struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value []byte
}

func (record) TableName() string { return "local_records" }

// SQLiteStore is a Store persisted in a local SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenStore opens (or creates) the local store at path. Use ":memory:" for a
// throwaway store.
func OpenStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get reads and unmarshals the record under key.
func (s *SQLiteStore) Get(key string, v interface{}) (bool, error) {
	var rec record
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(rec.Value, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Put marshals v and upserts it under key.
func (s *SQLiteStore) Put(key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&record{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the record under key; a missing key is a no-op.
func (s *SQLiteStore) Delete(key string) error {
	if err := s.db.Delete(&record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
