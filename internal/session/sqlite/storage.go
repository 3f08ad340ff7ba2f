// Package sqlite persists session keys in a small local database so the
// session survives process restarts, the same way the web portal relied on
// browser storage.
package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (entry) TableName() string {
	return "session_entries"
}

// Storage implements session.Storage on top of a sqlite key-value table.
type Storage struct {
	db *gorm.DB
}

func NewStorage(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating session table: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Get(key string) (string, error) {
	var e entry
	err := s.db.First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session key %q: %w", key, err)
	}
	return e.Value, nil
}

func (s *Storage) Set(key, value string) error {
	e := entry{Key: key, Value: value}
	if err := s.db.Save(&e).Error; err != nil {
		return fmt.Errorf("writing session key %q: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(key string) error {
	if err := s.db.Delete(&entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("deleting session key %q: %w", key, err)
	}
	return nil
}
