package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SQLiteKV stores values in the persisted_states table.
type SQLiteKV struct {
	db *gorm.DB
}

// OpenSQLite opens the database at path and migrates the state table.
func OpenSQLite(path string) (*SQLiteKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := db.AutoMigrate(&entities.PersistedState{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// SQLDB exposes the underlying connection pool, shared with the web session
// store.
func (s *SQLiteKV) SQLDB() (*sql.DB, error) {
	return s.db.DB()
}

// Get reports a missing row as not found.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var state entities.PersistedState
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return state.Value, true, nil
}

// Set upserts the row for key.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	state := entities.PersistedState{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&state).Error
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.PersistedState{}).Error
}

// Close closes the underlying pool.
func (s *SQLiteKV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
