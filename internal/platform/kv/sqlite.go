package kv

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry es la tabla kv_entries del store embebido.
type kvEntry struct {
	Key       string `gorm:"column:name;primaryKey;size:256"`
	Value     string
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteStore persiste en un archivo local; sirve para despliegues de un solo nodo sin Redis.
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenSQLite abre (o crea) el archivo y migra la tabla.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// SQLite: un solo writer.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMiss
		}
		return "", err
	}
	if e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt) {
		_ = s.Delete(ctx, key)
		return "", ErrMiss
	}
	return e.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	now := s.now()
	e := kvEntry{Key: key, Value: value, UpdatedAt: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		e.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("name = ?", key).Delete(&kvEntry{}).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
