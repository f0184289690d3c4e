package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskcrafter/internal/config"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OpenKVStore connects the key-value store selected by cfg.StorageDriver and
// migrates its table. The returned close func releases the connection.
func OpenKVStore(ctx context.Context, cfg *config.Config) (KVStore, func() error, error) {
	var dialector gorm.Dialector
	switch cfg.StorageDriver {
	case DriverMemory:
		log.Println("⚠️  Using in-memory storage, tasks will not survive a restart")
		return NewMemoryKVStore(), func() error { return nil }, nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StorageDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", cfg.StorageDriver, err)
	}
	log.Printf("✅ Connected to %s storage", cfg.StorageDriver)

	sqlDB, err := db.WithContext(ctx).DB()
	if err != nil {
		return nil, nil, err
	}
	if err := migrateSchema(sqlDB, cfg.StorageDriver); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}

	return NewKVRepository(db), sqlDB.Close, nil
}
