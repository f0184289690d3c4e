package repository

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskcrafter/internal/model"
)

// KVStore is the local key-value store the snapshot repository writes to.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type KVRepository struct {
	db *gorm.DB
}

var _ KVStore = (*KVRepository)(nil)

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key; ok is false when the key is absent
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set inserts or overwrites the value under key
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// MemoryKVStore keeps entries in process memory.
type MemoryKVStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ KVStore = (*MemoryKVStore)(nil)

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{entries: map[string]string{}}
}

func (m *MemoryKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryKVStore) Set(ctx context.Context, key, value string) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}
