package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"taskcrafter/internal/model"
)

const (
	KeyTasks     = "tasks"
	KeyBackup    = "tasks_backup"
	KeyLastSaved = "tasks_last_saved"
)

// SnapshotRepository persists the whole task collection as one JSON document,
// keeping the previous document in a backup slot.
type SnapshotRepository struct {
	kv  KVStore
	now func() time.Time
}

func NewSnapshotRepository(kv KVStore) *SnapshotRepository {
	return &SnapshotRepository{kv: kv, now: time.Now}
}

// Load returns the stored tasks. A missing, unreadable or invalid snapshot
// yields an empty collection; nothing is partially applied.
func (r *SnapshotRepository) Load(ctx context.Context) []model.Task {
	raw, ok, err := r.kv.Get(ctx, KeyTasks)
	if err != nil {
		log.Printf("⚠️  Failed to read task snapshot: %v", err)
		return []model.Task{}
	}
	if !ok {
		return []model.Task{}
	}

	tasks, err := DecodeSnapshot([]byte(raw))
	if err != nil {
		log.Printf("⚠️  Discarding stored tasks: %v", err)
		return []model.Task{}
	}
	return tasks
}

// Save writes tasks after copying the current snapshot into the backup slot.
// If the snapshot write fails the previous snapshot is put back. Errors are
// logged and returned; callers on the mutation path ignore them.
func (r *SnapshotRepository) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		log.Printf("❌ Failed to encode tasks: %v", err)
		return fmt.Errorf("encode tasks: %w", err)
	}

	previous, ok, err := r.kv.Get(ctx, KeyTasks)
	if err != nil {
		log.Printf("❌ Failed to read current snapshot: %v", err)
		return fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		previous = "[]"
	}
	if err := r.kv.Set(ctx, KeyBackup, previous); err != nil {
		log.Printf("❌ Failed to write task backup: %v", err)
		return fmt.Errorf("write backup: %w", err)
	}

	if err := r.kv.Set(ctx, KeyTasks, string(payload)); err != nil {
		log.Printf("❌ Failed to save tasks: %v", err)
		if rerr := r.kv.Set(ctx, KeyTasks, previous); rerr != nil {
			log.Printf("❌ Failed to restore tasks from backup: %v", rerr)
		}
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := r.kv.Set(ctx, KeyLastSaved, r.now().UTC().Format(time.RFC3339)); err != nil {
		log.Printf("⚠️  Failed to record save time: %v", err)
		return fmt.Errorf("write save time: %w", err)
	}
	return nil
}

// Backup returns the tasks in the backup slot.
func (r *SnapshotRepository) Backup(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := r.kv.Get(ctx, KeyBackup)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoBackup
	}
	return DecodeSnapshot([]byte(raw))
}

// RestoreBackup overwrites the current snapshot with the backup slot.
func (r *SnapshotRepository) RestoreBackup(ctx context.Context) ([]model.Task, error) {
	tasks, err := r.Backup(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return nil, err
	}
	if err := r.kv.Set(ctx, KeyTasks, string(payload)); err != nil {
		return nil, err
	}
	return tasks, nil
}

// LastSaved returns the time of the last successful save, if any.
func (r *SnapshotRepository) LastSaved(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := r.kv.Get(ctx, KeyLastSaved)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts, true, nil
}

// snapshotRecord holds the fields every stored task must carry.
type snapshotRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed *bool  `json:"completed"`
}

// DecodeSnapshot parses a stored snapshot. It fails as a whole if the payload
// is not an array or any element lacks an id, a title or a boolean completed.
func DecodeSnapshot(data []byte) ([]model.Task, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: not an array", ErrInvalidSnapshot)
	}

	tasks := make([]model.Task, 0, len(records))
	for i, rec := range records {
		var probe snapshotRecord
		if err := json.Unmarshal(rec, &probe); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidSnapshot, i, err)
		}
		if probe.ID == "" || probe.Title == "" || probe.Completed == nil {
			return nil, fmt.Errorf("%w: record %d needs id, title and completed", ErrInvalidSnapshot, i)
		}

		var t model.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidSnapshot, i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
