package repository

import (
	"context"
	"sync"
	"time"

	"taskcrafter/internal/model"
)

// SnapshotWriter is the write side of SnapshotRepository.
type SnapshotWriter interface {
	Save(ctx context.Context, tasks []model.Task) error
}

// AsyncSaver persists snapshots in the background so store mutations never
// wait on storage. Only the latest pending snapshot is written.
type AsyncSaver struct {
	w       SnapshotWriter
	timeout time.Duration

	mu      sync.Mutex
	pending []model.Task
	dirty   bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
	stop chan struct{}
}

func NewAsyncSaver(w SnapshotWriter) *AsyncSaver {
	return &AsyncSaver{
		w:       w,
		timeout: 5 * time.Second,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

// Save queues tasks for writing and returns immediately.
func (s *AsyncSaver) Save(tasks []model.Task) {
	s.mu.Lock()
	s.pending = tasks
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx is cancelled or Close is called,
// then flushes whatever is still pending.
func (s *AsyncSaver) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return
		case <-s.stop:
			s.flush()
			return
		case <-s.wake:
			s.flush()
		}
	}
}

// Close stops Run after a final flush and waits for it to finish.
func (s *AsyncSaver) Close() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

func (s *AsyncSaver) flush() {
	s.mu.Lock()
	tasks, dirty := s.pending, s.dirty
	s.pending, s.dirty = nil, false
	s.mu.Unlock()

	if !dirty {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	// Errors are logged by the writer; persistence is best-effort.
	_ = s.w.Save(ctx, tasks)
}
