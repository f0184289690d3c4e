package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskcrafter/internal/model"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrDependencyCycle = errors.New("dependency would create a cycle")
)

const copyPrefix = "Copy of "

// Persister receives a full snapshot after every committed mutation.
// Implementations must not block.
type Persister interface {
	Save(tasks []model.Task)
}

// Notifier forwards change notifications to the relay. Fire-and-forget.
type Notifier interface {
	Notify(kind model.UpdateKind, task model.Task)
}

type Option func(*Store)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithCycleCheck makes AddDependency reject edges that close a cycle.
func WithCycleCheck() Option {
	return func(s *Store) { s.cycleCheck = true }
}

// WithTasks seeds the collection, e.g. from a loaded snapshot.
func WithTasks(tasks []model.Task) Option {
	return func(s *Store) {
		s.tasks = make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			c := t.Clone()
			c.Normalize()
			s.tasks = append(s.tasks, c)
		}
	}
}

// Store is the single in-process authority over the task collection.
// Every operation runs under one mutex; tasks are ordered most-recent-first.
type Store struct {
	mu         sync.Mutex
	tasks      []model.Task
	persister  Persister
	notifier   Notifier
	now        func() time.Time
	newID      func() string
	cycleCheck bool
}

// New builds a store. A nil persister or notifier disables that side effect.
func New(persister Persister, notifier Notifier, opts ...Option) *Store {
	s := &Store{
		tasks:     []model.Task{},
		persister: persister,
		notifier:  notifier,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the whole collection.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	return s.tasks[i].Clone(), nil
}

func (s *Store) Create(in model.TaskInput) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(in)
}

func (s *Store) createLocked(in model.TaskInput) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}

	now := s.now()
	modified := now
	t := model.Task{
		ID:            s.newID(),
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		Status:        model.StatusTodo,
		Completed:     in.Completed,
		Archived:      false,
		CreatedAt:     now,
		LastModified:  &modified,
		DueDate:       in.DueDate,
		Reminder:      in.Reminder,
		Tags:          in.Tags,
		Category:      in.Category,
		Notes:         in.Notes,
		EstimatedTime: in.EstimatedTime,
		ActualTime:    in.ActualTime,
		Recurrence:    in.Recurrence,
		Subtasks:      in.Subtasks,
		Dependencies:  in.Dependencies,
		Attachments:   in.Attachments,
		Collaborators: in.Collaborators,
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	// Sanitize list inputs through the patch path so set semantics hold from the start.
	model.TaskPatch{
		Tags:          ptrIfSet(t.Tags),
		Dependencies:  ptrIfSet(t.Dependencies),
		Attachments:   ptrIfSet(t.Attachments),
		Collaborators: ptrIfSet(t.Collaborators),
	}.Apply(&t)
	t = t.Clone()
	t.Normalize()

	s.tasks = append([]model.Task{t}, s.tasks...)
	s.commitLocked(model.UpdateAdd, t)
	return t.Clone(), nil
}

func (s *Store) Update(id string, p model.TaskPatch) (model.Task, error) {
	if err := p.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, p.Apply)
}

// updateLocked clones the stored task, lets fn mutate the clone, then replaces the entry.
func (s *Store) updateLocked(id string, fn func(t *model.Task)) (model.Task, error) {
	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}

	t := s.tasks[i].Clone()
	fn(&t)
	modified := s.now()
	if modified.Before(t.CreatedAt) {
		modified = t.CreatedAt
	}
	t.LastModified = &modified
	t.Normalize()

	s.tasks[i] = t
	s.commitLocked(model.UpdateUpdate, t)
	return t.Clone(), nil
}

func (s *Store) Delete(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	removed := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.commitLocked(model.UpdateDelete, removed)
	return removed.Clone(), nil
}

func (s *Store) ToggleCompletion(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, func(t *model.Task) { t.Completed = !t.Completed })
}

// Duplicate creates a fresh copy of a task with a "Copy of" title.
func (s *Store) Duplicate(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	in := model.InputFrom(s.tasks[i])
	in.Title = copyPrefix + in.Title
	in.Completed = false
	in.Archived = false
	return s.createLocked(in)
}

// Archive soft-deletes a task. The task stays in the collection.
func (s *Store) Archive(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, func(t *model.Task) { t.Archived = true })
}

func (s *Store) SetReminder(id string, at time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, func(t *model.Task) { t.Reminder = &at })
}

// ClearCompleted removes every completed task and returns what was removed.
func (s *Store) ClearCompleted() []model.Task {
	return s.removeWhere(func(t model.Task) bool { return t.Completed })
}

// DeleteMany removes all tasks whose id is in ids. Unknown ids are ignored.
func (s *Store) DeleteMany(ids []string) []model.Task {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return s.removeWhere(func(t model.Task) bool {
		_, ok := set[t.ID]
		return ok
	})
}

func (s *Store) removeWhere(match func(model.Task) bool) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := []model.Task{}
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if match(t) {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) == 0 {
		return removed
	}

	s.tasks = kept
	s.persistLocked()
	for _, t := range removed {
		s.notify(model.UpdateDelete, t)
	}
	return removed
}

func (s *Store) SetRecurrence(id string, r *model.Recurrence) (model.Task, error) {
	if r != nil && !r.Valid() {
		return model.Task{}, model.ErrInvalidTask
	}
	p := model.TaskPatch{Recurrence: model.Clear[model.Recurrence]()}
	if r != nil {
		p.Recurrence = model.SetTo(*r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, p.Apply)
}

func (s *Store) commitLocked(kind model.UpdateKind, t model.Task) {
	s.persistLocked()
	s.notify(kind, t)
}

func (s *Store) persistLocked() {
	if s.persister != nil {
		s.persister.Save(s.snapshotLocked())
	}
}

func (s *Store) notify(kind model.UpdateKind, t model.Task) {
	if s.notifier != nil {
		s.notifier.Notify(kind, t.Clone())
	}
}

func (s *Store) snapshotLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func ptrIfSet[T any](v []T) *[]T {
	if v == nil {
		return nil
	}
	return &v
}
