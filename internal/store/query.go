package store

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"taskcrafter/internal/model"
)

// Filter returns the tasks matching every criterion set in f, in store order.
func (s *Store) Filter(f model.TaskFilter) []model.Task {
	return s.collect(func(t model.Task) bool { return Matches(t, f) })
}

func (s *Store) ByCategory(category string) []model.Task {
	return s.collect(func(t model.Task) bool { return t.Category == category })
}

// UpcomingDeadlines returns tasks due strictly between now and now+days.
func (s *Store) UpcomingDeadlines(days int) []model.Task {
	now := s.now()
	until := now.Add(time.Duration(days) * 24 * time.Hour)
	return s.collect(func(t model.Task) bool {
		return t.DueDate != nil && t.DueDate.After(now) && t.DueDate.Before(until)
	})
}

// Overdue returns incomplete tasks whose due date has passed.
func (s *Store) Overdue() []model.Task {
	now := s.now()
	return s.collect(func(t model.Task) bool { return t.IsOverdue(now) })
}

func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := model.Stats{
		Total:      len(s.tasks),
		ByPriority: map[model.Priority]int{},
		ByStatus:   map[model.Status]int{},
	}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		} else {
			st.Pending++
		}
		if t.Archived {
			st.Archived++
		}
		if t.IsOverdue(now) {
			st.Overdue++
		}
		st.ByPriority[t.Priority]++
		st.ByStatus[t.Status]++
	}
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}

func (s *Store) collect(match func(model.Task) bool) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Task{}
	for _, t := range s.tasks {
		if match(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Matches reports whether t satisfies every criterion set in f.
func Matches(t model.Task, f model.TaskFilter) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, t.HasTag) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Collaborator != "" && !slices.Contains(t.Collaborators, f.Collaborator) {
		return false
	}
	if t.DueDate != nil {
		if f.DueFrom != nil && t.DueDate.Before(*f.DueFrom) {
			return false
		}
		if f.DueTo != nil && t.DueDate.After(*f.DueTo) {
			return false
		}
	}
	return true
}

// Sort returns a stably sorted copy of tasks. Missing due dates and
// modification times always sort last, whatever the order.
func Sort(tasks []model.Task, key model.SortKey, order model.SortOrder) []model.Task {
	out := slices.Clone(tasks)
	sign := 1
	if order == model.Desc {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b model.Task) int {
		switch key {
		case model.SortByPriority:
			return sign * cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		case model.SortByDueDate:
			return compareOptionalTime(a.DueDate, b.DueDate, sign)
		case model.SortByCreatedAt:
			return sign * a.CreatedAt.Compare(b.CreatedAt)
		case model.SortByLastModified:
			return compareOptionalTime(a.LastModified, b.LastModified, sign)
		}
		return 0
	})
	return out
}

func compareOptionalTime(a, b *time.Time, sign int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return sign * a.Compare(*b)
}
