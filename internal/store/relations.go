package store

import (
	"slices"

	"taskcrafter/internal/model"
)

// listField selects one of a task's string sets.
type listField func(t *model.Task) *[]string

func tagsOf(t *model.Task) *[]string          { return &t.Tags }
func dependenciesOf(t *model.Task) *[]string  { return &t.Dependencies }
func collaboratorsOf(t *model.Task) *[]string { return &t.Collaborators }

func (s *Store) AddTag(id, tag string) (model.Task, error) {
	return s.addToSet(id, tag, tagsOf, nil)
}

func (s *Store) RemoveTag(id, tag string) (model.Task, error) {
	return s.removeFromSet(id, tag, tagsOf)
}

// AddDependency records that id depends on depID. depID is not required to exist.
func (s *Store) AddDependency(id, depID string) (model.Task, error) {
	return s.addToSet(id, depID, dependenciesOf, func() error {
		if s.cycleCheck && s.createsCycleLocked(id, depID) {
			return ErrDependencyCycle
		}
		return nil
	})
}

func (s *Store) RemoveDependency(id, depID string) (model.Task, error) {
	return s.removeFromSet(id, depID, dependenciesOf)
}

func (s *Store) AddCollaborator(id, userID string) (model.Task, error) {
	return s.addToSet(id, userID, collaboratorsOf, nil)
}

func (s *Store) RemoveCollaborator(id, userID string) (model.Task, error) {
	return s.removeFromSet(id, userID, collaboratorsOf)
}

// addToSet is a no-op (no persist, no notify) when value is already present.
// guard, when set, runs under the lock right before the insert.
func (s *Store) addToSet(id, value string, field listField, guard func() error) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	current := s.tasks[i]
	if slices.Contains(*field(&current), value) {
		return current.Clone(), nil
	}
	if guard != nil {
		if err := guard(); err != nil {
			return model.Task{}, err
		}
	}
	return s.updateLocked(id, func(t *model.Task) {
		list := field(t)
		*list = append(*list, value)
	})
}

// removeFromSet is a no-op when value is absent.
func (s *Store) removeFromSet(id, value string, field listField) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	current := s.tasks[i]
	if !slices.Contains(*field(&current), value) {
		return current.Clone(), nil
	}
	return s.updateLocked(id, func(t *model.Task) {
		list := field(t)
		*list = slices.DeleteFunc(*list, func(v string) bool { return v == value })
	})
}

func (s *Store) AddSubtask(id, title string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := model.Subtask{ID: s.newID(), Title: title}
	return s.updateLocked(id, func(t *model.Task) {
		t.Subtasks = append(t.Subtasks, sub)
	})
}

func (s *Store) ToggleSubtask(id, subtaskID string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	j := slices.IndexFunc(s.tasks[i].Subtasks, func(st model.Subtask) bool { return st.ID == subtaskID })
	if j < 0 {
		return model.Task{}, ErrSubtaskNotFound
	}
	return s.updateLocked(id, func(t *model.Task) {
		t.Subtasks[j].Completed = !t.Subtasks[j].Completed
	})
}

// DependencyCycle reports whether adding the edge id -> depID would close a
// cycle in the dependency graph. Dangling ids are treated as leaves.
func (s *Store) DependencyCycle(id, depID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createsCycleLocked(id, depID)
}

func (s *Store) createsCycleLocked(id, depID string) bool {
	if id == depID {
		return true
	}
	deps := make(map[string][]string, len(s.tasks))
	for _, t := range s.tasks {
		deps[t.ID] = t.Dependencies
	}

	// id -> depID closes a cycle iff id is reachable from depID.
	visited := map[string]bool{}
	stack := []string{depID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == id {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, deps[cur]...)
	}
	return false
}
