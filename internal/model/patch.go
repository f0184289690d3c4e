package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTask = errors.New("invalid task")

// Field is an optional, clearable patch value.
// Set=false => "no change"; Set=true with Value=nil => clear.
type Field[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

func Clear[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// TaskInput carries the caller-settable fields of a new task.
type TaskInput struct {
	Title         string      `json:"title" binding:"required"`
	Description   string      `json:"description"`
	Priority      Priority    `json:"priority"`
	Completed     bool        `json:"completed"`
	Archived      bool        `json:"archived"`
	DueDate       *time.Time  `json:"dueDate"`
	Reminder      *time.Time  `json:"reminder"`
	Tags          []string    `json:"tags"`
	Category      string      `json:"category"`
	Notes         string      `json:"notes"`
	EstimatedTime *int        `json:"estimatedTime"`
	ActualTime    *int        `json:"actualTime"`
	Recurrence    *Recurrence `json:"recurrence"`
	Subtasks      []Subtask   `json:"subtasks"`
	Dependencies  []string    `json:"dependencies"`
	Attachments   []string    `json:"attachments"`
	Collaborators []string    `json:"collaborators"`
}

// InputFrom copies every field of t except identity and creation time.
func InputFrom(t Task) TaskInput {
	c := t.Clone()
	return TaskInput{
		Title:         c.Title,
		Description:   c.Description,
		Priority:      c.Priority,
		Completed:     c.Completed,
		Archived:      c.Archived,
		DueDate:       c.DueDate,
		Reminder:      c.Reminder,
		Tags:          c.Tags,
		Category:      c.Category,
		Notes:         c.Notes,
		EstimatedTime: c.EstimatedTime,
		ActualTime:    c.ActualTime,
		Recurrence:    c.Recurrence,
		Subtasks:      c.Subtasks,
		Dependencies:  c.Dependencies,
		Attachments:   c.Attachments,
		Collaborators: c.Collaborators,
	}
}

func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, in.Priority)
	}
	if err := validateMinutes(in.EstimatedTime, in.ActualTime); err != nil {
		return err
	}
	if in.Recurrence != nil && !in.Recurrence.Valid() {
		return fmt.Errorf("%w: recurrence needs a daily/weekly/monthly frequency and interval >= 1", ErrInvalidTask)
	}
	return nil
}

// Validate checks a fully formed task, such as one received from another
// session. Priority may be empty, as it is for tasks created without one.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, t.Status)
	}
	if err := validateMinutes(t.EstimatedTime, t.ActualTime); err != nil {
		return err
	}
	if t.Recurrence != nil && !t.Recurrence.Valid() {
		return fmt.Errorf("%w: recurrence needs a daily/weekly/monthly frequency and interval >= 1", ErrInvalidTask)
	}
	return nil
}

// TaskPatch represents a partial update.
// nil pointer => "no change".
type TaskPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Archived    *bool     `json:"archived,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Notes       *string   `json:"notes,omitempty"`

	Tags          *[]string  `json:"tags,omitempty"`
	Subtasks      *[]Subtask `json:"subtasks,omitempty"`
	Dependencies  *[]string  `json:"dependencies,omitempty"`
	Attachments   *[]string  `json:"attachments,omitempty"`
	Collaborators *[]string  `json:"collaborators,omitempty"`

	DueDate       Field[time.Time]  `json:"dueDate"`
	Reminder      Field[time.Time]  `json:"reminder"`
	EstimatedTime Field[int]        `json:"estimatedTime"`
	ActualTime    Field[int]        `json:"actualTime"`
	Recurrence    Field[Recurrence] `json:"recurrence"`
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTask)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, *p.Priority)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, *p.Status)
	}
	if err := validateMinutes(p.EstimatedTime.Value, p.ActualTime.Value); err != nil {
		return err
	}
	if p.Recurrence.Value != nil && !p.Recurrence.Value.Valid() {
		return fmt.Errorf("%w: recurrence needs a daily/weekly/monthly frequency and interval >= 1", ErrInvalidTask)
	}
	return nil
}

// Apply merges the patch into t. Callers validate first.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Archived != nil {
		t.Archived = *p.Archived
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}

	if p.Tags != nil {
		t.Tags = dedupe(*p.Tags)
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]Subtask{}, *p.Subtasks...)
	}
	if p.Dependencies != nil {
		t.Dependencies = dedupe(*p.Dependencies)
	}
	if p.Attachments != nil {
		t.Attachments = dedupe(*p.Attachments)
	}
	if p.Collaborators != nil {
		t.Collaborators = dedupe(*p.Collaborators)
	}

	if p.DueDate.Set {
		t.DueDate = cloneTime(p.DueDate.Value)
	}
	if p.Reminder.Set {
		t.Reminder = cloneTime(p.Reminder.Value)
	}
	if p.EstimatedTime.Set {
		t.EstimatedTime = cloneInt(p.EstimatedTime.Value)
	}
	if p.ActualTime.Set {
		t.ActualTime = cloneInt(p.ActualTime.Value)
	}
	if p.Recurrence.Set {
		if p.Recurrence.Value == nil {
			t.Recurrence = nil
		} else {
			r := *p.Recurrence.Value
			r.EndDate = cloneTime(r.EndDate)
			t.Recurrence = &r
		}
	}
}

func validateMinutes(values ...*int) error {
	for _, v := range values {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: time in minutes must be non-negative", ErrInvalidTask)
		}
	}
	return nil
}

// dedupe keeps the first occurrence of every value and always returns a non-nil slice.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
