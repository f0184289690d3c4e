package model

import (
	"slices"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting; unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type Recurrence struct {
	Frequency Frequency  `json:"frequency" yaml:"frequency"`
	Interval  int        `json:"interval" yaml:"interval"`
	EndDate   *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

func (r Recurrence) Valid() bool {
	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return false
	}
	return r.Interval >= 1
}

type Subtask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Task is an immutable snapshot once stored; mutate a Clone.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Status      Status   `json:"status" yaml:"status"`
	Completed   bool     `json:"completed" yaml:"completed"`
	Archived    bool     `json:"archived" yaml:"archived"`

	CreatedAt    time.Time  `json:"createdAt" yaml:"createdAt"`
	LastModified *time.Time `json:"lastModified,omitempty" yaml:"lastModified,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Reminder     *time.Time `json:"reminder,omitempty" yaml:"reminder,omitempty"`

	Tags          []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category      string      `json:"category,omitempty" yaml:"category,omitempty"`
	Notes         string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	EstimatedTime *int        `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty"`
	ActualTime    *int        `json:"actualTime,omitempty" yaml:"actualTime,omitempty"`
	Recurrence    *Recurrence `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`

	Subtasks      []Subtask `json:"subtasks" yaml:"subtasks"`
	Dependencies  []string  `json:"dependencies" yaml:"dependencies"`
	Attachments   []string  `json:"attachments" yaml:"attachments"`
	Collaborators []string  `json:"collaborators" yaml:"collaborators"`
}

// Clone returns a deep copy so the caller can modify it without touching the original.
func (t Task) Clone() Task {
	c := t
	c.LastModified = cloneTime(t.LastModified)
	c.DueDate = cloneTime(t.DueDate)
	c.Reminder = cloneTime(t.Reminder)
	c.EstimatedTime = cloneInt(t.EstimatedTime)
	c.ActualTime = cloneInt(t.ActualTime)
	if t.Recurrence != nil {
		r := *t.Recurrence
		r.EndDate = cloneTime(t.Recurrence.EndDate)
		c.Recurrence = &r
	}
	c.Tags = slices.Clone(t.Tags)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.Dependencies = slices.Clone(t.Dependencies)
	c.Attachments = slices.Clone(t.Attachments)
	c.Collaborators = slices.Clone(t.Collaborators)
	return c
}

// Normalize replaces nil relational lists with empty ones.
func (t *Task) Normalize() {
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if t.Attachments == nil {
		t.Attachments = []string{}
	}
	if t.Collaborators == nil {
		t.Collaborators = []string{}
	}
}

func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
