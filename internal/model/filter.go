package model

import "time"

// TaskFilter criteria are AND-combined; zero values are ignored.
type TaskFilter struct {
	Status       *Status
	Completed    *bool
	Priority     *Priority
	Tags         []string
	Search       string
	Category     string
	Collaborator string

	// Due-date range, both ends inclusive. Tasks without a due date pass.
	DueFrom *time.Time
	DueTo   *time.Time
}

type SortKey string

const (
	SortByPriority     SortKey = "priority"
	SortByDueDate      SortKey = "dueDate"
	SortByCreatedAt    SortKey = "createdAt"
	SortByLastModified SortKey = "lastModified"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByPriority, SortByDueDate, SortByCreatedAt, SortByLastModified:
		return true
	}
	return false
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Stats is the dashboard summary of a task collection.
type Stats struct {
	Total          int              `json:"total"`
	Completed      int              `json:"completed"`
	Pending        int              `json:"pending"`
	Archived       int              `json:"archived"`
	Overdue        int              `json:"overdue"`
	CompletionRate int              `json:"completionRate"`
	ByPriority     map[Priority]int `json:"byPriority"`
	ByStatus       map[Status]int   `json:"byStatus"`
}
