package model

import "time"

type UpdateKind string

const (
	UpdateAdd    UpdateKind = "add"
	UpdateUpdate UpdateKind = "update"
	UpdateDelete UpdateKind = "delete"
)

func (k UpdateKind) Valid() bool {
	switch k {
	case UpdateAdd, UpdateUpdate, UpdateDelete:
		return true
	}
	return false
}

// EventTaskUpdate is the relay channel used in both directions.
const EventTaskUpdate = "taskUpdate"

// TaskUpdate is a change notification exchanged through the relay. Never persisted.
type TaskUpdate struct {
	Type      UpdateKind `json:"type"`
	Task      Task       `json:"task"`
	Timestamp string     `json:"timestamp"`
}

func NewTaskUpdate(kind UpdateKind, task Task, at time.Time) TaskUpdate {
	return TaskUpdate{
		Type:      kind,
		Task:      task,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
	}
}

// Envelope is the websocket frame carrying a named event.
type Envelope struct {
	Event string     `json:"event"`
	Data  TaskUpdate `json:"data"`
}
