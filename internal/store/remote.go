package store

import (
	"log"
	"time"

	"taskcrafter/internal/model"
)

type MergePolicy string

const (
	// MergeNone records remote updates without applying them; sessions may diverge.
	MergeNone MergePolicy = "none"
	// MergeLastWriteWins applies remote updates whose lastModified is newer than the local copy.
	MergeLastWriteWins MergePolicy = "lww"
)

// ApplyRemote merges a change received from another session using
// last-write-wins on lastModified. The relay is never notified, so remote
// changes do not echo back. Reports whether the local collection changed.
func (s *Store) ApplyRemote(u model.TaskUpdate) bool {
	if u.Task.ID == "" || !u.Type.Valid() {
		log.Printf("⚠️  Ignoring malformed remote update (type=%q)", u.Type)
		return false
	}
	if u.Type != model.UpdateDelete {
		if err := u.Task.Validate(); err != nil {
			log.Printf("⚠️  Ignoring invalid remote %s for %s: %v", u.Type, u.Task.ID, err)
			return false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(u.Task.ID)
	remote := u.Task.Clone()
	remote.Normalize()

	switch u.Type {
	case model.UpdateDelete:
		if i < 0 {
			return false
		}
		if !newer(remoteStamp(u), s.tasks[i].LastModified) {
			return false
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	default:
		if i < 0 {
			s.tasks = append([]model.Task{remote}, s.tasks...)
			break
		}
		if !newer(remote.LastModified, s.tasks[i].LastModified) {
			return false
		}
		s.tasks[i] = remote
	}

	s.persistLocked()
	return true
}

// remoteStamp is the best available time for a delete: the notification
// timestamp, or the task's last modification when that does not parse.
func remoteStamp(u model.TaskUpdate) *time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, u.Timestamp); err == nil {
		return &ts
	}
	return u.Task.LastModified
}

// newer reports whether a wins over b. A missing remote time never wins;
// a missing local time always loses. Ties keep the local copy.
func newer(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
