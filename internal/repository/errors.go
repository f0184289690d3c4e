package repository

import "errors"

// Common repository errors
var (
	// ErrInvalidSnapshot is returned when a stored snapshot fails validation
	ErrInvalidSnapshot = errors.New("invalid task snapshot")

	// ErrNoBackup is returned when there is no backup snapshot to restore
	ErrNoBackup = errors.New("no backup snapshot")

	// ErrUnknownDriver is returned for an unsupported STORAGE_DRIVER
	ErrUnknownDriver = errors.New("unknown storage driver")
)
