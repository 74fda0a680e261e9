package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrSchemaVersion = errors.New("unknown history schema version")
	ErrClosed        = errors.New("persister closed")
)
