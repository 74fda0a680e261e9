package persist

import "errors"

// Sentinel kinds for writer errors.
var (
	ErrAlreadyStarted = errors.New("writer already started")
	ErrClosed         = errors.New("writer closed")
	ErrDrainTimeout   = errors.New("timed out draining persist queue")
)
