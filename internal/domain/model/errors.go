package model

import "errors"

// Validation sentinels. Malformed events are rejected synchronously at
// submission; they never reach the event log.
var (
	ErrInvalidAmount    = errors.New("amount must be a finite positive number")
	ErrMissingTimestamp = errors.New("timestamp is required")
)
