// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// GeoPoint is a WGS84 coordinate attached to an event.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event represents a single recorded transaction or expense.
// Immutable once recorded; the event log owns the canonical copy.
type Event struct {
	ID        string    // unique id for idempotency
	Amount    float64   // positive amount in the account currency
	Timestamp time.Time // when the transaction/expense occurred
	Merchant  string    // merchant label (fraud domain)
	Category  string    // spending category, e.g. "dining"
	Location  *GeoPoint // optional coordinate
	Recurring bool      // marked as a recurring charge by the host
}

// Validate checks the fields required before an event may be recorded.
// Amount must be a finite positive number and the timestamp must be set.
func (e Event) Validate() error {
	if e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	if e.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}

// HasLocation reports whether the event carries a coordinate.
func (e Event) HasLocation() bool {
	return e.Location != nil
}
