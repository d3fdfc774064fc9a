package domain

import "time"

// Event is a happening pinned on the map. Immutable after creation except for
// InterestedUserIDs, which only the interest ledger mutates.
type Event struct {
	ID                string
	Title             string
	Description       string
	Date              string // YYYY-MM-DD
	Time              string // HH:MM
	Category          string
	Lat               float64
	Lng               float64
	CreatorID         string
	CreatorName       string
	InterestedUserIDs []string
	CreatedAt         time.Time
}
