package domain

import "time"

// User is an account identified by a display name. The two id-sets reference
// events by id only; they never hold the event records themselves.
type User struct {
	ID                 string
	Name               string
	CreatedEventIDs    []string
	InterestedEventIDs []string
	CreatedAt          time.Time
}
