package domain

import (
	"errors"
	"strings"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNameRequired       = errors.New("name required")
	ErrNameTaken          = errors.New("name already taken")
	ErrDuplicateEventID   = errors.New("duplicate event id")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPermissionDenied   = errors.New("location permission denied")
	ErrLocationRequired   = errors.New("location required")
	ErrAddressNotFound    = errors.New("address not found")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidStep        = errors.New("invalid wizard step")
	ErrInvalidID          = errors.New("invalid id")
)

// ValidationError lists every draft field that failed validation, not just the
// first one encountered.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
