package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// UserRegistrar is the minimal interface needed to start a session.
type UserRegistrar interface {
	RegisterUser(ctx context.Context, name string) (domain.User, bool, error)
}

// HandleSession returns an HTTP handler for the name-based signup/login flow:
// an exact name match returns the existing account, anything else creates one.
func HandleSession(svc UserRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req sessionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, created, err := svc.RegisterUser(r.Context(), req.Name)
		if err != nil {
			switch {
			case err == domain.ErrNameRequired:
				writeError(w, http.StatusBadRequest, codeNameRequired, "Please enter your name")
			case isStorageUnavailable(err):
				writeError(w, http.StatusServiceUnavailable, codeStorageUnavailable, "storage unavailable")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(userResponseFrom(user))
	}
}

type sessionRequest struct {
	Name string `json:"name"`
}

type userResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedEvents    []string  `json:"created_events"`
	InterestedEvents []string  `json:"interested_events"`
	CreatedAt        time.Time `json:"created_at"`
}

func userResponseFrom(u domain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Name:             u.Name,
		CreatedEvents:    emptyIfNil(u.CreatedEventIDs),
		InterestedEvents: emptyIfNil(u.InterestedEventIDs),
		CreatedAt:        u.CreatedAt,
	}
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
