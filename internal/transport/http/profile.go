package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// HandleProfile returns an HTTP handler for GET /users/{id}/events: the
// profile view splitting the snapshot into created and interested events.
func HandleProfile(svc EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseProfilePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		events, user, err := svc.LoadAll(r.Context(), userID)
		if err != nil {
			if isStorageUnavailable(err) {
				writeError(w, http.StatusServiceUnavailable, codeStorageUnavailable, "storage unavailable")
			} else {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		if user == nil {
			writeError(w, http.StatusNotFound, codeUserNotFound, domain.ErrUserNotFound.Error())
			return
		}

		resp := profileResponse{
			User:       userResponseFrom(*user),
			Created:    []eventResponse{},
			Interested: []eventResponse{},
		}
		for _, e := range events {
			if e.CreatorID == user.ID {
				resp.Created = append(resp.Created, eventResponseFrom(e))
			}
			for _, id := range e.InterestedUserIDs {
				if id == user.ID {
					resp.Interested = append(resp.Interested, eventResponseFrom(e))
					break
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type profileResponse struct {
	User       userResponse    `json:"user"`
	Created    []eventResponse `json:"created"`
	Interested []eventResponse `json:"interested"`
}

// parseProfilePath matches /users/{id}/events.
func parseProfilePath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/users/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/events")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
