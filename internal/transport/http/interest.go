package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/luisltferreira/CliMate-App/internal/app"
	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// InterestToggler is the minimal interface needed for the interest endpoint.
type InterestToggler interface {
	ToggleInterest(ctx context.Context, userID, eventID string) (app.InterestState, error)
}

// HandleInterest returns an HTTP handler for POST /events/{id}/interest.
func HandleInterest(svc InterestToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := parseEventInterestPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "X-User-ID header required")
			return
		}

		state, err := svc.ToggleInterest(r.Context(), userID, eventID)
		if err != nil {
			switch {
			case err == domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case err == domain.ErrUserNotFound:
				writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
			case err == domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case isStorageUnavailable(err):
				writeError(w, http.StatusServiceUnavailable, codeStorageUnavailable, "storage unavailable")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := interestResponse{
			Interested:      state.NowInterested,
			TotalInterested: state.TotalInterested,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type interestResponse struct {
	Interested      bool `json:"interested"`
	TotalInterested int  `json:"total_interested"`
}

// parseEventInterestPath matches /events/{id}/interest.
func parseEventInterestPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/events/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/interest")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
