package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/app"
	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// EventStore is the minimal interface needed for the event list and direct
// creation endpoints.
type EventStore interface {
	LoadAll(ctx context.Context, userID string) ([]domain.Event, *domain.User, error)
	CachedSnapshot(userID string) ([]domain.Event, *domain.User)
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
}

// HandleEvents returns an HTTP handler for listing the event snapshot and
// creating events directly (the wizard commit goes through the same store).
func HandleEvents(svc EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			userID := r.URL.Query().Get("user_id")
			events, user, err := svc.LoadAll(r.Context(), userID)
			degraded := false
			if err != nil {
				if !isStorageUnavailable(err) {
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
					return
				}
				// Fall back to the in-memory mirror so the session can
				// continue without the backend.
				events, user = svc.CachedSnapshot(userID)
				degraded = true
			}

			resp := snapshotResponse{
				Events:   make([]eventResponse, 0, len(events)),
				Degraded: degraded,
			}
			for _, e := range events {
				resp.Events = append(resp.Events, eventResponseFrom(e))
			}
			if user != nil {
				u := userResponseFrom(*user)
				resp.User = &u
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				writeError(w, http.StatusBadRequest, codeUserRequired, "X-User-ID header required")
				return
			}

			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Draft:     req.toDraft(),
				CreatorID: userID,
			})
			if err != nil {
				var verr *domain.ValidationError
				switch {
				case errors.As(err, &verr):
					writeValidationError(w, verr)
				case err == domain.ErrInvalidCoordinates:
					writeError(w, http.StatusBadRequest, codeInvalidCoordinates, err.Error())
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

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(eventResponseFrom(event))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

type createEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Category    string   `json:"category"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

func (r createEventRequest) toDraft() domain.EventDraft {
	draft := domain.EventDraft{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Time:        r.Time,
		Category:    r.Category,
	}
	if r.Lat != nil && r.Lng != nil {
		draft.Location = &domain.Coordinates{Lat: *r.Lat, Lng: *r.Lng}
	}
	return draft
}

type snapshotResponse struct {
	Events   []eventResponse `json:"events"`
	User     *userResponse   `json:"user,omitempty"`
	Degraded bool            `json:"degraded"`
}

type eventResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Category        string    `json:"category"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	CreatorID       string    `json:"creator_id"`
	CreatorName     string    `json:"creator_name"`
	InterestedUsers []string  `json:"interested_users"`
	CreatedAt       time.Time `json:"created_at"`
}

func eventResponseFrom(e domain.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date,
		Time:            e.Time,
		Category:        e.Category,
		Lat:             e.Lat,
		Lng:             e.Lng,
		CreatorID:       e.CreatorID,
		CreatorName:     e.CreatorName,
		InterestedUsers: emptyIfNil(e.InterestedUserIDs),
		CreatedAt:       e.CreatedAt,
	}
}
