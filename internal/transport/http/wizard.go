package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/luisltferreira/CliMate-App/internal/app"
	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// WizardFactory builds a fresh creation wizard bound to a creator.
type WizardFactory func(creatorID string) *app.Wizard

// WizardRegistry holds one wizard per session, keyed by user id.
type WizardRegistry struct {
	factory WizardFactory

	mu      sync.Mutex
	wizards map[string]*app.Wizard
}

func NewWizardRegistry(factory WizardFactory) *WizardRegistry {
	return &WizardRegistry{
		factory: factory,
		wizards: make(map[string]*app.Wizard),
	}
}

// ForUser returns the user's wizard, creating it on first use.
func (r *WizardRegistry) ForUser(userID string) *app.Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.wizards[userID]; ok {
		return w
	}
	w := r.factory(userID)
	r.wizards[userID] = w
	return w
}

// HandleWizard returns an HTTP handler driving the per-session creation
// workflow under /wizard/*.
func HandleWizard(reg *WizardRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "X-User-ID header required")
			return
		}
		wizard := reg.ForUser(userID)

		switch r.URL.Path {
		case "/wizard":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			writeWizardState(w, wizard, http.StatusOK)
		case "/wizard/details":
			handleWizardDetails(w, r, wizard)
		case "/wizard/location":
			handleWizardLocation(w, r, wizard)
		case "/wizard/next":
			if !requirePost(w, r) {
				return
			}
			if err := wizard.ConfirmLocation(); err != nil {
				writeWizardError(w, err)
				return
			}
			writeWizardState(w, wizard, http.StatusOK)
		case "/wizard/back":
			if !requirePost(w, r) {
				return
			}
			if err := wizard.Back(); err != nil {
				writeWizardError(w, err)
				return
			}
			writeWizardState(w, wizard, http.StatusOK)
		case "/wizard/preview":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			preview, err := wizard.Preview(r.Context())
			if err != nil {
				writeWizardError(w, err)
				return
			}
			resp := previewResponse{
				Step:    wizard.Step().String(),
				Draft:   draftResponseFrom(preview.Draft),
				Address: preview.Address,
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case "/wizard/commit":
			if !requirePost(w, r) {
				return
			}
			event, err := wizard.Commit(r.Context())
			if err != nil {
				writeWizardError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(eventResponseFrom(event))
		case "/wizard/cancel":
			if !requirePost(w, r) {
				return
			}
			wizard.Cancel()
			writeWizardState(w, wizard, http.StatusOK)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleWizardDetails(w http.ResponseWriter, r *http.Request, wizard *app.Wizard) {
	if !requirePost(w, r) {
		return
	}

	var req wizardDetailsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	err := wizard.SubmitDetails(app.DetailsInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Category:    req.Category,
	})
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeWizardState(w, wizard, http.StatusOK)
}

func handleWizardLocation(w http.ResponseWriter, r *http.Request, wizard *app.Wizard) {
	if !requirePost(w, r) {
		return
	}

	var req wizardLocationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	var err error
	switch req.Source {
	case "map":
		if req.Lat == nil || req.Lng == nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "lat and lng are required for source map")
			return
		}
		err = wizard.SelectLocation(domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng})
	case "current":
		_, err = wizard.UseCurrentLocation(r.Context())
	case "search":
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "query is required for source search")
			return
		}
		_, err = wizard.SearchAddress(r.Context(), req.Query)
	default:
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "source must be one of map, current, search")
		return
	}
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeWizardState(w, wizard, http.StatusOK)
}

func writeWizardError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case err == domain.ErrInvalidStep:
		writeError(w, http.StatusConflict, codeInvalidStep, err.Error())
	case err == domain.ErrLocationRequired:
		writeError(w, http.StatusConflict, codeLocationRequired, "Please select a location for your event")
	case err == domain.ErrInvalidCoordinates:
		writeError(w, http.StatusBadRequest, codeInvalidCoordinates, err.Error())
	case err == domain.ErrAddressNotFound:
		writeError(w, http.StatusNotFound, codeAddressNotFound, "Address not found. Please try again or select location on map.")
	case err == domain.ErrPermissionDenied:
		writeError(w, http.StatusConflict, codePermissionDenied, err.Error())
	case err == domain.ErrUserNotFound:
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case isStorageUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, codeStorageUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func writeWizardState(w http.ResponseWriter, wizard *app.Wizard, status int) {
	resp := wizardStateResponse{
		Step:  wizard.Step().String(),
		Draft: draftResponseFrom(wizard.Draft()),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

type wizardDetailsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
}

type wizardLocationRequest struct {
	Source string   `json:"source"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	Query  string   `json:"query,omitempty"`
}

type wizardStateResponse struct {
	Step  string        `json:"step"`
	Draft draftResponse `json:"draft"`
}

type previewResponse struct {
	Step    string        `json:"step"`
	Draft   draftResponse `json:"draft"`
	Address string        `json:"address"`
}

type draftResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Category    string   `json:"category"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

func draftResponseFrom(d domain.EventDraft) draftResponse {
	resp := draftResponse{
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Time:        d.Time,
		Category:    d.Category,
	}
	if d.Location != nil {
		lat, lng := d.Location.Lat, d.Location.Lng
		resp.Lat, resp.Lng = &lat, &lng
	}
	return resp
}
