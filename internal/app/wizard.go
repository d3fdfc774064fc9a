package app

import (
	"context"
	"strings"
	"sync"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// Step identifies a creation wizard state.
type Step int

const (
	StepDetails Step = iota + 1
	StepLocation
	StepPreview
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepLocation:
		return "location"
	case StepPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// EventCreator commits a completed draft.
type EventCreator interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error)
}

// AddressResolver turns coordinates into a human-readable address.
type AddressResolver interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// AddressSearcher turns a free-form address query into coordinates.
type AddressSearcher interface {
	Search(ctx context.Context, query string) (domain.Coordinates, error)
}

// PositionProvider yields the session's current position.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

// AddressUnavailable is shown in the preview when reverse geocoding fails.
// The address text is advisory only and never blocks the commit.
const AddressUnavailable = "Could not retrieve address"

type DetailsInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	Category    string
}

// EventPreview is the confirmation view shown before committing.
type EventPreview struct {
	Draft   domain.EventDraft
	Address string
}

// Wizard is the linear three-step event creation workflow:
// details -> location -> preview -> committed. Backward navigation keeps the
// collected fields; cancel discards them from any state.
type Wizard struct {
	store    EventCreator
	resolver AddressResolver
	searcher AddressSearcher
	locator  PositionProvider

	creatorID string

	mu    sync.Mutex
	step  Step
	draft domain.EventDraft
}

func NewWizard(store EventCreator, resolver AddressResolver, searcher AddressSearcher, locator PositionProvider, creatorID string) *Wizard {
	return &Wizard{
		store:     store,
		resolver:  resolver,
		searcher:  searcher,
		locator:   locator,
		creatorID: creatorID,
		step:      StepDetails,
	}
}

// Step returns the wizard's current state.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the collected fields.
func (w *Wizard) Draft() domain.EventDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	draft := w.draft
	if draft.Location != nil {
		loc := *draft.Location
		draft.Location = &loc
	}
	return draft
}

// SubmitDetails validates the step-1 fields and advances to the location
// step. Every violated field is reported, not just the first.
func (w *Wizard) SubmitDetails(in DetailsInput) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepDetails {
		return domain.ErrInvalidStep
	}

	candidate := w.draft
	candidate.Title = strings.TrimSpace(in.Title)
	candidate.Description = strings.TrimSpace(in.Description)
	candidate.Date = strings.TrimSpace(in.Date)
	candidate.Time = strings.TrimSpace(in.Time)
	candidate.Category = strings.TrimSpace(in.Category)

	var missing []string
	for _, f := range candidate.MissingFields() {
		if f == "location" {
			continue
		}
		missing = append(missing, f)
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}

	w.draft = candidate
	w.step = StepLocation
	return nil
}

// SelectLocation records a coordinate pair picked on the map.
func (w *Wizard) SelectLocation(c domain.Coordinates) error {
	if !c.Valid() {
		return domain.ErrInvalidCoordinates
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepLocation {
		return domain.ErrInvalidStep
	}
	w.draft.Location = &c
	return nil
}

// UseCurrentLocation records the session's current position as the location.
func (w *Wizard) UseCurrentLocation(ctx context.Context) (domain.Coordinates, error) {
	if w.Step() != StepLocation {
		return domain.Coordinates{}, domain.ErrInvalidStep
	}

	c, err := w.locator.CurrentPosition(ctx)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if err := w.SelectLocation(c); err != nil {
		return domain.Coordinates{}, err
	}
	return c, nil
}

// SearchAddress resolves a free-form address and records the hit as the
// location.
func (w *Wizard) SearchAddress(ctx context.Context, query string) (domain.Coordinates, error) {
	if w.Step() != StepLocation {
		return domain.Coordinates{}, domain.ErrInvalidStep
	}

	c, err := w.searcher.Search(ctx, query)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if err := w.SelectLocation(c); err != nil {
		return domain.Coordinates{}, err
	}
	return c, nil
}

// ConfirmLocation advances to the preview step; it is guarded by a recorded
// location.
func (w *Wizard) ConfirmLocation() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepLocation {
		return domain.ErrInvalidStep
	}
	if w.draft.Location == nil {
		return domain.ErrLocationRequired
	}
	w.step = StepPreview
	return nil
}

// Back navigates one step backwards without losing collected fields.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step <= StepDetails {
		return domain.ErrInvalidStep
	}
	w.step--
	return nil
}

// Preview resolves the selected location to a human-readable address for the
// confirmation view. Resolution failure yields a fallback string and never
// fails the call.
func (w *Wizard) Preview(ctx context.Context) (EventPreview, error) {
	w.mu.Lock()
	if w.step != StepPreview {
		w.mu.Unlock()
		return EventPreview{}, domain.ErrInvalidStep
	}
	draft := w.draft
	if draft.Location != nil {
		loc := *draft.Location
		draft.Location = &loc
	}
	w.mu.Unlock()

	address := AddressUnavailable
	if draft.Location != nil && w.resolver != nil {
		if resolved, err := w.resolver.Reverse(ctx, draft.Location.Lat, draft.Location.Lng); err == nil {
			address = resolved
		}
	}

	return EventPreview{Draft: draft, Address: address}, nil
}

// Commit creates the event. On success the wizard resets to a fresh details
// step; on failure it stays at preview with the fields retained for retry.
func (w *Wizard) Commit(ctx context.Context) (domain.Event, error) {
	w.mu.Lock()
	if w.step != StepPreview {
		w.mu.Unlock()
		return domain.Event{}, domain.ErrInvalidStep
	}
	draft := w.draft
	w.mu.Unlock()

	event, err := w.store.CreateEvent(ctx, CreateEventInput{
		Draft:     draft,
		CreatorID: w.creatorID,
	})
	if err != nil {
		return domain.Event{}, err
	}

	w.mu.Lock()
	w.draft = domain.EventDraft{}
	w.step = StepDetails
	w.mu.Unlock()

	return event, nil
}

// Cancel discards all collected data and returns to the initial state. It is
// available from any step.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	w.draft = domain.EventDraft{}
	w.step = StepDetails
	w.mu.Unlock()
}
