package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/luisltferreira/CliMate-App/internal/clock"
	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// StoreRepository is the persistence adapter surface the entity store needs.
// Both the postgres and the local bindings implement it.
type StoreRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvents(ctx context.Context) ([]domain.Event, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
	CreateEvent(ctx context.Context, event domain.Event) error
	UpdateUserCreatedSet(ctx context.Context, userID string, eventIDs []string) error
}

// EntityStore owns the canonical in-memory collections and writes through to
// the persistence adapter. The mirror is committed only after the adapter
// write succeeds, so a failed write leaves in-memory state unchanged.
type EntityStore struct {
	repo  StoreRepository
	clock clock.Clock

	mu     sync.Mutex
	events []domain.Event
	users  map[string]domain.User
}

func NewEntityStore(repo StoreRepository, clk clock.Clock) *EntityStore {
	return &EntityStore{
		repo:  repo,
		clock: clk,
		users: make(map[string]domain.User),
	}
}

// LoadAll fetches the durable snapshot of events plus the identified user
// (nil when userID is empty or unknown). Adapter failures are reported as
// ErrStorageUnavailable; the mirror keeps its last good contents so the
// caller can fall back to a degraded in-memory session.
func (s *EntityStore) LoadAll(ctx context.Context, userID string) ([]domain.Event, *domain.User, error) {
	events, err := s.repo.GetEvents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	var user *domain.User
	if userID != "" {
		user, err = s.repo.GetUser(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}

	s.mu.Lock()
	s.events = cloneEvents(events)
	if user != nil {
		s.users[user.ID] = cloneUser(*user)
	}
	s.mu.Unlock()

	return events, user, nil
}

// CachedSnapshot returns the mirror's last good contents, for use when the
// adapter is unreachable.
func (s *EntityStore) CachedSnapshot(userID string) ([]domain.Event, *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := cloneEvents(s.events)
	if u, ok := s.users[userID]; ok {
		user := cloneUser(u)
		return events, &user
	}
	return events, nil
}

type CreateEventInput struct {
	Draft     domain.EventDraft
	CreatorID string
}

// CreateEvent validates the whole draft before any persistence attempt,
// assigns a fresh id, stamps the creator, and persists the event together
// with the creator-set append in one transaction.
func (s *EntityStore) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if missing := in.Draft.MissingFields(); len(missing) > 0 {
		return domain.Event{}, &domain.ValidationError{Fields: missing}
	}
	if !in.Draft.Location.Valid() {
		return domain.Event{}, domain.ErrInvalidCoordinates
	}
	if in.CreatorID == "" {
		return domain.Event{}, domain.ErrUserNotFound
	}

	var (
		event   domain.Event
		creator domain.User
	)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetUser(txCtx, in.CreatorID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		event = domain.Event{
			ID:                newID(),
			Title:             strings.TrimSpace(in.Draft.Title),
			Description:       strings.TrimSpace(in.Draft.Description),
			Date:              in.Draft.Date,
			Time:              in.Draft.Time,
			Category:          in.Draft.Category,
			Lat:               in.Draft.Location.Lat,
			Lng:               in.Draft.Location.Lng,
			CreatorID:         user.ID,
			CreatorName:       user.Name,
			InterestedUserIDs: []string{},
			CreatedAt:         s.clock.Now(),
		}

		if err := s.repo.CreateEvent(txCtx, event); err != nil {
			return err
		}

		created := append(append([]string{}, user.CreatedEventIDs...), event.ID)
		if err := s.repo.UpdateUserCreatedSet(txCtx, user.ID, created); err != nil {
			return err
		}

		creator = *user
		creator.CreatedEventIDs = created
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}

	s.mu.Lock()
	s.events = append(s.events, cloneEvent(event))
	s.users[creator.ID] = cloneUser(creator)
	s.mu.Unlock()

	return event, nil
}

// RegisterUser finds an existing user by exact, case-sensitive name match or
// creates one with empty id-sets. The second return value reports whether a
// new user was created.
func (s *EntityStore) RegisterUser(ctx context.Context, name string) (domain.User, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, false, domain.ErrNameRequired
	}

	existing, err := s.repo.GetUserByName(ctx, name)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if existing != nil {
		s.rememberUser(*existing)
		return *existing, false, nil
	}

	user := domain.User{
		ID:                 newID(),
		Name:               name,
		CreatedEventIDs:    []string{},
		InterestedEventIDs: []string{},
		CreatedAt:          s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// A concurrent registration with the same name may win the race.
		if err == domain.ErrNameTaken {
			winner, lookupErr := s.repo.GetUserByName(ctx, name)
			if lookupErr == nil && winner != nil {
				s.rememberUser(*winner)
				return *winner, false, nil
			}
		}
		return domain.User{}, false, err
	}

	s.rememberUser(user)
	return user, true, nil
}

// ApplyInterest commits a successfully persisted interest toggle to the
// mirror, keeping both relation sides consistent.
func (s *EntityStore) ApplyInterest(eventID, userID string, nowInterested bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		if nowInterested {
			s.events[i].InterestedUserIDs = appendID(s.events[i].InterestedUserIDs, userID)
		} else {
			s.events[i].InterestedUserIDs = removeID(s.events[i].InterestedUserIDs, userID)
		}
		break
	}

	if u, ok := s.users[userID]; ok {
		if nowInterested {
			u.InterestedEventIDs = appendID(u.InterestedEventIDs, eventID)
		} else {
			u.InterestedEventIDs = removeID(u.InterestedEventIDs, eventID)
		}
		s.users[userID] = u
	}
}

func (s *EntityStore) rememberUser(u domain.User) {
	s.mu.Lock()
	s.users[u.ID] = cloneUser(u)
	s.mu.Unlock()
}

func cloneEvent(e domain.Event) domain.Event {
	e.InterestedUserIDs = append([]string{}, e.InterestedUserIDs...)
	return e
}

func cloneEvents(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[i] = cloneEvent(e)
	}
	return out
}

func cloneUser(u domain.User) domain.User {
	u.CreatedEventIDs = append([]string{}, u.CreatedEventIDs...)
	u.InterestedEventIDs = append([]string{}, u.InterestedEventIDs...)
	return u
}

func appendID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
