package app

import (
	"context"
	"errors"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// fakeRepo is an in-memory persistence adapter with transaction rollback
// emulated by snapshot/restore, plus injectable failures.
type fakeRepo struct {
	events []domain.Event
	users  map[string]domain.User

	getEventsErr          error
	getUserErr            error
	createUserErr         error
	createEventErr        error
	updateCreatedSetErr   error
	updateInterestSetErr  error
	setEventInterestErr   error
	createUserCalls       int
	updateInterestSetCalls int
}

func newFakeRepo(events []domain.Event, users []domain.User) *fakeRepo {
	repo := &fakeRepo{
		events: append([]domain.Event{}, events...),
		users:  make(map[string]domain.User, len(users)),
	}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshotEvents := make([]domain.Event, len(r.events))
	for i, e := range r.events {
		e.InterestedUserIDs = append([]string{}, e.InterestedUserIDs...)
		snapshotEvents[i] = e
	}
	snapshotUsers := make(map[string]domain.User, len(r.users))
	for id, u := range r.users {
		u.CreatedEventIDs = append([]string{}, u.CreatedEventIDs...)
		u.InterestedEventIDs = append([]string{}, u.InterestedEventIDs...)
		snapshotUsers[id] = u
	}

	if err := fn(ctx); err != nil {
		r.events = snapshotEvents
		r.users = snapshotUsers
		return err
	}
	return nil
}

func (r *fakeRepo) GetEvents(context.Context) ([]domain.Event, error) {
	if r.getEventsErr != nil {
		return nil, r.getEventsErr
	}
	return append([]domain.Event{}, r.events...), nil
}

func (r *fakeRepo) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	for i := range r.events {
		if r.events[i].ID == id {
			e := r.events[i]
			e.InterestedUserIDs = append([]string{}, e.InterestedUserIDs...)
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	if r.getUserErr != nil {
		return nil, r.getUserErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeRepo) GetUserByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CreateUser(_ context.Context, user domain.User) error {
	r.createUserCalls++
	if r.createUserErr != nil {
		return r.createUserErr
	}
	for _, existing := range r.users {
		if existing.Name == user.Name {
			return domain.ErrNameTaken
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) CreateEvent(_ context.Context, event domain.Event) error {
	if r.createEventErr != nil {
		return r.createEventErr
	}
	for _, existing := range r.events {
		if existing.ID == event.ID {
			return domain.ErrDuplicateEventID
		}
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeRepo) UpdateUserCreatedSet(_ context.Context, userID string, eventIDs []string) error {
	if r.updateCreatedSetErr != nil {
		return r.updateCreatedSetErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CreatedEventIDs = append([]string{}, eventIDs...)
	r.users[userID] = u
	return nil
}

func (r *fakeRepo) UpdateUserInterestSet(_ context.Context, userID string, eventIDs []string) error {
	r.updateInterestSetCalls++
	if r.updateInterestSetErr != nil {
		return r.updateInterestSetErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.InterestedEventIDs = append([]string{}, eventIDs...)
	r.users[userID] = u
	return nil
}

func (r *fakeRepo) SetEventInterest(_ context.Context, eventID, userID string, interested bool) error {
	if r.setEventInterestErr != nil {
		return r.setEventInterestErr
	}
	for i := range r.events {
		if r.events[i].ID != eventID {
			continue
		}
		if interested {
			r.events[i].InterestedUserIDs = appendID(append([]string{}, r.events[i].InterestedUserIDs...), userID)
		} else {
			r.events[i].InterestedUserIDs = removeID(append([]string{}, r.events[i].InterestedUserIDs...), userID)
		}
		return nil
	}
	return domain.ErrEventNotFound
}

var errBackendDown = errors.New("backend down")
