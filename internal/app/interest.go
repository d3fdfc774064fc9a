package app

import (
	"context"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// LedgerRepository is the persistence adapter surface the interest ledger
// needs.
type LedgerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUserInterestSet(ctx context.Context, userID string, eventIDs []string) error
	SetEventInterest(ctx context.Context, eventID, userID string, interested bool) error
}

// InterestState is the outcome of a toggle.
type InterestState struct {
	NowInterested   bool
	TotalInterested int
}

// InterestLedger maintains the bidirectional user/event interest relation.
// Both sides are written inside one transaction so a failure on either side
// rolls back the whole toggle. A user may mark interest in their own event.
// Concurrent toggles from separate sessions are last-write-wins.
type InterestLedger struct {
	repo   LedgerRepository
	mirror *EntityStore
}

func NewInterestLedger(repo LedgerRepository, mirror *EntityStore) *InterestLedger {
	return &InterestLedger{
		repo:   repo,
		mirror: mirror,
	}
}

// ToggleInterest flips the membership of userID in eventID's interested set
// and of eventID in the user's interested set, together. Invoking it twice
// with no intervening change returns the relation to its prior state.
func (l *InterestLedger) ToggleInterest(ctx context.Context, userID, eventID string) (InterestState, error) {
	var state InterestState

	err := l.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := l.repo.GetEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return domain.ErrEventNotFound
		}

		user, err := l.repo.GetUser(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		// Membership is decided from the user's side of the relation.
		interested := !containsID(user.InterestedEventIDs, eventID)

		var userSet []string
		if interested {
			userSet = appendID(append([]string{}, user.InterestedEventIDs...), eventID)
		} else {
			userSet = removeID(append([]string{}, user.InterestedEventIDs...), eventID)
		}

		if err := l.repo.SetEventInterest(txCtx, eventID, userID, interested); err != nil {
			return err
		}
		if err := l.repo.UpdateUserInterestSet(txCtx, userID, userSet); err != nil {
			return err
		}

		var eventSet []string
		if interested {
			eventSet = appendID(append([]string{}, event.InterestedUserIDs...), userID)
		} else {
			eventSet = removeID(append([]string{}, event.InterestedUserIDs...), userID)
		}

		state = InterestState{
			NowInterested:   interested,
			TotalInterested: len(eventSet),
		}
		return nil
	})
	if err != nil {
		return InterestState{}, err
	}

	if l.mirror != nil {
		l.mirror.ApplyInterest(eventID, userID, state.NowInterested)
	}
	return state, nil
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
