package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

const eventColumns = `id, title, description, date, time, category, lat, lng, creator_id, creator_name, interested_users, created_at`

func (r *Repository) GetEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at, id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *Repository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (r *Repository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, title, description, date, time, category, lat, lng, creator_id, creator_name, interested_users, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Category,
		event.Lat,
		event.Lng,
		event.CreatorID,
		event.CreatorName,
		event.InterestedUserIDs,
		event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEventID
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// SetEventInterest reads the membership row under a lock and writes the
// adjusted set back, so both directions of a toggle commit in the same
// transaction.
func (r *Repository) SetEventInterest(ctx context.Context, eventID, userID string, interested bool) error {
	const query = `SELECT interested_users FROM events WHERE id = $1 FOR UPDATE`

	var members []string
	if err := r.queryRow(ctx, query, eventID).Scan(&members); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("get event interest: %w", err)
	}

	if interested {
		members = addMember(members, userID)
	} else {
		members = dropMember(members, userID)
	}

	const stmt = `UPDATE events SET interested_users = $2 WHERE id = $1`
	if _, err := r.exec(ctx, stmt, eventID, members); err != nil {
		return fmt.Errorf("set event interest: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Time,
		&e.Category,
		&e.Lat,
		&e.Lng,
		&e.CreatorID,
		&e.CreatorName,
		&e.InterestedUserIDs,
		&e.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func addMember(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func dropMember(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
