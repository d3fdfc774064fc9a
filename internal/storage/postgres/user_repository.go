package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const query = `
SELECT id, name, created_events, interested_events, created_at
FROM users
WHERE id = $1`

	var u domain.User
	err := r.queryRow(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.CreatedEventIDs, &u.InterestedEventIDs, &u.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	const query = `
SELECT id, name, created_events, interested_events, created_at
FROM users
WHERE name = $1`

	var u domain.User
	err := r.queryRow(ctx, query, name).
		Scan(&u.ID, &u.Name, &u.CreatedEventIDs, &u.InterestedEventIDs, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by name: %w", err)
	}
	return &u, nil
}

func (r *Repository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, name, created_events, interested_events, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt,
		user.ID,
		user.Name,
		user.CreatedEventIDs,
		user.InterestedEventIDs,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNameTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) UpdateUserCreatedSet(ctx context.Context, userID string, eventIDs []string) error {
	return r.updateUserSet(ctx, `UPDATE users SET created_events = $2 WHERE id = $1`, userID, eventIDs, "update created set")
}

func (r *Repository) UpdateUserInterestSet(ctx context.Context, userID string, eventIDs []string) error {
	return r.updateUserSet(ctx, `UPDATE users SET interested_events = $2 WHERE id = $1`, userID, eventIDs, "update interest set")
}

func (r *Repository) updateUserSet(ctx context.Context, stmt, userID string, eventIDs []string, op string) error {
	if eventIDs == nil {
		eventIDs = []string{}
	}
	tag, err := r.exec(ctx, stmt, userID, eventIDs)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
