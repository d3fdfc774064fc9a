// Package localdb is the local persistence binding. It keeps the same two
// durable blobs the browser variant keeps in localStorage -- the serialized
// event list and the current-user record -- under the same fixed keys, in a
// single-table sqlite database.
package localdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/domain"

	_ "modernc.org/sqlite"
)

const (
	eventsKey = "events"
	userKey   = "user"
)

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store implements the persistence adapter contract over a local sqlite file.
// It holds at most one user record, like the browser variant's single
// current-user slot.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	// sqlite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type txKey struct{}

// WithTx runs fn inside a transaction; nested calls join the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// Serialized forms mirror the browser variant's JSON field names.

type eventRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Category        string    `json:"category"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	Creator         string    `json:"creator"`
	CreatorName     string    `json:"creatorName"`
	InterestedUsers []string  `json:"interestedUsers"`
	CreatedAt       time.Time `json:"createdAt"`
}

type userRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedEvents    []string  `json:"createdEvents"`
	InterestedEvents []string  `json:"interestedEvents"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (s *Store) GetEvents(ctx context.Context) ([]domain.Event, error) {
	records, err := s.loadEvents(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, rec.toDomain())
	}
	return events, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	records, err := s.loadEvents(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			event := rec.toDomain()
			return &event, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	rec, err := s.loadUser(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.ID != id {
		return nil, nil
	}
	user := rec.toDomain()
	return &user, nil
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	rec, err := s.loadUser(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Name != name {
		return nil, nil
	}
	user := rec.toDomain()
	return &user, nil
}

// CreateUser stores the user as the current-user record, replacing any
// previous session's record. Events created by earlier users remain in the
// event blob, as they do in the browser variant.
func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	existing, err := s.loadUser(ctx)
	if err != nil {
		return err
	}
	if existing != nil && existing.Name == user.Name && existing.ID != user.ID {
		return domain.ErrNameTaken
	}
	return s.saveUser(ctx, userRecordFromDomain(user))
}

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	records, err := s.loadEvents(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ID == event.ID {
			return domain.ErrDuplicateEventID
		}
	}
	records = append(records, eventRecordFromDomain(event))
	return s.saveEvents(ctx, records)
}

func (s *Store) UpdateUserCreatedSet(ctx context.Context, userID string, eventIDs []string) error {
	return s.updateUser(ctx, userID, func(rec *userRecord) {
		rec.CreatedEvents = append([]string{}, eventIDs...)
	})
}

func (s *Store) UpdateUserInterestSet(ctx context.Context, userID string, eventIDs []string) error {
	return s.updateUser(ctx, userID, func(rec *userRecord) {
		rec.InterestedEvents = append([]string{}, eventIDs...)
	})
}

func (s *Store) SetEventInterest(ctx context.Context, eventID, userID string, interested bool) error {
	records, err := s.loadEvents(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID != eventID {
			continue
		}
		if interested {
			records[i].InterestedUsers = addMember(records[i].InterestedUsers, userID)
		} else {
			records[i].InterestedUsers = dropMember(records[i].InterestedUsers, userID)
		}
		return s.saveEvents(ctx, records)
	}
	return domain.ErrEventNotFound
}

func (s *Store) updateUser(ctx context.Context, userID string, mutate func(*userRecord)) error {
	rec, err := s.loadUser(ctx)
	if err != nil {
		return err
	}
	if rec == nil || rec.ID != userID {
		return domain.ErrUserNotFound
	}
	mutate(rec)
	return s.saveUser(ctx, *rec)
}

func (s *Store) loadEvents(ctx context.Context) ([]eventRecord, error) {
	raw, err := s.loadBlob(ctx, eventsKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var records []eventRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode events blob: %w", err)
	}
	return records, nil
}

func (s *Store) saveEvents(ctx context.Context, records []eventRecord) error {
	if records == nil {
		records = []eventRecord{}
	}
	return s.saveBlob(ctx, eventsKey, records)
}

func (s *Store) loadUser(ctx context.Context) (*userRecord, error) {
	raw, err := s.loadBlob(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var rec userRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode user blob: %w", err)
	}
	return &rec, nil
}

func (s *Store) saveUser(ctx context.Context, rec userRecord) error {
	return s.saveBlob(ctx, userKey, rec)
}

func (s *Store) loadBlob(ctx context.Context, key string) (string, error) {
	var value string
	err := s.q(ctx).QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) saveBlob(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.q(ctx).ExecContext(ctx, `
INSERT INTO app_state (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r eventRecord) toDomain() domain.Event {
	return domain.Event{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Date:              r.Date,
		Time:              r.Time,
		Category:          r.Category,
		Lat:               r.Lat,
		Lng:               r.Lng,
		CreatorID:         r.Creator,
		CreatorName:       r.CreatorName,
		InterestedUserIDs: append([]string{}, r.InterestedUsers...),
		CreatedAt:         r.CreatedAt,
	}
}

func eventRecordFromDomain(e domain.Event) eventRecord {
	return eventRecord{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date,
		Time:            e.Time,
		Category:        e.Category,
		Lat:             e.Lat,
		Lng:             e.Lng,
		Creator:         e.CreatorID,
		CreatorName:     e.CreatorName,
		InterestedUsers: append([]string{}, e.InterestedUserIDs...),
		CreatedAt:       e.CreatedAt,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:                 r.ID,
		Name:               r.Name,
		CreatedEventIDs:    append([]string{}, r.CreatedEvents...),
		InterestedEventIDs: append([]string{}, r.InterestedEvents...),
		CreatedAt:          r.CreatedAt,
	}
}

func userRecordFromDomain(u domain.User) userRecord {
	return userRecord{
		ID:               u.ID,
		Name:             u.Name,
		CreatedEvents:    append([]string{}, u.CreatedEventIDs...),
		InterestedEvents: append([]string{}, u.InterestedEventIDs...),
		CreatedAt:        u.CreatedAt,
	}
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
