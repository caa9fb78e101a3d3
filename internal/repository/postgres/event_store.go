package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tzschedule/internal/domain"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// the same store implementation serves plain reads and transactional writes.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type eventStore struct {
	q querier
}

// NewEventStore returns an EventStore over the database handle for lock-free
// reads and standalone writes.
func NewEventStore(db *sql.DB) domain.EventStore {
	return &eventStore{q: db}
}

const eventColumns = `
	id, title, description, start_at_utc, end_at_utc, start_local, end_local,
	timezone, created_by_profile_id, created_by_timezone,
	updated_by_profile_id, updated_by_timezone, version, created_at, updated_at`

func scanEvent(scan func(dest ...any) error) (*domain.Event, error) {
	e := &domain.Event{}
	var desc, startLocal, endLocal, tz sql.NullString
	var createdBy, createdByTZ, updatedBy, updatedByTZ sql.NullString
	err := scan(
		&e.ID, &e.Title, &desc, &e.StartAtUTC, &e.EndAtUTC, &startLocal, &endLocal,
		&tz, &createdBy, &createdByTZ, &updatedBy, &updatedByTZ,
		&e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Description = desc.String
	e.StartLocal = startLocal.String
	e.EndLocal = endLocal.String
	e.Timezone = tz.String
	e.CreatedByProfileID = createdBy.String
	e.CreatedByTimezone = createdByTZ.String
	e.UpdatedByProfileID = updatedBy.String
	e.UpdatedByTimezone = updatedByTZ.String
	e.StartAtUTC = e.StartAtUTC.UTC()
	e.EndAtUTC = e.EndAtUTC.UTC()
	return e, nil
}

// nullIfEmpty maps empty strings onto SQL NULL for optional text columns.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *eventStore) CreateEvent(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (
			id, title, description, start_at_utc, end_at_utc, start_local, end_local,
			timezone, created_by_profile_id, created_by_timezone, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.q.ExecContext(ctx, query,
		e.ID, e.Title, nullIfEmpty(e.Description), e.StartAtUTC, e.EndAtUTC,
		nullIfEmpty(e.StartLocal), nullIfEmpty(e.EndLocal), nullIfEmpty(e.Timezone),
		nullIfEmpty(e.CreatedByProfileID), nullIfEmpty(e.CreatedByTimezone),
		e.Version, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (s *eventStore) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(s.q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *eventStore) UpdateEvent(ctx context.Context, e *domain.Event, expectedVersion int64) error {
	query := `
		UPDATE events
		SET title = $3, description = $4, start_at_utc = $5, end_at_utc = $6,
			start_local = $7, end_local = $8, timezone = $9,
			updated_by_profile_id = $10, updated_by_timezone = $11,
			version = $12, updated_at = $13
		WHERE id = $1 AND version = $2
	`
	result, err := s.q.ExecContext(ctx, query,
		e.ID, expectedVersion,
		e.Title, nullIfEmpty(e.Description), e.StartAtUTC, e.EndAtUTC,
		nullIfEmpty(e.StartLocal), nullIfEmpty(e.EndLocal), nullIfEmpty(e.Timezone),
		nullIfEmpty(e.UpdatedByProfileID), nullIfEmpty(e.UpdatedByTimezone),
		e.Version, e.UpdatedAt,
	)
	if err != nil {
		return mapConflict(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either the row is gone or another update won the version race.
		var exists bool
		if err := s.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrConflictingUpdate
		}
		return domain.ErrNotFound
	}
	return nil
}

func (s *eventStore) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *eventStore) ListEventsByProfileID(ctx context.Context, profileID string) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.start_at_utc, e.end_at_utc,
			e.start_local, e.end_local, e.timezone, e.created_by_profile_id,
			e.created_by_timezone, e.updated_by_profile_id, e.updated_by_timezone,
			e.version, e.created_at, e.updated_at
		FROM events e
		JOIN event_assignments a ON a.event_id = e.id
		WHERE a.profile_id = $1
		ORDER BY e.start_at_utc ASC
	`
	rows, err := s.q.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *eventStore) GetAssignedProfileIDs(ctx context.Context, eventID string) ([]string, error) {
	query := `
		SELECT profile_id
		FROM event_assignments
		WHERE event_id = $1
		ORDER BY profile_id
	`
	rows, err := s.q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *eventStore) ListAssignedProfiles(ctx context.Context, eventID string) ([]*domain.Profile, error) {
	query := `
		SELECT p.id, p.name, p.timezone, p.created_at, p.updated_at
		FROM event_assignments a
		JOIN profiles p ON p.id = a.profile_id
		WHERE a.event_id = $1
		ORDER BY p.name, p.id
	`
	rows, err := s.q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		p := &domain.Profile{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Timezone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *eventStore) AddAssignments(ctx context.Context, eventID string, profileIDs []string, assignedAt time.Time) error {
	if len(profileIDs) == 0 {
		return nil
	}
	// ON CONFLICT keeps set semantics: adding an existing member is a no-op.
	query := `
		INSERT INTO event_assignments (event_id, profile_id, assigned_at)
		SELECT $1, unnest($2::text[]), $3
		ON CONFLICT (event_id, profile_id) DO NOTHING
	`
	_, err := s.q.ExecContext(ctx, query, eventID, pq.Array(profileIDs), assignedAt)
	return mapConflict(err)
}

func (s *eventStore) RemoveAssignments(ctx context.Context, eventID string, profileIDs []string) error {
	if len(profileIDs) == 0 {
		return nil
	}
	query := `
		DELETE FROM event_assignments
		WHERE event_id = $1 AND profile_id = ANY($2)
	`
	_, err := s.q.ExecContext(ctx, query, eventID, pq.Array(profileIDs))
	return mapConflict(err)
}

func (s *eventStore) AppendUpdateLog(ctx context.Context, entry *domain.EventUpdateLog) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	query := `
		INSERT INTO event_update_logs (id, event_id, updated_by_profile_id, updated_by_timezone, updated_at_utc, changes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.q.ExecContext(ctx, query,
		entry.ID, entry.EventID, nullIfEmpty(entry.UpdatedByProfileID),
		nullIfEmpty(entry.UpdatedByTimezone), entry.UpdatedAtUTC, changes,
	)
	return err
}

func (s *eventStore) ListUpdateLogs(ctx context.Context, eventID string) ([]*domain.EventUpdateLog, error) {
	query := `
		SELECT id, event_id, updated_by_profile_id, updated_by_timezone, updated_at_utc, changes
		FROM event_update_logs
		WHERE event_id = $1
		ORDER BY updated_at_utc DESC, id DESC
	`
	rows, err := s.q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]*domain.EventUpdateLog, 0)
	for rows.Next() {
		entry := &domain.EventUpdateLog{}
		var updatedBy, updatedByTZ sql.NullString
		var changes []byte
		if err := rows.Scan(&entry.ID, &entry.EventID, &updatedBy, &updatedByTZ, &entry.UpdatedAtUTC, &changes); err != nil {
			return nil, err
		}
		entry.UpdatedByProfileID = updatedBy.String
		entry.UpdatedByTimezone = updatedByTZ.String
		entry.UpdatedAtUTC = entry.UpdatedAtUTC.UTC()
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &entry.Changes); err != nil {
				return nil, fmt.Errorf("unmarshal changes: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// mapConflict translates Postgres serialization failures into the domain's
// concurrent-update error so callers can surface a retryable conflict.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == "40001" || pqErr.Code == "40P01") {
		return domain.ErrConflictingUpdate
	}
	return err
}
