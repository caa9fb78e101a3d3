package domain

import (
	"context"
	"time"
)

// EventStore is the storage boundary for events, assignment memberships, and
// the update audit log. A single implementation backs both plain calls (over
// the database handle) and transactional calls (over an open transaction via
// TxRunner), so the update path can apply its assignment delta and append the
// log entry atomically.
type EventStore interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	// UpdateEvent persists the event's mutable fields and bumps Version.
	// It returns ErrConflictingUpdate when the row's version no longer
	// matches expectedVersion, and ErrNotFound when the row is gone.
	UpdateEvent(ctx context.Context, event *Event, expectedVersion int64) error
	DeleteEvent(ctx context.Context, id string) error
	ListEventsByProfileID(ctx context.Context, profileID string) ([]*Event, error)

	GetAssignedProfileIDs(ctx context.Context, eventID string) ([]string, error)
	ListAssignedProfiles(ctx context.Context, eventID string) ([]*Profile, error)
	AddAssignments(ctx context.Context, eventID string, profileIDs []string, assignedAt time.Time) error
	RemoveAssignments(ctx context.Context, eventID string, profileIDs []string) error

	AppendUpdateLog(ctx context.Context, entry *EventUpdateLog) error
	// ListUpdateLogs returns entries newest first.
	ListUpdateLogs(ctx context.Context, eventID string) ([]*EventUpdateLog, error)
}

// TxRunner executes fn against an EventStore bound to a single database
// transaction. fn returning an error rolls the transaction back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(store EventStore) error) error
}
