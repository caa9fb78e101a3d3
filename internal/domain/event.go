package domain

import (
	"context"
	"time"
)

// Event represents a calendar entry. Start and end are absolute UTC instants;
// StartLocal/EndLocal keep the naive wall-clock representation the entry was
// written in, for display fidelity across DST transitions.
// swagger:model Event
type Event struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	StartAtUTC         time.Time `json:"startAtUtc"`
	EndAtUTC           time.Time `json:"endAtUtc"`
	StartLocal         string    `json:"startLocal,omitempty"`
	EndLocal           string    `json:"endLocal,omitempty"`
	Timezone           string    `json:"timezone,omitempty"`
	CreatedByProfileID string    `json:"createdByProfileId,omitempty"`
	CreatedByTimezone  string    `json:"createdByTimezone,omitempty"`
	UpdatedByProfileID string    `json:"updatedByProfileId,omitempty"`
	UpdatedByTimezone  string    `json:"updatedByTimezone,omitempty"`
	Version            int64     `json:"version"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// EventDraft is the input for creating an event. Start/end are naive local
// ISO strings resolved against Timezone.
type EventDraft struct {
	Title              string
	Description        string
	Timezone           string
	StartLocalISO      string
	EndLocalISO        string
	ProfileIDs         []string
	CreatedByProfileID string
}

// EventPatch is a partial update. Nil pointer fields are left unchanged.
// AddProfileIDs/RemoveProfileIDs express the caller's desired assignment
// delta; the service reconciles them against the persisted set.
type EventPatch struct {
	Title              *string
	Description        *string
	Timezone           *string
	StartLocalISO      *string
	EndLocalISO        *string
	AddProfileIDs      []string
	RemoveProfileIDs   []string
	UpdatedByProfileID string
}

// EventService defines the business logic for event scheduling, assignment
// reconciliation, and the update audit trail. viewTZ selects the timezone
// local representations are rendered in; empty means the event's own
// timezone, falling back to UTC.
type EventService interface {
	CreateEvent(ctx context.Context, draft EventDraft) (*Event, error)
	GetEvent(ctx context.Context, id, viewTZ string) (*Event, error)
	ListEventsForProfile(ctx context.Context, profileID, viewTZ string) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch, viewTZ string) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	AssignProfiles(ctx context.Context, eventID string, profileIDs []string, actorProfileID string) error
	UnassignProfiles(ctx context.Context, eventID string, profileIDs []string, actorProfileID string) error
	ListAssignedProfiles(ctx context.Context, eventID string) ([]*Profile, error)
	ListEventLogs(ctx context.Context, eventID, viewTZ string) ([]*EventUpdateLog, error)
}
