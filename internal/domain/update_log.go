package domain

import "time"

// FieldChange is one field-level before/after pair in an update-log entry.
// swagger:model FieldChange
type FieldChange struct {
	Field    string `json:"field"`
	Previous any    `json:"previous"`
	Next     any    `json:"next"`
}

// EventUpdateLog is one append-only audit record per successful event update.
// Changes holds the ordered field-level diffs; an update that changed nothing
// produces no record at all. UpdatedAtLocal is rendered per request and never
// persisted.
// swagger:model EventUpdateLog
type EventUpdateLog struct {
	ID                 string        `json:"id"`
	EventID            string        `json:"eventId"`
	UpdatedByProfileID string        `json:"updatedByProfileId,omitempty"`
	UpdatedByTimezone  string        `json:"updatedByTimezone,omitempty"`
	UpdatedAtUTC       time.Time     `json:"updatedAtUtc"`
	UpdatedAtLocal     string        `json:"updatedAtLocal,omitempty"`
	Changes            []FieldChange `json:"changes"`
}
