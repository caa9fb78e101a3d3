package domain

import "time"

// Assignment links a Profile to an Event it is associated with. Membership
// is a set: no ordering, no duplicates.
// swagger:model Assignment
type Assignment struct {
	EventID    string    `json:"eventId"`
	ProfileID  string    `json:"profileId"`
	AssignedAt time.Time `json:"assignedAt"`
}
