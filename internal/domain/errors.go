package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these onto stable API error codes.
var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyTitle          = errors.New("title is empty")
	ErrIncompleteTimeRange = errors.New("start or end date/time is missing")
	ErrInvertedRange       = errors.New("end must be after start")
	ErrNoProfilesAssigned  = errors.New("at least one profile must be assigned")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidDateTime     = errors.New("invalid date/time")
	ErrConflictingUpdate   = errors.New("event was modified concurrently")
	ErrInvalidInput        = errors.New("invalid input")
)
