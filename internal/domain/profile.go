package domain

import (
	"context"
	"time"
)

// Profile represents a user with a home timezone
// swagger:model Profile
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProfile returns a new Profile with the given fields. ID is assigned by the service on create.
func NewProfile(name, timezone string, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		Name:      name,
		Timezone:  timezone,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	UpdateTimezone(ctx context.Context, id, timezone string, updatedAt time.Time) (*Profile, error)
}

// ProfileService defines the business logic for profile management.
type ProfileService interface {
	CreateProfile(ctx context.Context, name, timezone string) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	UpdateProfileTimezone(ctx context.Context, id, timezone string) (*Profile, error)
}
