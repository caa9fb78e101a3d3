package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzschedule/internal/domain"
)

func newTestProfileService(repo *fakeProfileRepo) domain.ProfileService {
	return NewProfileService(repo, time.Second)
}

func TestProfileService_CreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeProfileRepo()
		svc := newTestProfileService(repo)

		profile, err := svc.CreateProfile(ctx, "Alice", "America/New_York")
		require.NoError(t, err)
		assert.NotEmpty(t, profile.ID)
		assert.Equal(t, "Alice", profile.Name)
		assert.Equal(t, "America/New_York", profile.Timezone)
		assert.False(t, profile.CreatedAt.IsZero())
	})

	t.Run("timezone defaults to UTC", func(t *testing.T) {
		svc := newTestProfileService(newFakeProfileRepo())
		profile, err := svc.CreateProfile(ctx, "Bob", "")
		require.NoError(t, err)
		assert.Equal(t, "UTC", profile.Timezone)
	})

	t.Run("blank name", func(t *testing.T) {
		svc := newTestProfileService(newFakeProfileRepo())
		_, err := svc.CreateProfile(ctx, "   ", "UTC")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		svc := newTestProfileService(newFakeProfileRepo())
		_, err := svc.CreateProfile(ctx, "Carol", "Mars/Olympus")
		assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
	})
}

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfileRepo(&domain.Profile{ID: "p1", Name: "Alice", Timezone: "UTC"})
	svc := newTestProfileService(repo)

	profile, err := svc.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_UpdateProfileTimezone(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfileRepo(&domain.Profile{ID: "p1", Name: "Alice", Timezone: "UTC"})
	svc := newTestProfileService(repo)

	profile, err := svc.UpdateProfileTimezone(ctx, "p1", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", profile.Timezone)
	assert.False(t, profile.UpdatedAt.IsZero())

	_, err = svc.UpdateProfileTimezone(ctx, "p1", "Not/AZone")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	_, err = svc.UpdateProfileTimezone(ctx, "missing", "UTC")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_ListProfiles(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfileRepo(
		&domain.Profile{ID: "p1", Name: "Alice", Timezone: "UTC"},
		&domain.Profile{ID: "p2", Name: "Bob", Timezone: "Europe/London"},
	)
	svc := newTestProfileService(repo)

	profiles, err := svc.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}
