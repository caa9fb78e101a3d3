package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tzschedule/internal/domain"
)

type eventService struct {
	store          domain.EventStore
	tx             domain.TxRunner
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService. store serves lock-free reads; tx
// runs every mutating flow as one transaction so the assignment delta and the
// audit-log entry are applied atomically.
func NewEventService(store domain.EventStore, tx domain.TxRunner, profileRepo domain.ProfileRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		store:          store,
		tx:             tx,
		profileRepo:    profileRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if strings.TrimSpace(draft.StartLocalISO) == "" || strings.TrimSpace(draft.EndLocalISO) == "" {
		return nil, domain.ErrIncompleteTimeRange
	}
	profileIDs := normalizeIDSet(draft.ProfileIDs)
	if len(profileIDs) == 0 {
		return nil, domain.ErrNoProfilesAssigned
	}

	startUTC, err := domain.ResolveLocalISO(draft.StartLocalISO, draft.Timezone)
	if err != nil {
		return nil, err
	}
	endUTC, err := domain.ResolveLocalISO(draft.EndLocalISO, draft.Timezone)
	if err != nil {
		return nil, err
	}
	if !endUTC.After(startUTC) {
		return nil, domain.ErrInvertedRange
	}

	for _, id := range profileIDs {
		if _, err := s.profileRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, id)
			}
			return nil, fmt.Errorf("get profile: %w", err)
		}
	}
	createdByTZ := ""
	if draft.CreatedByProfileID != "" {
		creator, err := s.profileRepo.GetByID(ctx, draft.CreatedByProfileID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, draft.CreatedByProfileID)
			}
			return nil, fmt.Errorf("get creator profile: %w", err)
		}
		createdByTZ = creator.Timezone
	}

	startLocal, err := domain.FormatLocalISO(startUTC, draft.Timezone)
	if err != nil {
		return nil, err
	}
	endLocal, err := domain.FormatLocalISO(endUTC, draft.Timezone)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:                 uuid.NewString(),
		Title:              title,
		Description:        strings.TrimSpace(draft.Description),
		StartAtUTC:         startUTC,
		EndAtUTC:           endUTC,
		StartLocal:         startLocal,
		EndLocal:           endLocal,
		Timezone:           draft.Timezone,
		CreatedByProfileID: draft.CreatedByProfileID,
		CreatedByTimezone:  createdByTZ,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.tx.RunInTx(ctx, func(store domain.EventStore) error {
		if err := store.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		if err := store.AddAssignments(ctx, event.ID, profileIDs, now); err != nil {
			return fmt.Errorf("add assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id, viewTZ string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := renderEventLocal(event, viewTZ); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEventsForProfile(ctx context.Context, profileID, viewTZ string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, profileID)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	events, err := s.store.ListEventsByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	for _, event := range events {
		if err := renderEventLocal(event, viewTZ); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch, viewTZ string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	actorTZ := ""
	if patch.UpdatedByProfileID != "" {
		actor, err := s.profileRepo.GetByID(ctx, patch.UpdatedByProfileID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, patch.UpdatedByProfileID)
			}
			return nil, fmt.Errorf("get actor profile: %w", err)
		}
		actorTZ = actor.Timezone
	}
	for _, id := range normalizeIDSet(patch.AddProfileIDs) {
		if _, err := s.profileRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, id)
			}
			return nil, fmt.Errorf("get profile: %w", err)
		}
	}

	var updated *domain.Event
	err := s.tx.RunInTx(ctx, func(store domain.EventStore) error {
		event, err := store.GetEvent(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		current, err := store.GetAssignedProfileIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("get assigned profiles: %w", err)
		}

		next, cs, toAdd, toRemove, err := buildEventUpdate(event, current, patch, actorTZ)
		if err != nil {
			return err
		}
		if cs.empty() {
			updated = event
			return nil
		}

		expected := event.Version
		next.Version = expected + 1
		if err := store.UpdateEvent(ctx, next, expected); err != nil {
			return err
		}
		if len(toAdd) > 0 {
			if err := store.AddAssignments(ctx, id, toAdd, next.UpdatedAt); err != nil {
				return fmt.Errorf("add assignments: %w", err)
			}
		}
		if len(toRemove) > 0 {
			if err := store.RemoveAssignments(ctx, id, toRemove); err != nil {
				return fmt.Errorf("remove assignments: %w", err)
			}
		}
		entry := &domain.EventUpdateLog{
			ID:                 uuid.NewString(),
			EventID:            id,
			UpdatedByProfileID: patch.UpdatedByProfileID,
			UpdatedByTimezone:  next.UpdatedByTimezone,
			UpdatedAtUTC:       next.UpdatedAt,
			Changes:            cs.changes,
		}
		if err := store.AppendUpdateLog(ctx, entry); err != nil {
			return fmt.Errorf("append update log: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := renderEventLocal(updated, viewTZ); err != nil {
		return nil, err
	}
	return updated, nil
}

// buildEventUpdate computes the post-update event, the field-level change
// records, and the effective assignment delta for a patch. It mutates
// nothing; callers persist the result only when the change set is non-empty.
func buildEventUpdate(event *domain.Event, currentProfileIDs []string, patch domain.EventPatch, actorTZ string) (*domain.Event, *changeSet, []string, []string, error) {
	next := *event
	cs := &changeSet{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, nil, nil, nil, domain.ErrEmptyTitle
		}
		next.Title = title
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}

	effTZ := event.Timezone
	if patch.Timezone != nil {
		if _, err := domain.LoadZone(*patch.Timezone); err != nil {
			return nil, nil, nil, nil, err
		}
		next.Timezone = *patch.Timezone
		effTZ = *patch.Timezone
	}
	if effTZ == "" {
		effTZ = event.CreatedByTimezone
	}
	if effTZ == "" {
		effTZ = "UTC"
	}

	if patch.StartLocalISO != nil {
		if strings.TrimSpace(*patch.StartLocalISO) == "" {
			return nil, nil, nil, nil, domain.ErrIncompleteTimeRange
		}
		start, err := domain.ResolveLocalISO(*patch.StartLocalISO, effTZ)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		next.StartAtUTC = start
	}
	if patch.EndLocalISO != nil {
		if strings.TrimSpace(*patch.EndLocalISO) == "" {
			return nil, nil, nil, nil, domain.ErrIncompleteTimeRange
		}
		end, err := domain.ResolveLocalISO(*patch.EndLocalISO, effTZ)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		next.EndAtUTC = end
	}
	if !next.EndAtUTC.After(next.StartAtUTC) {
		return nil, nil, nil, nil, domain.ErrInvertedRange
	}
	if patch.StartLocalISO != nil || patch.EndLocalISO != nil || patch.Timezone != nil {
		startLocal, err := domain.FormatLocalISO(next.StartAtUTC, effTZ)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		endLocal, err := domain.FormatLocalISO(next.EndAtUTC, effTZ)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		next.StartLocal = startLocal
		next.EndLocal = endLocal
	}

	desired := applyDelta(currentProfileIDs, patch.AddProfileIDs, patch.RemoveProfileIDs)
	if (len(patch.AddProfileIDs) > 0 || len(patch.RemoveProfileIDs) > 0) && len(desired) == 0 {
		return nil, nil, nil, nil, domain.ErrNoProfilesAssigned
	}
	toAdd, toRemove := diffProfileIDs(normalizeIDSet(currentProfileIDs), desired)

	cs.addString("title", event.Title, next.Title)
	cs.addString("description", event.Description, next.Description)
	cs.addString("timezone", event.Timezone, next.Timezone)
	cs.addTime("startAtUtc", event.StartAtUTC, next.StartAtUTC)
	cs.addTime("endAtUtc", event.EndAtUTC, next.EndAtUTC)
	cs.addIDs("addProfileIds", toAdd)
	cs.addIDs("removeProfileIds", toRemove)

	if !cs.empty() {
		now := time.Now().UTC()
		next.UpdatedAt = now
		next.UpdatedByProfileID = patch.UpdatedByProfileID
		if actorTZ != "" {
			next.UpdatedByTimezone = actorTZ
		} else {
			next.UpdatedByTimezone = effTZ
		}
	}
	return &next, cs, toAdd, toRemove, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) AssignProfiles(ctx context.Context, eventID string, profileIDs []string, actorProfileID string) error {
	if len(normalizeIDSet(profileIDs)) == 0 {
		return domain.ErrNoProfilesAssigned
	}
	_, err := s.UpdateEvent(ctx, eventID, domain.EventPatch{
		AddProfileIDs:      profileIDs,
		UpdatedByProfileID: actorProfileID,
	}, "")
	return err
}

func (s *eventService) UnassignProfiles(ctx context.Context, eventID string, profileIDs []string, actorProfileID string) error {
	if len(normalizeIDSet(profileIDs)) == 0 {
		return domain.ErrInvalidInput
	}
	_, err := s.UpdateEvent(ctx, eventID, domain.EventPatch{
		RemoveProfileIDs:   profileIDs,
		UpdatedByProfileID: actorProfileID,
	}, "")
	return err
}

func (s *eventService) ListAssignedProfiles(ctx context.Context, eventID string) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	profiles, err := s.store.ListAssignedProfiles(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list assigned profiles: %w", err)
	}
	if profiles == nil {
		profiles = []*domain.Profile{}
	}
	return profiles, nil
}

func (s *eventService) ListEventLogs(ctx context.Context, eventID, viewTZ string) ([]*domain.EventUpdateLog, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	logs, err := s.store.ListUpdateLogs(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list update logs: %w", err)
	}
	if logs == nil {
		logs = []*domain.EventUpdateLog{}
	}
	for _, entry := range logs {
		tz := viewTZ
		if tz == "" {
			tz = entry.UpdatedByTimezone
		}
		if tz == "" {
			continue
		}
		local, err := domain.FormatLocalISO(entry.UpdatedAtUTC, tz)
		if err != nil {
			return nil, err
		}
		entry.UpdatedAtLocal = local
	}
	return logs, nil
}

// renderEventLocal fills StartLocal/EndLocal for the requested view timezone.
// Without an explicit viewTZ the stored local representation is kept, so the
// wall clock the event was written in survives round trips.
func renderEventLocal(event *domain.Event, viewTZ string) error {
	if event == nil || viewTZ == "" {
		return nil
	}
	startLocal, err := domain.FormatLocalISO(event.StartAtUTC, viewTZ)
	if err != nil {
		return err
	}
	endLocal, err := domain.FormatLocalISO(event.EndAtUTC, viewTZ)
	if err != nil {
		return err
	}
	event.StartLocal = startLocal
	event.EndLocal = endLocal
	return nil
}
