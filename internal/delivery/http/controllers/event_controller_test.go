package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzschedule/internal/delivery/http/helpers"
	"tzschedule/internal/domain"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event       *domain.Event
	events      []*domain.Event
	profiles    []*domain.Profile
	logs        []*domain.EventUpdateLog
	err         error
	lastDraft   *domain.EventDraft
	lastPatch   *domain.EventPatch
	lastViewTZ  string
	lastEventID string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	f.lastDraft = &draft
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id, viewTZ string) (*domain.Event, error) {
	f.lastEventID = id
	f.lastViewTZ = viewTZ
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListEventsForProfile(ctx context.Context, profileID, viewTZ string) ([]*domain.Event, error) {
	f.lastViewTZ = viewTZ
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch, viewTZ string) (*domain.Event, error) {
	f.lastEventID = id
	f.lastPatch = &patch
	f.lastViewTZ = viewTZ
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	f.lastEventID = id
	return f.err
}

func (f *fakeEventService) AssignProfiles(ctx context.Context, eventID string, profileIDs []string, actorProfileID string) error {
	f.lastEventID = eventID
	return f.err
}

func (f *fakeEventService) UnassignProfiles(ctx context.Context, eventID string, profileIDs []string, actorProfileID string) error {
	f.lastEventID = eventID
	return f.err
}

func (f *fakeEventService) ListAssignedProfiles(ctx context.Context, eventID string) ([]*domain.Profile, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

func (f *fakeEventService) ListEventLogs(ctx context.Context, eventID, viewTZ string) ([]*domain.EventUpdateLog, error) {
	f.lastEventID = eventID
	f.lastViewTZ = viewTZ
	if f.err != nil {
		return nil, f.err
	}
	return f.logs, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleEvent() *domain.Event {
	start := time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:         "event-1",
		Title:      "Sync",
		StartAtUTC: start,
		EndAtUTC:   start.Add(time.Hour),
		StartLocal: "2024-06-15T09:00:00",
		EndLocal:   "2024-06-15T10:00:00",
		Timezone:   "America/New_York",
		Version:    1,
		CreatedAt:  start,
		UpdatedAt:  start,
	}
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"title":"Sync","timezone":"America/New_York","startLocalIso":"2024-06-15T09:00","endLocalIso":"2024-06-15T10:00","profileIds":["p1","p2"]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "invalid json",
			body:         `{invalid`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "missing timezone",
			body:         `{"title":"Sync","startLocalIso":"2024-06-15T09:00","endLocalIso":"2024-06-15T10:00","profileIds":["p1"]}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "missing time range",
			body:         `{"title":"Sync","timezone":"UTC","profileIds":["p1"]}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "empty title from service",
			body:         `{"title":"  ","timezone":"UTC","startLocalIso":"2024-06-15T09:00","endLocalIso":"2024-06-15T10:00","profileIds":["p1"]}`,
			fakeErr:      domain.ErrEmptyTitle,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeEmptyTitle,
		},
		{
			name:         "inverted range from service",
			body:         `{"title":"Sync","timezone":"UTC","startLocalIso":"2024-06-15T10:00","endLocalIso":"2024-06-15T09:00","profileIds":["p1"]}`,
			fakeErr:      domain.ErrInvertedRange,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeInvertedRange,
		},
		{
			name:         "no profiles from service",
			body:         `{"title":"Sync","timezone":"UTC","startLocalIso":"2024-06-15T09:00","endLocalIso":"2024-06-15T10:00","profileIds":[]}`,
			fakeErr:      domain.ErrNoProfilesAssigned,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeNoProfilesAssigned,
		},
		{
			name:         "unknown profile",
			body:         `{"title":"Sync","timezone":"UTC","startLocalIso":"2024-06-15T09:00","endLocalIso":"2024-06-15T10:00","profileIds":["ghost"]}`,
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "service error",
			body:         `{"title":"Sync","timezone":"UTC","startLocalIso":"2024-06-15T09:00","endLocalIso":"2024-06-15T10:00","profileIds":["p1"]}`,
			fakeErr:      assert.AnError,
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: sampleEvent(), err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodPost, "http://test/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.True(t, envelope.Success)
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var event domain.Event
				require.NoError(t, json.Unmarshal(dataBytes, &event))
				assert.Equal(t, "event-1", event.ID)
				assert.Equal(t, "2024-06-15T09:00:00", event.StartLocal)
				return
			}
			require.False(t, envelope.Success)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_GetEvent(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
		wantViewTZ   string
	}{
		{
			name:       "success",
			wantStatus: http.StatusOK,
		},
		{
			name:       "success with view timezone",
			query:      "?tz=Asia/Tokyo",
			wantStatus: http.StatusOK,
			wantViewTZ: "Asia/Tokyo",
		},
		{
			name:         "not found",
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "bad view timezone",
			query:        "?tz=Bad/Zone",
			fakeErr:      domain.ErrInvalidTimezone,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: sampleEvent(), err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodGet, "http://test/events/event-1"+tt.query, nil)
			req.SetPathValue("eventID", "event-1")
			rr := httptest.NewRecorder()

			ctrl.GetEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.True(t, envelope.Success)
				assert.Equal(t, "event-1", fake.lastEventID)
				assert.Equal(t, tt.wantViewTZ, fake.lastViewTZ)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_ListEvents(t *testing.T) {
	t.Run("missing profileId", func(t *testing.T) {
		ctrl := NewEventController(testLogger(), &fakeEventService{}, nil)
		req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		fake := &fakeEventService{events: []*domain.Event{sampleEvent()}}
		ctrl := NewEventController(testLogger(), fake, nil)
		req := httptest.NewRequest(http.MethodGet, "http://test/events?profileId=p1&tz=Europe/London", nil)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.True(t, envelope.Success)
		assert.Equal(t, "Europe/London", fake.lastViewTZ)
	})
}

func TestEventController_UpdateEvent(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
		checkPatch   func(t *testing.T, p *domain.EventPatch)
	}{
		{
			name:       "success title and reassignment",
			body:       `{"title":"Sync 2","addProfileIds":["p3"],"removeProfileIds":["p1"],"updatedByProfileId":"p2"}`,
			wantStatus: http.StatusOK,
			checkPatch: func(t *testing.T, p *domain.EventPatch) {
				require.NotNil(t, p.Title)
				assert.Equal(t, "Sync 2", *p.Title)
				assert.Nil(t, p.Description)
				assert.Equal(t, []string{"p3"}, p.AddProfileIDs)
				assert.Equal(t, []string{"p1"}, p.RemoveProfileIDs)
				assert.Equal(t, "p2", p.UpdatedByProfileID)
			},
		},
		{
			name:         "conflicting update",
			body:         `{"title":"Sync 2"}`,
			fakeErr:      domain.ErrConflictingUpdate,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflictingUpdate,
		},
		{
			name:         "not found",
			body:         `{"title":"Sync 2"}`,
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "invalid json",
			body:         `{invalid`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown field rejected",
			body:         `{"nope":true}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: sampleEvent(), err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodPatch, "http://test/events/event-1", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "event-1")
			rr := httptest.NewRecorder()

			ctrl.UpdateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.True(t, envelope.Success)
				if tt.checkPatch != nil {
					require.NotNil(t, fake.lastPatch)
					tt.checkPatch(t, fake.lastPatch)
				}
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeEventService{}
		ctrl := NewEventController(testLogger(), fake, nil)
		req := httptest.NewRequest(http.MethodDelete, "http://test/events/event-1", nil)
		req.SetPathValue("eventID", "event-1")
		rr := httptest.NewRecorder()

		ctrl.DeleteEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "event-1", fake.lastEventID)
	})

	t.Run("not found", func(t *testing.T) {
		fake := &fakeEventService{err: domain.ErrNotFound}
		ctrl := NewEventController(testLogger(), fake, nil)
		req := httptest.NewRequest(http.MethodDelete, "http://test/events/missing", nil)
		req.SetPathValue("eventID", "missing")
		rr := httptest.NewRecorder()

		ctrl.DeleteEvent(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
	})
}
