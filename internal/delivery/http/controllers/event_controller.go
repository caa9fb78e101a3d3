package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"tzschedule/internal/delivery/http/helpers"
	"tzschedule/internal/domain"
	"tzschedule/internal/metrics"
)

// CreateEventRequest is the request body for POST /events. Start/end are
// naive local ISO strings ("2006-01-02T15:04[:05]") resolved against
// timezone on the server.
type CreateEventRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Timezone           string   `json:"timezone"`
	StartLocalISO      string   `json:"startLocalIso"`
	EndLocalISO        string   `json:"endLocalIso"`
	ProfileIDs         []string `json:"profileIds"`
	CreatedByProfileID string   `json:"createdByProfileId"`
}

// Validate implements Validator. Structural rules only; semantic validation
// (timezone resolution, range ordering) happens in the service.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Timezone == "" {
		errs = append(errs, "timezone is required")
	}
	if c.StartLocalISO == "" || c.EndLocalISO == "" {
		errs = append(errs, "startLocalIso and endLocalIso are required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Timezone           *string  `json:"timezone"`
	StartLocalISO      *string  `json:"startLocalIso"`
	EndLocalISO        *string  `json:"endLocalIso"`
	AddProfileIDs      []string `json:"addProfileIds"`
	RemoveProfileIDs   []string `json:"removeProfileIds"`
	UpdatedByProfileID string   `json:"updatedByProfileId"`
}

// EventSuccessResponse is the success envelope carrying a single event.
type EventSuccessResponse struct {
	Success bool              `json:"success"`
	Data    *domain.Event     `json:"data"`
	Error   *helpers.APIError `json:"error,omitempty"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Metrics *metrics.Metrics
}

func NewEventController(logger *slog.Logger, svc domain.EventService, m *metrics.Metrics) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Metrics: m,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event from a naive local time window, an IANA timezone, and a non-empty set of assigned profile IDs. Local times falling in a DST gap resolve to the first valid instant after the gap; ambiguous times resolve to the earlier instant.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event draft"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: empty_title, incomplete_time_range, inverted_range, no_profiles_assigned, invalid_timezone, or invalid_datetime"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown profile)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), domain.EventDraft{
		Title:              req.Title,
		Description:        req.Description,
		Timezone:           req.Timezone,
		StartLocalISO:      req.StartLocalISO,
		EndLocalISO:        req.EndLocalISO,
		ProfileIDs:         req.ProfileIDs,
		CreatedByProfileID: req.CreatedByProfileID,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events assigned to a profile
// @Description Returns the events a profile is assigned to, ordered by start time. When tz is given, startLocal/endLocal are rendered in that timezone.
// @Tags events
// @Produce json
// @Param profileId query string true "Profile ID"
// @Param tz query string false "IANA timezone for local rendering"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_timezone"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing profileId")
		return
	}
	events, err := c.Service.ListEventsForProfile(r.Context(), profileID, r.URL.Query().Get("tz"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Param tz query string false "IANA timezone for local rendering"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID, r.URL.Query().Get("tz"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Partially update an event
// @Description Applies a partial update. Assignment changes are reconciled against the persisted set, and every update that changes at least one field appends one entry to the event's audit log, atomically with the update itself. An update changing nothing is a no-op and is not logged.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param tz query string false "IANA timezone for local rendering"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: validation error codes as for create"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflicting_update"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, domain.EventPatch{
		Title:              req.Title,
		Description:        req.Description,
		Timezone:           req.Timezone,
		StartLocalISO:      req.StartLocalISO,
		EndLocalISO:        req.EndLocalISO,
		AddProfileIDs:      req.AddProfileIDs,
		RemoveProfileIDs:   req.RemoveProfileIDs,
		UpdatedByProfileID: req.UpdatedByProfileID,
	}, r.URL.Query().Get("tz"))
	if err != nil {
		if errors.Is(err, domain.ErrConflictingUpdate) {
			c.Metrics.IncrementUpdateOutcome("conflict")
		}
		writeDomainError(w, r, c.Logger, err)
		return
	}
	c.Metrics.IncrementUpdateOutcome("applied")
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event along with its assignments and audit log.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the deleted event ID"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"id": eventID})
}
