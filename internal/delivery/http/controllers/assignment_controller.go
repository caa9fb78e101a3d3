package controllers

import (
	"log/slog"
	"net/http"

	"tzschedule/internal/delivery/http/helpers"
	"tzschedule/internal/domain"
)

// AssignmentRequest is the request body for POST /assignments/assign and
// POST /assignments/unassign.
type AssignmentRequest struct {
	EventID        string   `json:"eventId"`
	ProfileIDs     []string `json:"profileIds"`
	ActorProfileID string   `json:"actorProfileId"`
}

// Validate implements Validator.
func (a AssignmentRequest) Validate() []string {
	var errs []string
	if a.EventID == "" {
		errs = append(errs, "eventId is required")
	}
	if len(a.ProfileIDs) == 0 {
		errs = append(errs, "profileIds is required")
	}
	return errs
}

type AssignmentController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewAssignmentController(logger *slog.Logger, svc domain.EventService) *AssignmentController {
	return &AssignmentController{
		Logger:  logger,
		Service: svc,
	}
}

// Assign godoc
// @Summary Assign profiles to an event
// @Description Adds the given profiles to the event's assignment set. Already-assigned profiles are skipped; a non-empty effective delta is recorded in the event's audit log.
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body AssignmentRequest true "Event and profile IDs"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflicting_update"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/assign [post]
func (c *AssignmentController) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.AssignProfiles(r.Context(), req.EventID, req.ProfileIDs, req.ActorProfileID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// Unassign godoc
// @Summary Unassign profiles from an event
// @Description Removes the given profiles from the event's assignment set. Removing the last assigned profile is rejected.
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body AssignmentRequest true "Event and profile IDs"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or no_profiles_assigned"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflicting_update"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/unassign [post]
func (c *AssignmentController) Unassign(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.UnassignProfiles(r.Context(), req.EventID, req.ProfileIDs, req.ActorProfileID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "unassigned"})
}

// ListEventProfiles godoc
// @Summary List profiles assigned to an event
// @Tags assignments
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the profile list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/event/{eventID} [get]
func (c *AssignmentController) ListEventProfiles(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	profiles, err := c.Service.ListAssignedProfiles(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profiles)
}

// ListProfileEvents godoc
// @Summary List events a profile is assigned to
// @Tags assignments
// @Produce json
// @Param profileID path string true "Profile ID"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/profile/{profileID} [get]
func (c *AssignmentController) ListProfileEvents(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("profileID")
	if profileID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing profileID")
		return
	}
	events, err := c.Service.ListEventsForProfile(r.Context(), profileID, r.URL.Query().Get("tz"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
