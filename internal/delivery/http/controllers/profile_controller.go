package controllers

import (
	"log/slog"
	"net/http"

	"tzschedule/internal/delivery/http/helpers"
	"tzschedule/internal/domain"
)

// CreateProfileRequest is the request body for POST /profiles. Timezone
// defaults to UTC when omitted.
type CreateProfileRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// Validate implements Validator. Returns error messages for required fields.
func (c CreateProfileRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// UpdateProfileTimezoneRequest is the request body for PATCH /profiles/{profileID}/timezone.
type UpdateProfileTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

// Validate implements Validator.
func (u UpdateProfileTimezoneRequest) Validate() []string {
	var errs []string
	if u.Timezone == "" {
		errs = append(errs, "timezone is required")
	}
	return errs
}

// ProfileSuccessResponse is the success envelope carrying a single profile.
type ProfileSuccessResponse struct {
	Success bool              `json:"success"`
	Data    *domain.Profile   `json:"data"`
	Error   *helpers.APIError `json:"error,omitempty"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateProfile godoc
// @Summary Create a profile
// @Description Create a profile with a display name and an IANA timezone. Timezone defaults to UTC when omitted and is validated against the timezone database.
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body CreateProfileRequest true "Profile data"
// @Success 201 {object} controllers.ProfileSuccessResponse "data contains the created profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_timezone"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles [post]
func (c *ProfileController) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.CreateProfile(r.Context(), req.Name, req.Timezone)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, profile)
}

// ListProfiles godoc
// @Summary List all profiles
// @Tags profiles
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the profile list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles [get]
func (c *ProfileController) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.Service.ListProfiles(r.Context())
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profiles)
}

// GetProfile godoc
// @Summary Get a profile by ID
// @Tags profiles
// @Produce json
// @Param profileID path string true "Profile ID"
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the profile"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/{profileID} [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("profileID")
	if profileID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing profileID")
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateProfileTimezone godoc
// @Summary Update a profile's timezone
// @Tags profiles
// @Accept json
// @Produce json
// @Param profileID path string true "Profile ID"
// @Param body body UpdateProfileTimezoneRequest true "New timezone"
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_timezone"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/{profileID}/timezone [patch]
func (c *ProfileController) UpdateProfileTimezone(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("profileID")
	if profileID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing profileID")
		return
	}
	var req UpdateProfileTimezoneRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.UpdateProfileTimezone(r.Context(), profileID, req.Timezone)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
