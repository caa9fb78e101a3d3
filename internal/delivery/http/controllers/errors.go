package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"tzschedule/internal/delivery/http/helpers"
	"tzschedule/internal/domain"
)

// writeDomainError maps domain sentinel errors onto HTTP statuses and stable
// envelope error codes. Anything unmapped is logged and reported as a
// generic internal error.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyTitle):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeEmptyTitle, err.Error())
	case errors.Is(err, domain.ErrIncompleteTimeRange):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeIncompleteTimeRange, err.Error())
	case errors.Is(err, domain.ErrInvertedRange):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvertedRange, err.Error())
	case errors.Is(err, domain.ErrNoProfilesAssigned):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeNoProfilesAssigned, err.Error())
	case errors.Is(err, domain.ErrInvalidTimezone):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidTimezone, err.Error())
	case errors.Is(err, domain.ErrInvalidDateTime):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidDateTime, err.Error())
	case errors.Is(err, domain.ErrConflictingUpdate):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflictingUpdate, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
