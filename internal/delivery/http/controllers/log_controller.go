package controllers

import (
	"log/slog"
	"net/http"

	"tzschedule/internal/delivery/http/helpers"
	"tzschedule/internal/domain"
)

type LogController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewLogController(logger *slog.Logger, svc domain.EventService) *LogController {
	return &LogController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEventLogs godoc
// @Summary List an event's update log
// @Description Returns the event's append-only update log, newest first. Each entry carries the updater, the updater's timezone, and the ordered field-level changes of that update. When tz is given, updatedAtLocal is rendered in that timezone.
// @Tags logs
// @Produce json
// @Param eventID path string true "Event ID"
// @Param tz query string false "IANA timezone for local rendering"
// @Success 200 {object} helpers.APIResponse "data contains the log entries"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_timezone"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /logs/event/{eventID} [get]
func (c *LogController) ListEventLogs(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	logs, err := c.Service.ListEventLogs(r.Context(), eventID, r.URL.Query().Get("tz"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, logs)
}
