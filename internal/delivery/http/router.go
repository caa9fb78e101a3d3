package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"tzschedule/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	profileController *controllers.ProfileController,
	eventController *controllers.EventController,
	assignmentController *controllers.AssignmentController,
	logController *controllers.LogController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Profiles
	mux.HandleFunc("POST /profiles", profileController.CreateProfile)
	mux.HandleFunc("GET /profiles", profileController.ListProfiles)
	mux.HandleFunc("GET /profiles/{profileID}", profileController.GetProfile)
	mux.HandleFunc("PATCH /profiles/{profileID}/timezone", profileController.UpdateProfileTimezone)

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)

	// Assignments
	mux.HandleFunc("POST /assignments/assign", assignmentController.Assign)
	mux.HandleFunc("POST /assignments/unassign", assignmentController.Unassign)
	mux.HandleFunc("GET /assignments/event/{eventID}", assignmentController.ListEventProfiles)
	mux.HandleFunc("GET /assignments/profile/{profileID}", assignmentController.ListProfileEvents)

	// Logs
	mux.HandleFunc("GET /logs/event/{eventID}", logController.ListEventLogs)

	// Operational
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
