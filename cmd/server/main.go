package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"tzschedule/config"
	httpdelivery "tzschedule/internal/delivery/http"
	"tzschedule/internal/delivery/http/controllers"
	"tzschedule/internal/delivery/http/middleware"
	"tzschedule/internal/metrics"
	"tzschedule/internal/repository/postgres"
	"tzschedule/internal/services"
	"tzschedule/migrations"
)

const (
	serviceTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title tzschedule API
// @version 1.0
// @description Timezone-aware event scheduling with profile assignments and a per-update audit log.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := migrations.Up(ctx, db); err != nil {
		cancel()
		logger.Error("apply migrations", "err", err)
		os.Exit(1)
	}
	cancel()

	m := metrics.New()

	profileRepo := postgres.NewProfileRepository(db)
	eventStore := postgres.NewEventStore(db)
	txRunner := postgres.NewTxRunner(db)

	profileService := services.NewProfileService(profileRepo, serviceTimeout)
	eventService := services.NewEventService(eventStore, txRunner, profileRepo, serviceTimeout)

	profileController := controllers.NewProfileController(logger, profileService)
	eventController := controllers.NewEventController(logger, eventService, m)
	assignmentController := controllers.NewAssignmentController(logger, eventService)
	logController := controllers.NewLogController(logger, eventService)

	mux := httpdelivery.NewRouter(profileController, eventController, assignmentController, logController)

	var handler http.Handler = mux
	handler = middleware.MetricsMiddleware(m, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
