package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pickup-calendar/internal/calendar"
	"pickup-calendar/internal/config"
	calendarCreate "pickup-calendar/internal/http-server/handlers/calendars/create"
	calendarGet "pickup-calendar/internal/http-server/handlers/calendars/get"
	calendarICS "pickup-calendar/internal/http-server/handlers/calendars/ics"
	calendarNavigate "pickup-calendar/internal/http-server/handlers/calendars/navigate"
	calendarPage "pickup-calendar/internal/http-server/handlers/calendars/page"
	calendarSelect "pickup-calendar/internal/http-server/handlers/calendars/selectslot"
	calendarSubmit "pickup-calendar/internal/http-server/handlers/calendars/submit"
	scheduleWeekly "pickup-calendar/internal/http-server/handlers/schedule/weekly"
	"pickup-calendar/internal/lock"
	"pickup-calendar/internal/metrics"
	"pickup-calendar/internal/models"
	svc "pickup-calendar/internal/service"
	"pickup-calendar/internal/session"
	"pickup-calendar/internal/storage/postgres"
	"pickup-calendar/internal/widget"
	"pickup-calendar/pkg/handlers/slogpretty"
	"pickup-calendar/pkg/middleware/mwLogger"
	"pickup-calendar/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	loc, err := time.LoadLocation(cfg.Calendar.TimeZone)
	if err != nil {
		log.Error("Failed to load time zone", slog.String("time_zone", cfg.Calendar.TimeZone), sl.Err(err))
		os.Exit(1)
	}

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	redisClient, err := session.Connect(context.Background(), cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to connect to redis", sl.Err(err))
		os.Exit(1)
	}

	locker := lock.NewRedisLock(redisClient)
	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	builder := calendar.NewBuilder(loc, storage, cfg.MaxAppointmentsPerHour, calendar.WithWeeks(cfg.Weeks))

	service := svc.NewService(
		storage,
		locker,
		sessions,
		builder,
		metrics.NewCalendarMetrics(prometheus.DefaultRegisterer),
		svc.Settings{
			Widget:     widget.Options{WeekSize: models.DefaultWeekSize, ReachLastDay: cfg.ReachLastDay},
			MaxPerHour: cfg.MaxAppointmentsPerHour,
			LockTTL:    cfg.LockTTL,
			StartHour:  cfg.StartHour,
			EndHour:    cfg.EndHour,
		},
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Calendars
	router.Post("/calendars", calendarCreate.New(log, service))
	router.Get("/calendars/{id}", calendarGet.New(log, service))
	router.Get("/calendars/{id}/page", calendarPage.New(log, service))
	router.Get("/calendars/{id}/ics", calendarICS.New(log, service))
	router.Post("/calendars/{id}/select", calendarSelect.New(log, service))
	router.Post("/calendars/{id}/submit", calendarSubmit.New(log, service))
	router.Post("/calendars/{id}/{view}/{direction}", calendarNavigate.New(log, service))

	// Schedule
	router.Get("/vendors/{vendor_id}/schedule", scheduleWeekly.New(log, service))

	router.Handle("/metrics", promhttp.Handler())

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close redis client", sl.Err(err))
	} else {
		log.Info("Redis client closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
