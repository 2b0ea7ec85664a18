// Command schedule-watch polls a vendor's weekly schedule and redraws it on
// every newer response.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"pickup-calendar/internal/schedule"
	"pickup-calendar/pkg/handlers/slogpretty"
	"pickup-calendar/pkg/sl"
)

type Config struct {
	URL       string        `env:"SCHEDULE_URL" env-required:"true" env-description:"weekly schedule endpoint, e.g. http://localhost:8080/vendors/1/schedule"`
	Interval  time.Duration `env:"POLL_INTERVAL" env-default:"30s" env-description:"time between polls"`
	Timeout   time.Duration `env:"POLL_TIMEOUT" env-default:"10s" env-description:"timeout of one poll"`
	StartHour int           `env:"SCHEDULE_START_HOUR" env-default:"8" env-description:"hour of the first row"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		header := "schedule-watch\n\nEnvironment:"
		cleanenv.FUsage(os.Stderr, &cfg, &header)()
		os.Exit(2)
	}

	opts := slogpretty.PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelInfo}}
	log := slog.New(opts.NewPrettyHandler(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := schedule.NewHTTPFetcher(&http.Client{Timeout: cfg.Timeout}, cfg.URL)
	poller := schedule.NewPoller(log, fetcher, cfg.Interval, func(week schedule.Week) {
		if err := draw(os.Stdout, week, cfg.StartHour, time.Now()); err != nil {
			log.Error("Failed to draw schedule", sl.Err(err))
		}
	})

	log.Info("Watching schedule", slog.String("url", cfg.URL), slog.String("interval", cfg.Interval.String()))

	poller.Run(ctx)

	log.Info("Stopped")
}
