package ics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pickup-calendar/pkg/response"
	"pickup-calendar/pkg/sl"
)

type Exporter interface {
	ICS(ctx context.Context, id string) ([]byte, error)
}

// New serves the booked appointments of a submitted calendar as an
// iCalendar attachment.
func New(log *slog.Logger, exporter Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.ics.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		body, err := exporter.ICS(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("booking not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(response.NOT_FOUND, "booking not found"))
			return
		}

		if err != nil {
			log.Error("Failed to export calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to export calendar"))
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=booking_%s.ics", id))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(body); err != nil {
			log.Error("Failed to write calendar", sl.Err(err))
			return
		}

		log.Debug("Calendar exported", slog.String("id", id))
	}
}
