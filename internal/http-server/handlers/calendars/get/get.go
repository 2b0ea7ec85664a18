package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pickup-calendar/api"
	"pickup-calendar/pkg/response"
	"pickup-calendar/pkg/sl"
)

type CalendarGetter interface {
	GetCalendar(ctx context.Context, id string) (*api.CalendarResponse, error)
}

type Response struct {
	response.Response
	Calendar *api.CalendarResponse `json:"calendar,omitempty"`
}

func New(log *slog.Logger, getter CalendarGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		calendar, err := getter.GetCalendar(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("calendar not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(response.NOT_FOUND, "calendar not found"))
			return
		}

		if errors.Is(err, response.ErrInvalidGrid) {
			log.Error("stored grid is invalid", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.INVALID_GRID, "calendar is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to get calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to get calendar"))
			return
		}

		log.Debug("Calendar retrieved", slog.String("id", id))
		render.JSON(w, r, Response{Calendar: calendar})
	}
}
