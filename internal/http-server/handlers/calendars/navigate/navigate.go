package navigate

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

type Navigator interface {
	Navigate(ctx context.Context, id, view, direction string) (*api.NavigateResponse, error)
}

type Response struct {
	response.Response
	Calendar *api.NavigateResponse `json:"calendar,omitempty"`
}

// New handles an arrow press on the mobile or desktop view.
func New(log *slog.Logger, navigator Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.navigate.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		view := chi.URLParam(r, "view")
		direction := chi.URLParam(r, "direction")

		calendar, err := navigator.Navigate(r.Context(), id, view, direction)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid navigation", slog.String("view", view), slog.String("direction", direction))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "unknown view or direction"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("calendar not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(response.NOT_FOUND, "calendar not found"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("calendar is locked", slog.String("id", id))
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(response.LOCKED, "calendar is locked"))
			return
		}

		if err != nil {
			log.Error("Failed to navigate calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to navigate calendar"))
			return
		}

		log.Info("Calendar navigated",
			slog.String("id", id),
			slog.String("view", view),
			slog.String("direction", direction),
			slog.Bool("moved", calendar.Moved),
		)

		render.JSON(w, r, Response{Calendar: calendar})
	}
}
