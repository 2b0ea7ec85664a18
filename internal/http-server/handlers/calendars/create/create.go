package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"pickup-calendar/api"
	"pickup-calendar/pkg/response"
	"pickup-calendar/pkg/sl"
)

type CalendarCreator interface {
	CreateCalendar(ctx context.Context, req *api.CreateCalendarRequest) (*api.CalendarResponse, error)
}

type Response struct {
	response.Response
	Calendar *api.CalendarResponse `json:"calendar,omitempty"`
}

func New(log *slog.Logger, creator CalendarCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.CreateCalendarRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.Kind == "" {
			log.Error("kind is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "kind is required"))
			return
		}

		calendar, err := creator.CreateCalendar(r.Context(), &req)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid calendar request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, err.Error()))
			return
		}

		if errors.Is(err, response.ErrInvalidTimeSlot) {
			log.Error("invalid previous selection", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.INVALID_TIME_SLOT, "previous is not a valid time slot"))
			return
		}

		if err != nil {
			log.Error("Failed to create calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to create calendar"))
			return
		}

		log.Info("Calendar created", slog.String("id", calendar.ID), slog.String("kind", calendar.Kind))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Calendar: calendar})
	}
}
