package selectslot

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

type SlotSelector interface {
	Select(ctx context.Context, id string, req *api.SelectRequest) (*api.CalendarResponse, error)
}

type Response struct {
	response.Response
	Calendar *api.CalendarResponse `json:"calendar,omitempty"`
}

// New handles a click on a time slot.
func New(log *slog.Logger, selector SlotSelector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.selectslot.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		var req api.SelectRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "failed to decode request"))
			return
		}

		if req.TimeSlot == "" {
			log.Error("time_slot is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "time_slot is required"))
			return
		}

		calendar, err := selector.Select(r.Context(), id, &req)

		if errors.Is(err, response.ErrInvalidTimeSlot) {
			log.Error("invalid time slot", slog.String("time_slot", req.TimeSlot))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.INVALID_TIME_SLOT, "invalid time slot"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("unknown view", slog.String("view", req.View))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "unknown view"))
			return
		}

		if errors.Is(err, response.ErrSlotNotAvailable) {
			log.Warn("slot is not available", slog.String("time_slot", req.TimeSlot))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(response.SLOT_NOT_AVAILABLE, "slot is not available"))
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

		if errors.Is(err, response.ErrConflict) {
			log.Error("calendar already submitted", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(response.CONFLICT, "calendar already submitted"))
			return
		}

		if err != nil {
			log.Error("Failed to select slot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to select slot"))
			return
		}

		log.Info("Slot selected", slog.String("id", id), slog.String("time_slot", calendar.TimeSlot))

		render.JSON(w, r, Response{Calendar: calendar})
	}
}
