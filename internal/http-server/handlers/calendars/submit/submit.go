package submit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pickup-calendar/api"
	"pickup-calendar/internal/widget"
	"pickup-calendar/pkg/response"
	"pickup-calendar/pkg/sl"
)

type Submitter interface {
	Submit(ctx context.Context, id, value string) (*api.SubmitResponse, error)
}

type Response struct {
	response.Response
	Booking *api.SubmitResponse `json:"booking,omitempty"`
}

// New accepts the calendar form. Browsers are redirected to the delivery
// calendar once a pick-up is booked; other clients get JSON.
func New(log *slog.Logger, submitter Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.submit.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if err := r.ParseForm(); err != nil {
			log.Error("Failed to parse form", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "failed to parse form"))
			return
		}

		value := r.PostFormValue(widget.FormField)
		if value == "" {
			log.Error("time_slot is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "please choose a time slot"))
			return
		}

		booking, err := submitter.Submit(r.Context(), id, value)

		if errors.Is(err, response.ErrInvalidTimeSlot) {
			log.Error("invalid time slot", slog.String("time_slot", value))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.INVALID_TIME_SLOT, "invalid time slot"))
			return
		}

		if errors.Is(err, response.ErrSlotNotAvailable) {
			log.Warn("slot is not available", slog.String("time_slot", value))
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
			log.Error("Failed to submit calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to submit calendar"))
			return
		}

		log.Info("Slot booked",
			slog.String("id", id),
			slog.String("kind", booking.Kind),
			slog.Time("appointment", booking.Appointment),
		)

		if booking.DeliveryCalendarID != "" {
			next := "/calendars/" + booking.DeliveryCalendarID + "/page"
			if strings.Contains(r.Header.Get("Accept"), "text/html") {
				http.Redirect(w, r, next, http.StatusSeeOther)
				return
			}
			w.Header().Set("Location", next)
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Booking: booking})
	}
}
