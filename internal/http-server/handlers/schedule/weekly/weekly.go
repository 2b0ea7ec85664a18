package weekly

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pickup-calendar/internal/schedule"
	"pickup-calendar/pkg/response"
	"pickup-calendar/pkg/sl"
)

type ScheduleGetter interface {
	WeeklySchedule(ctx context.Context, vendorID int64) (*schedule.Response, error)
}

// New serves a vendor's orders for the current week, polled by the
// schedule viewer.
func New(log *slog.Logger, getter ScheduleGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.weekly.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		vendorID, err := strconv.ParseInt(chi.URLParam(r, "vendor_id"), 10, 64)
		if err != nil || vendorID <= 0 {
			log.Error("invalid vendor_id", slog.String("vendor_id", chi.URLParam(r, "vendor_id")))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "vendor_id must be a positive integer"))
			return
		}

		week, err := getter.WeeklySchedule(r.Context(), vendorID)
		if err != nil {
			log.Error("Failed to get schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to get schedule"))
			return
		}

		log.Debug("Schedule retrieved", slog.Int64("vendor_id", vendorID), slog.String("from", week.From))

		w.Header().Set("Cache-Control", "no-store")
		render.JSON(w, r, week)
	}
}
