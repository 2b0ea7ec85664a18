package page

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pickup-calendar/api"
	"pickup-calendar/internal/widget"
	"pickup-calendar/pkg/response"
	"pickup-calendar/pkg/sl"
)

type CalendarGetter interface {
	GetCalendar(ctx context.Context, id string) (*api.CalendarResponse, error)
}

var titles = map[string]string{
	"pickup":   "Choose a pick up time",
	"delivery": "Choose a delivery time",
}

// New serves the calendar as an HTML page whose form posts to the submit
// endpoint.
func New(log *slog.Logger, getter CalendarGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendars.page.New"

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

		if err != nil {
			log.Error("Failed to get calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to get calendar"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if err := write(w, calendar); err != nil {
			log.Error("Failed to render page", sl.Err(err))
		}
	}
}

func write(w io.Writer, c *api.CalendarResponse) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}

	form := widget.Form("/calendars/"+c.ID+"/submit", widget.Views{
		Mobile:   c.Mobile,
		Desktop:  c.Desktop,
		TimeSlot: c.TimeSlot,
	})

	doc := &widget.Element{Tag: "html", Children: []*widget.Element{
		{Tag: "head", Children: []*widget.Element{
			{Tag: "meta", Attrs: map[string]string{"charset": "utf-8"}},
			{Tag: "title", Text: titles[c.Kind]},
		}},
		{Tag: "body", Attrs: map[string]string{"data-calendar": c.ID}, Children: []*widget.Element{
			{Tag: "h1", Text: titles[c.Kind]},
			form,
		}},
	}}

	return widget.RenderHTML(w, doc)
}
