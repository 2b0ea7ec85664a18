package get

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup-calendar/api"
	"pickup-calendar/pkg/response"
)

type getterFunc func(ctx context.Context, id string) (*api.CalendarResponse, error)

func (f getterFunc) GetCalendar(ctx context.Context, id string) (*api.CalendarResponse, error) {
	return f(ctx, id)
}

func serve(t *testing.T, g CalendarGetter, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/calendars/{id}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), g))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestGet(t *testing.T) {
	rec, out := serve(t, getterFunc(func(_ context.Context, id string) (*api.CalendarResponse, error) {
		return &api.CalendarResponse{ID: id, TimeSlot: "2015-03-18 10", WeekOffset: 1}, nil
	}), "/calendars/abc")

	assert.Equal(t, http.StatusOK, rec.Code)
	cal := out["calendar"].(map[string]any)
	assert.Equal(t, "abc", cal["id"])
	assert.Equal(t, "2015-03-18 10", cal["time_slot"])
	assert.Equal(t, 1.0, cal["week_offset"])
}

func TestGetErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   response.ErrCode
	}{
		{response.ErrNotFound, http.StatusNotFound, response.NOT_FOUND},
		{response.ErrInvalidGrid, http.StatusInternalServerError, response.INVALID_GRID},
		{errors.New("boom"), http.StatusInternalServerError, response.FAILED_REQUEST},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec, out := serve(t, getterFunc(func(context.Context, string) (*api.CalendarResponse, error) {
				return nil, tt.err
			}), "/calendars/abc")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.code), out["error"].(map[string]any)["code"])
		})
	}
}
