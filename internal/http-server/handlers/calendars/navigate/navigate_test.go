package navigate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

type navigatorFunc func(ctx context.Context, id, view, direction string) (*api.NavigateResponse, error)

func (f navigatorFunc) Navigate(ctx context.Context, id, view, direction string) (*api.NavigateResponse, error) {
	return f(ctx, id, view, direction)
}

func serve(t *testing.T, n Navigator, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := chi.NewRouter()
	router.Post("/calendars/{id}/{view}/{direction}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), n))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestNavigate(t *testing.T) {
	var args []string
	rec, out := serve(t, navigatorFunc(func(_ context.Context, id, view, direction string) (*api.NavigateResponse, error) {
		args = []string{id, view, direction}
		return &api.NavigateResponse{
			CalendarResponse: api.CalendarResponse{ID: id, WeekOffset: 2},
			Moved:            true,
		}, nil
	}), "/calendars/abc/desktop/next")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"abc", "desktop", "next"}, args)

	cal := out["calendar"].(map[string]any)
	assert.Equal(t, true, cal["moved"])
	assert.Equal(t, 2.0, cal["week_offset"])
}

func TestNavigateErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   response.ErrCode
	}{
		{fmt.Errorf("svc: %w", response.ErrBadRequest), http.StatusBadRequest, response.BAD_REQUEST},
		{response.ErrNotFound, http.StatusNotFound, response.NOT_FOUND},
		{response.ErrLocked, http.StatusLocked, response.LOCKED},
		{errors.New("boom"), http.StatusInternalServerError, response.FAILED_REQUEST},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec, out := serve(t, navigatorFunc(func(context.Context, string, string, string) (*api.NavigateResponse, error) {
				return nil, tt.err
			}), "/calendars/abc/mobile/prev")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.code), out["error"].(map[string]any)["code"])
		})
	}
}
