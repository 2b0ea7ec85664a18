package ics

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

	"pickup-calendar/pkg/response"
)

type exporterFunc func(ctx context.Context, id string) ([]byte, error)

func (f exporterFunc) ICS(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

func serve(e Exporter, path string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/calendars/{id}/ics", New(slog.New(slog.NewTextHandler(io.Discard, nil)), e))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestICS(t *testing.T) {
	var got string
	rec := serve(exporterFunc(func(_ context.Context, id string) ([]byte, error) {
		got = id
		return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil
	}), "/calendars/abc/ics")

	assert.Equal(t, "abc", got)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=booking_abc.ics", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", rec.Body.String())
}

func TestICSErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   response.ErrCode
	}{
		{fmt.Errorf("service.ICS: %w", response.ErrNotFound), http.StatusNotFound, response.NOT_FOUND},
		{errors.New("redis: connection refused"), http.StatusInternalServerError, response.FAILED_REQUEST},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := serve(exporterFunc(func(context.Context, string) ([]byte, error) {
				return nil, tt.err
			}), "/calendars/abc/ics")

			assert.Equal(t, tt.status, rec.Code)

			var out map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Equal(t, string(tt.code), out["error"].(map[string]any)["code"])
		})
	}
}
