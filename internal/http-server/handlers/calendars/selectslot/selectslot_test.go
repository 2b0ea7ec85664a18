package selectslot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup-calendar/api"
	"pickup-calendar/pkg/response"
)

type selectorFunc func(ctx context.Context, id string, req *api.SelectRequest) (*api.CalendarResponse, error)

func (f selectorFunc) Select(ctx context.Context, id string, req *api.SelectRequest) (*api.CalendarResponse, error) {
	return f(ctx, id, req)
}

func serve(t *testing.T, s SlotSelector, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := chi.NewRouter()
	router.Post("/calendars/{id}/select", New(slog.New(slog.NewTextHandler(io.Discard, nil)), s))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/calendars/abc/select", strings.NewReader(body)))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestSelect(t *testing.T) {
	var got *api.SelectRequest
	rec, out := serve(t, selectorFunc(func(_ context.Context, id string, req *api.SelectRequest) (*api.CalendarResponse, error) {
		got = req
		return &api.CalendarResponse{ID: id, TimeSlot: req.TimeSlot}, nil
	}), `{"view":"mobile","time_slot":"2015-03-18 10"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &api.SelectRequest{View: "mobile", TimeSlot: "2015-03-18 10"}, got)
	assert.Equal(t, "2015-03-18 10", out["calendar"].(map[string]any)["time_slot"])
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"malformed body", `[`, nil, http.StatusBadRequest, response.BAD_REQUEST},
		{"missing slot", `{"view":"mobile"}`, nil, http.StatusBadRequest, response.BAD_REQUEST},
		{"bad slot", `{"view":"mobile","time_slot":"x"}`, fmt.Errorf("svc: %w", response.ErrInvalidTimeSlot), http.StatusBadRequest, response.INVALID_TIME_SLOT},
		{"bad view", `{"view":"x","time_slot":"2015-03-18 10"}`, response.ErrBadRequest, http.StatusBadRequest, response.BAD_REQUEST},
		{"unavailable", `{"view":"mobile","time_slot":"2015-03-18 10"}`, response.ErrSlotNotAvailable, http.StatusConflict, response.SLOT_NOT_AVAILABLE},
		{"missing", `{"view":"mobile","time_slot":"2015-03-18 10"}`, response.ErrNotFound, http.StatusNotFound, response.NOT_FOUND},
		{"locked", `{"view":"mobile","time_slot":"2015-03-18 10"}`, response.ErrLocked, http.StatusLocked, response.LOCKED},
		{"submitted", `{"view":"mobile","time_slot":"2015-03-18 10"}`, response.ErrConflict, http.StatusConflict, response.CONFLICT},
		{"failure", `{"view":"mobile","time_slot":"2015-03-18 10"}`, errors.New("boom"), http.StatusInternalServerError, response.FAILED_REQUEST},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := serve(t, selectorFunc(func(context.Context, string, *api.SelectRequest) (*api.CalendarResponse, error) {
				return nil, tt.err
			}), tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.code), out["error"].(map[string]any)["code"])
		})
	}
}
