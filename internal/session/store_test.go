package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup-calendar/internal/models"
	"pickup-calendar/internal/widget"
	"pickup-calendar/pkg/response"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour), mr
}

func samplePageView() *PageView {
	selected := models.SlotKey{Date: "2015-03-20", Hour: 9}
	return &PageView{
		ID:   "3b7f",
		Kind: KindPickUp,
		Grid: models.Grid{{
			Date:       "2015-03-20",
			DayName:    "Fri",
			DayOfMonth: 20,
			MonthName:  "March",
			TimeSlots: []models.TimeSlot{
				{Hour: 8, Label: "8 - 9am"},
				{Hour: 9, Label: "9 - 10am", Available: true},
			},
		}},
		State: widget.State{
			DayOffset: 0,
			Selected:  &selected,
			FormValue: selected.String(),
		},
		CreatedAt: time.Date(2015, 3, 18, 10, 30, 0, 0, time.UTC),
	}
}

func TestSaveLoad(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	pv := samplePageView()

	require.NoError(t, s.Save(ctx, pv))
	assert.True(t, mr.Exists("calendar:3b7f"))
	assert.Equal(t, time.Hour, mr.TTL("calendar:3b7f"))

	got, err := s.Load(ctx, "3b7f")
	require.NoError(t, err)
	assert.Equal(t, pv.Grid, got.Grid)
	assert.Equal(t, pv.State, got.State)
	assert.Equal(t, KindPickUp, got.Kind)
	assert.True(t, pv.CreatedAt.Equal(got.CreatedAt))
}

func TestLoadMissing(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestLoadExpired(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePageView()))
	mr.FastForward(2 * time.Hour)

	_, err := s.Load(ctx, "3b7f")
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestLoadCorrupt(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set("calendar:bad", "{"))

	_, err := s.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, response.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePageView()))
	require.NoError(t, s.Delete(ctx, "3b7f"))
	assert.False(t, mr.Exists("calendar:3b7f"))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("delivery")
	require.NoError(t, err)
	assert.Equal(t, KindDelivery, k)

	_, err = ParseKind("laundry")
	assert.ErrorIs(t, err, response.ErrBadRequest)
}
