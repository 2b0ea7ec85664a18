package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(date string, available ...bool) DaySlots {
	d := DaySlots{Date: date, DayName: "Monday", DayOfMonth: 1, MonthName: "January"}
	for i, a := range available {
		d.TimeSlots = append(d.TimeSlots, TimeSlot{Hour: 8 + i, Label: "x", Available: a})
	}
	return d
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name     string
		grid     Grid
		weekSize int
		wantErr  error
	}{
		{name: "empty", grid: Grid{}, weekSize: 2, wantErr: ErrEmptyGrid},
		{name: "not week aligned", grid: Grid{day("2015-01-05", true)}, weekSize: 2, wantErr: ErrGridNotWeekAligned},
		{name: "non uniform", grid: Grid{day("2015-01-05", true), day("2015-01-06", true, false)}, weekSize: 2, wantErr: ErrNonUniformGrid},
		{name: "valid", grid: Grid{day("2015-01-05", true), day("2015-01-06", false)}, weekSize: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate(tt.weekSize)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFirstAvailableDay(t *testing.T) {
	g := Grid{day("2015-01-05", false, false), day("2015-01-06", false, true), day("2015-01-07", true, true)}
	assert.Equal(t, 1, g.FirstAvailableDay())

	none := Grid{day("2015-01-05", false)}
	assert.Equal(t, 0, none.FirstAvailableDay())
}

func TestLookup(t *testing.T) {
	g := Grid{day("2015-01-05", false, false), day("2015-01-06", false, true)}

	d, s, ok := g.Lookup(SlotKey{Date: "2015-01-06", Hour: 9})
	require.True(t, ok)
	assert.Equal(t, 1, d)
	assert.Equal(t, 1, s)

	_, _, ok = g.Lookup(SlotKey{Date: "2015-01-06", Hour: 12})
	assert.False(t, ok)

	_, _, ok = g.Lookup(SlotKey{Date: "2015-02-01", Hour: 8})
	assert.False(t, ok)
}

func TestSlotKeyString(t *testing.T) {
	assert.Equal(t, "2015-03-18 08", SlotKey{Date: "2015-03-18", Hour: 8}.String())
	assert.Equal(t, "2015-03-18 21", SlotKey{Date: "2015-03-18", Hour: 21}.String())
}

func TestParseSlotKey(t *testing.T) {
	k, err := ParseSlotKey("2015-03-18 08")
	require.NoError(t, err)
	assert.Equal(t, SlotKey{Date: "2015-03-18", Hour: 8}, k)

	k, err = ParseSlotKey("2015-03-18 9")
	require.NoError(t, err)
	assert.Equal(t, 9, k.Hour)

	for _, bad := range []string{"", "2015-03-18", "2015-13-01 08", "2015-03-18 24", "2015-03-18 ab", "2015-03-18 008",
		"2015-01-27 +9", "2015-01-27 -0", "2015-01-27 1a", "2015-01-27 ١"} {
		_, err := ParseSlotKey(bad)
		assert.ErrorIs(t, err, ErrInvalidSlotKey, bad)
	}
}

func TestSlotKeyTime(t *testing.T) {
	loc := time.FixedZone("BST", 3600)

	ts, err := SlotKey{Date: "2015-07-01", Hour: 14}.Time(loc)
	require.NoError(t, err)
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, time.July, ts.Month())
}

func TestOrderStatusDisplay(t *testing.T) {
	assert.Equal(t, "Received by vendor", OrderStatusDisplay(OrderReceivedByVendor))
	assert.Equal(t, "Unknown", OrderStatusDisplay(99))
}
