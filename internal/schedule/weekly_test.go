package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup-calendar/internal/models"
)

func TestWeekRange(t *testing.T) {
	start, end := WeekRange(time.Date(2015, 3, 19, 15, 4, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2015, 3, 16, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 22, end.Day())
	assert.Equal(t, 23, end.Hour())

	start, _ = WeekRange(time.Date(2015, 3, 22, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 16, start.Day())
}

func TestBuild(t *testing.T) {
	from, to := WeekRange(time.Date(2015, 3, 18, 0, 0, 0, 0, time.UTC))

	orders := []models.Order{
		{
			ID: 1, UUID: "a", Status: models.OrderAwaitingPickUp, Postcode: "SW7 2AZ",
			PickUpTime:  time.Date(2015, 3, 16, 9, 0, 0, 0, time.UTC),
			DropOffTime: time.Date(2015, 3, 18, 14, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, UUID: "b", Status: models.OrderReceivedByVendor,
			PickUpTime:  time.Date(2015, 3, 10, 9, 0, 0, 0, time.UTC),
			DropOffTime: time.Date(2015, 3, 16, 9, 0, 0, 0, time.UTC),
		},
	}

	week := Build(orders, from, to, 8, 22)
	require.Len(t, week, 14)

	cell := week[1][0]
	require.Len(t, cell, 2)
	assert.True(t, cell[0].Collect)
	assert.Equal(t, "a", cell[0].Order)
	assert.Equal(t, "SW7 2AZ", cell[0].Postcode)
	assert.False(t, cell[1].Collect)
	assert.Equal(t, "Received by vendor", cell[1].StatusDisplay)

	require.Len(t, week[6][2], 1)
	assert.False(t, week[6][2][0].Collect)

	assert.Empty(t, week[0][0])
}

func TestBuildSkipsHoursOutsideGrid(t *testing.T) {
	from, to := WeekRange(time.Date(2015, 3, 18, 0, 0, 0, 0, time.UTC))
	orders := []models.Order{{
		ID:          3,
		PickUpTime:  time.Date(2015, 3, 17, 6, 0, 0, 0, time.UTC),
		DropOffTime: time.Date(2015, 3, 19, 23, 0, 0, 0, time.UTC),
	}}

	week := Build(orders, from, to, 8, 22)
	for _, row := range week {
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}
}

func TestVoidPast(t *testing.T) {
	week := Empty(8, 22)
	week[0][0] = []models.Entry{{Order: "kept"}}

	now := time.Date(2015, 3, 18, 10, 30, 0, 0, time.UTC)
	week = VoidPast(week, now, 8)

	assert.NotNil(t, week[0][0])
	assert.Nil(t, week[1][0])
	assert.Nil(t, week[1][2])
	assert.NotNil(t, week[2][2])
	assert.NotNil(t, week[0][3])
}
