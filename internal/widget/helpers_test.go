package widget

import (
	"fmt"
	"testing"
	"time"

	"pickup-calendar/internal/models"
)

// testGrid builds Monday to Saturday days starting at start, with slots from
// 08:00. avail decides which slots are open.
func testGrid(t *testing.T, start string, days, slots int, avail func(day, slot int) bool) models.Grid {
	t.Helper()

	d, err := time.Parse(models.DateLayout, start)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}

	var grid models.Grid
	for len(grid) < days {
		if d.Weekday() != time.Sunday {
			i := len(grid)
			day := models.DaySlots{
				Date:       d.Format(models.DateLayout),
				DayName:    d.Format("Monday"),
				DayOfMonth: d.Day(),
				MonthName:  d.Format("January"),
			}
			for s := 0; s < slots; s++ {
				day.TimeSlots = append(day.TimeSlots, models.TimeSlot{
					Hour:      8 + s,
					Label:     fmt.Sprintf("%d - %d", 8+s, 9+s),
					Available: avail(i, s),
				})
			}
			grid = append(grid, day)
		}
		d = d.AddDate(0, 0, 1)
	}

	return grid
}

// closedFirstDay leaves day 0 and the last slot of every day unavailable.
func closedFirstDay(day, slot int) bool {
	return day > 0 && slot < 4
}

func allOpen(int, int) bool { return true }
