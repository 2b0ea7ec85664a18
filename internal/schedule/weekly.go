package schedule

import (
	"time"

	"pickup-calendar/internal/models"
)

// Week is indexed [hour - startHour][weekday] with Monday as 0. A nil cell is
// an empty hour that has already passed.
type Week [][][]models.Entry

// WeekRange returns Monday 00:00 to Sunday 23:59:59.999999999 of the week
// holding t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day()-wd, 0, 0, 0, 0, t.Location())
	end := time.Date(start.Year(), start.Month(), start.Day()+6, 23, 59, 59, 999999999, t.Location())
	return start, end
}

func Empty(startHour, endHour int) Week {
	week := make(Week, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		row := make([][]models.Entry, 7)
		for d := range row {
			row[d] = []models.Entry{}
		}
		week = append(week, row)
	}
	return week
}

// Build places each order's collection and delivery falling in [from, to] in
// its local hour and weekday.
func Build(orders []models.Order, from, to time.Time, startHour, endHour int) Week {
	week := Empty(startHour, endHour)
	loc := from.Location()

	place := func(at time.Time, e models.Entry) {
		if at.Before(from) || at.After(to) {
			return
		}
		local := at.In(loc)
		row := local.Hour() - startHour
		if row < 0 || row >= len(week) {
			return
		}
		day := (int(local.Weekday()) + 6) % 7
		week[row][day] = append(week[row][day], e)
	}

	for _, o := range orders {
		entry := models.Entry{
			OrderID:       o.ID,
			Order:         o.UUID,
			StatusDisplay: models.OrderStatusDisplay(o.Status),
			Status:        o.Status,
			TicketID:      o.TicketID,
			Postcode:      o.Postcode,
		}

		collect := entry
		collect.Collect = true
		place(o.PickUpTime, collect)
		place(o.DropOffTime, entry)
	}

	return week
}

// VoidPast clears empty cells that are already in the past relative to now.
func VoidPast(week Week, now time.Time, startHour int) Week {
	today := (int(now.Weekday()) + 6) % 7
	hour := now.Hour() - startHour

	for h := range week {
		for d := range week[h] {
			if len(week[h][d]) > 0 {
				continue
			}
			if d < today || (d == today && h < hour) {
				week[h][d] = nil
			}
		}
	}

	return week
}
