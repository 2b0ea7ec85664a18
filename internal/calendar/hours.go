package calendar

import (
	"fmt"

	"pickup-calendar/internal/models"
)

const (
	WeekdayOpeningHour     = 8
	WeekdayClosingHour     = 22
	WeekdayLastPickUpHour  = 17
	SaturdayOpeningHour    = 8
	SaturdayClosingHour    = 17
	SaturdayLastPickUpHour = 14
	PickUpProceedingHour   = 9

	MinHoursBeforePickUp  = 2
	MinHoursBeforeDropOff = 48
	MaxDaysPickUp         = 6
	MaxDaysAhead          = 28
)

// SlotLabel formats the hour starting at hour as "8 - 9am", "12 - 1pm".
// Only the end of the range carries a suffix.
func SlotLabel(hour int) string {
	start := hour % 12
	if start == 0 {
		start = 12
	}

	end := (hour + 1) % 12
	if end == 0 {
		end = 12
	}

	suffix := "pm"
	if hour+1 < 12 || hour+1 == 24 {
		suffix = "am"
	}

	return fmt.Sprintf("%d - %d%s", start, end, suffix)
}

// UnavailableDay returns labelled, closed slots for hours in [start, end).
func UnavailableDay(start, end int) []models.TimeSlot {
	day := make([]models.TimeSlot, 0, end-start)
	for h := start; h < end; h++ {
		day = append(day, models.TimeSlot{Hour: h, Label: SlotLabel(h)})
	}
	return day
}

// OperatingHours opens the slots of a Monday to Saturday week that fall in
// opening hours.
func OperatingHours(start, end int) [][]models.TimeSlot {
	week := make([][]models.TimeSlot, models.DefaultWeekSize)
	for i := range week {
		opening, closing := WeekdayOpeningHour, WeekdayClosingHour
		if i == saturday {
			opening, closing = SaturdayOpeningHour, SaturdayClosingHour
		}

		day := UnavailableDay(start, end)
		for j := range day {
			day[j].Available = opening <= day[j].Hour && day[j].Hour < closing
		}
		week[i] = day
	}
	return week
}
