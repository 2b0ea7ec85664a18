package calendar

import (
	"sync"
	"time"

	"pickup-calendar/internal/models"
)

// BankHolidays returns the England and Wales bank holidays of year, keyed by
// date, including substitute days when a holiday falls on a weekend.
func BankHolidays(year int) map[string]string {
	holidays := make(map[string]string)

	newYear := date(year, time.January, 1)
	holidays[format(newYear)] = "New Year's Day"
	switch newYear.Weekday() {
	case time.Saturday:
		holidays[format(newYear.AddDate(0, 0, 2))] = "New Year's Day (substitute)"
	case time.Sunday:
		holidays[format(newYear.AddDate(0, 0, 1))] = "New Year's Day (substitute)"
	}

	easter := easterSunday(year)
	holidays[format(easter.AddDate(0, 0, -2))] = "Good Friday"
	holidays[format(easter.AddDate(0, 0, 1))] = "Easter Monday"

	holidays[format(firstMonday(year, time.May))] = "Early May bank holiday"
	holidays[format(lastMonday(year, time.May))] = "Spring bank holiday"
	holidays[format(lastMonday(year, time.August))] = "Summer bank holiday"

	christmas := date(year, time.December, 25)
	holidays[format(christmas)] = "Christmas Day"
	holidays[format(christmas.AddDate(0, 0, 1))] = "Boxing Day"
	switch christmas.Weekday() {
	case time.Friday:
		holidays[format(christmas.AddDate(0, 0, 3))] = "Boxing Day (substitute)"
	case time.Saturday:
		holidays[format(christmas.AddDate(0, 0, 2))] = "Christmas Day (substitute)"
		holidays[format(christmas.AddDate(0, 0, 3))] = "Boxing Day (substitute)"
	case time.Sunday:
		holidays[format(christmas.AddDate(0, 0, 2))] = "Christmas Day (substitute)"
	}

	return holidays
}

// HolidayCalendar answers whether a date is a working day. Years are
// computed on first use.
type HolidayCalendar struct {
	mu    sync.Mutex
	years map[int]map[string]string
}

func NewHolidayCalendar() *HolidayCalendar {
	return &HolidayCalendar{years: make(map[int]map[string]string)}
}

func (h *HolidayCalendar) IsHoliday(t time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	year, ok := h.years[t.Year()]
	if !ok {
		year = BankHolidays(t.Year())
		h.years[t.Year()] = year
	}
	_, holiday := year[format(t)]
	return holiday
}

func (h *HolidayCalendar) IsWorkingDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !h.IsHoliday(t)
}

// easterSunday uses the anonymous Gregorian (Meeus/Jones/Butcher) algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return date(year, time.Month(month), day)
}

func firstMonday(year int, month time.Month) time.Time {
	d := date(year, month, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func lastMonday(year int, month time.Month) time.Time {
	d := date(year, month+1, 1).AddDate(0, 0, -1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// date is noon UTC so formatting never shifts the day.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func format(t time.Time) string {
	return t.Format(models.DateLayout)
}
