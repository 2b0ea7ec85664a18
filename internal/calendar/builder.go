package calendar

import (
	"context"
	"fmt"
	"time"

	"pickup-calendar/internal/models"
)

const saturday = 5

// CapacityChecker reports the hours already booked to capacity, keyed by
// local date.
type CapacityChecker interface {
	SlotsTaken(ctx context.Context, from, to time.Time, max int) (map[string][]int, error)
}

type Builder struct {
	loc        *time.Location
	now        func() time.Time
	weeks      int
	maxPerHour int
	capacity   CapacityChecker
	holidays   *HolidayCalendar
}

type Option func(*Builder)

func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func WithWeeks(weeks int) Option {
	return func(b *Builder) {
		if weeks > 0 {
			b.weeks = weeks
		}
	}
}

func NewBuilder(loc *time.Location, capacity CapacityChecker, maxPerHour int, opts ...Option) *Builder {
	b := &Builder{
		loc:        loc,
		now:        time.Now,
		weeks:      5,
		maxPerHour: maxPerHour,
		capacity:   capacity,
		holidays:   NewHolidayCalendar(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Location() *time.Location { return b.loc }

func (b *Builder) Now() time.Time { return b.now().In(b.loc) }

// PickUpGrid returns the grid customers choose a collection hour from.
func (b *Builder) PickUpGrid(ctx context.Context) (models.Grid, error) {
	const op = "calendar.Builder.PickUpGrid"

	now := b.Now()

	grid := b.build(now)

	notBefore := PickUpNotBefore(now)
	notAfter := now.AddDate(0, 0, MaxDaysPickUp)
	MarkUnavailable(grid, b.loc, &notBefore, &notAfter)

	if err := b.markFullSlots(ctx, grid); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return RemoveWeeksWithNoAvailability(grid, 1, b.weeks), nil
}

// DropOffGrid returns the grid of delivery hours for a collection at pickUp.
func (b *Builder) DropOffGrid(ctx context.Context, pickUp time.Time) (models.Grid, error) {
	const op = "calendar.Builder.DropOffGrid"

	grid := b.build(b.Now())

	notBefore := b.DropOffNotBefore(pickUp.In(b.loc))
	MarkUnavailable(grid, b.loc, &notBefore, nil)

	if err := b.markFullSlots(ctx, grid); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return RemoveWeeksWithNoAvailability(grid, 0, 1), nil
}

func (b *Builder) build(now time.Time) models.Grid {
	closed := UnavailableDay(WeekdayOpeningHour, WeekdayClosingHour)
	weekly := OperatingHours(WeekdayOpeningHour, WeekdayClosingHour)

	today := midnight(now)
	monday := startingMonday(now, weekly)

	grid := make(models.Grid, 0, b.weeks*models.DefaultWeekSize)
	for week := 0; week < b.weeks; week++ {
		for offset := 0; offset < models.DefaultWeekSize; offset++ {
			d := monday.AddDate(0, 0, offset+week*7)

			day := models.DaySlots{
				Date:       d.Format(models.DateLayout),
				DayName:    d.Format("Monday"),
				DayOfMonth: d.Day(),
				MonthName:  d.Format("January"),
				TimeSlots:  cloneSlots(weekly[offset]),
			}

			if offset < saturday && !b.holidays.IsWorkingDay(d) {
				day.TimeSlots = cloneSlots(closed)
			}

			daysSinceToday := daysBetween(today, d)
			if daysSinceToday < 0 || daysSinceToday > MaxDaysAhead {
				day.TimeSlots = cloneSlots(closed)
			}

			if daysSinceToday == 0 {
				for i := range day.TimeSlots {
					if day.TimeSlots[i].Hour < now.Hour()+MinHoursBeforePickUp {
						day.TimeSlots[i].Available = false
					}
				}
			}

			grid = append(grid, day)
		}
	}

	return grid
}

func (b *Builder) markFullSlots(ctx context.Context, grid models.Grid) error {
	if b.capacity == nil || len(grid) == 0 {
		return nil
	}

	from, to, err := dateRange(grid, b.loc)
	if err != nil {
		return err
	}

	taken, err := b.capacity.SlotsTaken(ctx, from, to, b.maxPerHour)
	if err != nil {
		return err
	}

	MarkFullSlots(grid, taken)

	return nil
}

// MarkFullSlots closes every slot listed in taken.
func MarkFullSlots(grid models.Grid, taken map[string][]int) {
	if len(taken) == 0 {
		return
	}

	for d := range grid {
		hours, ok := taken[grid[d].Date]
		if !ok {
			continue
		}
		for i := range grid[d].TimeSlots {
			for _, h := range hours {
				if grid[d].TimeSlots[i].Hour == h {
					grid[d].TimeSlots[i].Available = false
				}
			}
		}
	}
}

// MarkUnavailable closes slots starting before notBefore or after notAfter.
// Either bound may be nil.
func MarkUnavailable(grid models.Grid, loc *time.Location, notBefore, notAfter *time.Time) {
	for d := range grid {
		for i := range grid[d].TimeSlots {
			slot, err := grid.Key(d, i).Time(loc)
			if err != nil {
				continue
			}
			if notBefore != nil && slot.Before(*notBefore) {
				grid[d].TimeSlots[i].Available = false
			}
			if notAfter != nil && slot.After(*notAfter) {
				grid[d].TimeSlots[i].Available = false
			}
		}
	}
}

// RemoveWeeksWithNoAvailability drops weeks in [startWeek, endWeek) that have
// no open slot.
func RemoveWeeksWithNoAvailability(grid models.Grid, startWeek, endWeek int) models.Grid {
	const size = models.DefaultWeekSize

	drop := make(map[int]bool)
	for week := startWeek; week < endWeek && (week+1)*size <= len(grid); week++ {
		open := false
		for _, day := range grid[week*size : (week+1)*size] {
			for _, slot := range day.TimeSlots {
				open = open || slot.Available
			}
		}
		drop[week] = !open
	}

	kept := make(models.Grid, 0, len(grid))
	for i, day := range grid {
		if !drop[i/size] {
			kept = append(kept, day)
		}
	}

	return kept
}

// Locate returns the day and week index of date, or zeros when absent.
func Locate(grid models.Grid, date string) (int, int) {
	for i, day := range grid {
		if day.Date == date {
			return i, i / models.DefaultWeekSize
		}
	}
	return 0, 0
}

// startingMonday picks the Monday the grid opens on. Late on Saturday and on
// Sunday that is the coming Monday.
func startingMonday(now time.Time, weekly [][]models.TimeSlot) time.Time {
	switch weekday(now) {
	case 6:
		return now.AddDate(0, 0, 1)
	case saturday:
		last := 0
		for _, slot := range weekly[saturday] {
			if slot.Available {
				last = max(last, slot.Hour)
			}
		}
		if now.Hour() > last-MinHoursBeforePickUp {
			return now.AddDate(0, 0, 2)
		}
		return now.AddDate(0, 0, -5)
	}
	return now.AddDate(0, 0, -weekday(now))
}

// PickUpNotBefore is the earliest collection time for an order placed at now.
//
// Before opening on Monday to Saturday collections start at 09:00 that day;
// after the last weekday collection they start at 09:00 the next day; after
// the last Saturday collection and on Sunday they start Monday 09:00.
func PickUpNotBefore(now time.Time) time.Time {
	notBefore := now.Add(MinHoursBeforePickUp * time.Hour)

	var delta *time.Time
	wd := weekday(now)
	switch {
	case wd <= saturday && now.Hour() <= WeekdayOpeningHour:
		delta = &now
	case wd <= 4 && now.Hour() >= WeekdayLastPickUpHour:
		t := now.AddDate(0, 0, 1)
		delta = &t
	case wd == saturday && now.Hour() >= SaturdayLastPickUpHour:
		t := now.AddDate(0, 0, 2)
		delta = &t
	case wd == 6:
		t := now.AddDate(0, 0, 1)
		delta = &t
	}

	if delta != nil {
		proceed := time.Date(delta.Year(), delta.Month(), delta.Day(), PickUpProceedingHour, 0, 0, 0, now.Location())
		if proceed.After(notBefore) {
			notBefore = proceed
		}
	}

	return notBefore
}

// DropOffNotBefore is the earliest delivery for a collection at pickUp: 48
// hours later, a day more for each Sunday or weekday bank holiday crossed,
// and moved into opening hours.
func (b *Builder) DropOffNotBefore(pickUp time.Time) time.Time {
	notBefore := b.skipInactiveDays(pickUp, pickUp.Add(MinHoursBeforeDropOff*time.Hour))

	wd := weekday(notBefore)
	switch {
	case wd <= saturday && notBefore.Hour() < WeekdayOpeningHour:
		notBefore = atHour(notBefore, WeekdayOpeningHour)
	case wd <= 4 && notBefore.Hour() >= WeekdayClosingHour:
		notBefore = atHour(notBefore, WeekdayOpeningHour).AddDate(0, 0, 1)
	case wd == saturday && notBefore.Hour() >= SaturdayClosingHour:
		monday := atHour(notBefore, WeekdayOpeningHour).AddDate(0, 0, 2)
		notBefore = b.skipInactiveDays(monday.AddDate(0, 0, -1), monday)
	}

	return notBefore
}

// skipInactiveDays pushes dropOff back a day for every Sunday or weekday bank
// holiday in (pickUp, dropOff].
func (b *Builder) skipInactiveDays(pickUp, dropOff time.Time) time.Time {
	for d := midnight(pickUp).AddDate(0, 0, 1); !d.After(midnight(dropOff)); d = d.AddDate(0, 0, 1) {
		wd := weekday(d)
		if wd == 6 || (wd <= 4 && b.holidays.IsHoliday(d)) {
			return b.skipInactiveDays(d, dropOff.AddDate(0, 0, 1))
		}
	}
	return dropOff
}

func dateRange(grid models.Grid, loc *time.Location) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation(models.DateLayout, grid[0].Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	last, err := time.ParseInLocation(models.DateLayout, grid[len(grid)-1].Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return first, last.Add(24*time.Hour - time.Second), nil
}

func cloneSlots(slots []models.TimeSlot) []models.TimeSlot {
	out := make([]models.TimeSlot, len(slots))
	copy(out, slots)
	return out
}

// weekday numbers Monday as 0 and Sunday as 6.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
