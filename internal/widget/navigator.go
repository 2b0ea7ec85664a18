package widget

import (
	"errors"
	"fmt"

	"pickup-calendar/internal/models"
)

type Direction int

const (
	Prev Direction = iota
	Next
)

var ErrUnknownDirection = errors.New("unknown direction")

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// DayNavigator walks the mobile view one day at a time.
//
// Days before the first available day are unreachable. Unless reachLast is
// set, the last day of the grid is not reachable either, matching the
// behaviour existing clients depend on.
type DayNavigator struct {
	offset int
	floor  int
	last   int
}

func newDayNavigator(grid models.Grid, selectedDay int, reachLast bool) *DayNavigator {
	n := &DayNavigator{
		floor: grid.FirstAvailableDay(),
		last:  len(grid) - 2,
	}
	if reachLast {
		n.last = len(grid) - 1
	}

	n.offset = n.floor
	if selectedDay > 0 {
		n.offset = min(selectedDay, len(grid)-1)
	}

	return n
}

func (n *DayNavigator) Offset() int { return n.offset }

func (n *DayNavigator) CanPrev() bool { return n.offset > n.floor }

func (n *DayNavigator) CanNext() bool { return n.offset < n.last }

// Advance moves one day and reports whether the offset changed.
func (n *DayNavigator) Advance(d Direction) bool {
	switch {
	case d == Prev && n.CanPrev():
		n.offset--
	case d == Next && n.CanNext():
		n.offset++
	default:
		return false
	}
	return true
}

// WeekNavigator walks the desktop view one week at a time.
type WeekNavigator struct {
	offset   int
	weekSize int
	last     int
}

func newWeekNavigator(grid models.Grid, weekSize, selectedWeek int) *WeekNavigator {
	n := &WeekNavigator{
		weekSize: weekSize,
		last:     (len(grid)+weekSize-1)/weekSize - 1,
	}
	n.offset = max(0, min(selectedWeek, n.last))

	return n
}

func (n *WeekNavigator) Offset() int { return n.offset }

// FirstDay is the grid index of the week's first column.
func (n *WeekNavigator) FirstDay() int { return n.offset * n.weekSize }

func (n *WeekNavigator) Contains(day int) bool {
	return day >= n.FirstDay() && day < n.FirstDay()+n.weekSize
}

func (n *WeekNavigator) CanPrev() bool { return n.offset > 0 }

func (n *WeekNavigator) CanNext() bool { return n.offset < n.last }

func (n *WeekNavigator) Advance(d Direction) bool {
	switch {
	case d == Prev && n.CanPrev():
		n.offset--
	case d == Next && n.CanNext():
		n.offset++
	default:
		return false
	}
	return true
}
