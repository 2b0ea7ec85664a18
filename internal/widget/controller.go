package widget

import (
	"errors"
	"fmt"
	"sync"

	"pickup-calendar/internal/models"
)

var (
	ErrUnknownScope    = errors.New("unknown view scope")
	ErrSlotNotFound    = errors.New("slot is not in the calendar")
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrSlotNotVisible  = errors.New("slot is not shown in this view")
)

type Options struct {
	WeekSize int
	// ReachLastDay lets the mobile view navigate onto the final day.
	ReachLastDay bool
}

// Seed carries a selection echoed back by the server on page load.
type Seed struct {
	SelectedDay  int
	SelectedWeek int
	Selected     *models.SlotKey
}

// State is the part of a controller that changes after construction.
type State struct {
	DayOffset  int             `json:"day_offset"`
	WeekOffset int             `json:"week_offset"`
	Selected   *models.SlotKey `json:"selected,omitempty"`
	FormValue  string          `json:"form_value"`
}

// Views is one render of both scopes plus the shared form value.
type Views struct {
	Mobile   *Element `json:"mobile"`
	Desktop  *Element `json:"desktop"`
	TimeSlot string   `json:"time_slot"`
}

// Controller owns the navigation offsets and the selection of one page view.
// It is safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	grid     models.Grid
	weekSize int
	day      *DayNavigator
	week     *WeekNavigator
	selected *models.SlotKey
	form     string
}

func New(grid models.Grid, opts Options, seed Seed) (*Controller, error) {
	const op = "widget.New"

	if opts.WeekSize <= 0 {
		opts.WeekSize = models.DefaultWeekSize
	}

	if err := grid.Validate(opts.WeekSize); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Controller{
		grid:     grid,
		weekSize: opts.WeekSize,
		day:      newDayNavigator(grid, seed.SelectedDay, opts.ReachLastDay),
		week:     newWeekNavigator(grid, opts.WeekSize, seed.SelectedWeek),
	}

	if seed.Selected != nil {
		key := *seed.Selected
		c.selected = &key
	}

	return c, nil
}

// Restore rebuilds a controller from a saved state.
func Restore(grid models.Grid, opts Options, st State) (*Controller, error) {
	c, err := New(grid, opts, Seed{SelectedWeek: st.WeekOffset, Selected: st.Selected})
	if err != nil {
		return nil, err
	}

	c.day.offset = max(0, min(st.DayOffset, len(grid)-1))
	c.form = st.FormValue

	return c, nil
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		DayOffset:  c.day.Offset(),
		WeekOffset: c.week.Offset(),
		FormValue:  c.form,
	}
	if c.selected != nil {
		key := *c.selected
		st.Selected = &key
	}

	return st
}

func (c *Controller) Grid() models.Grid { return c.grid }

func (c *Controller) DayOffset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day.Offset()
}

func (c *Controller) WeekOffset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.week.Offset()
}

// Advance moves the navigator of scope and reports whether it moved.
func (c *Controller) Advance(scope Scope, d Direction) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch scope {
	case Mobile:
		return c.day.Advance(d), nil
	case Desktop:
		return c.week.Advance(d), nil
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
}

// Select makes key the only selected slot. The slot must be available and
// currently drawn in scope.
func (c *Controller) Select(scope Scope, key models.SlotKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	day, slot, ok := c.grid.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, key)
	}

	if !c.grid[day].TimeSlots[slot].Available {
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, key)
	}

	switch scope {
	case Mobile:
		if day != c.day.Offset() {
			return fmt.Errorf("%w: %s", ErrSlotNotVisible, key)
		}
	case Desktop:
		if !c.week.Contains(day) {
			return fmt.Errorf("%w: %s", ErrSlotNotVisible, key)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}

	c.selected = &key
	c.form = key.String()

	return nil
}

func (c *Controller) Selected() (models.SlotKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == nil {
		return models.SlotKey{}, false
	}
	return *c.selected, true
}

// FormValue is what the hidden time_slot field currently holds.
func (c *Controller) FormValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Render draws both scopes and re-applies the selection mark.
func (c *Controller) Render() Views {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := Views{
		Mobile:  mobileView(c.grid, c.day),
		Desktop: desktopView(c.grid, c.week, c.weekSize),
	}

	for _, root := range []*Element{v.Mobile, v.Desktop} {
		if persist(root, c.selected) {
			c.form = c.selected.String()
		}
	}
	v.TimeSlot = c.form

	return v
}

// Validate checks a submitted time_slot value against the grid.
func (c *Controller) Validate(value string) (models.SlotKey, error) {
	return ValidateSubmission(c.grid, value)
}

func ValidateSubmission(grid models.Grid, value string) (models.SlotKey, error) {
	key, err := models.ParseSlotKey(value)
	if err != nil {
		return models.SlotKey{}, err
	}

	day, slot, ok := grid.Lookup(key)
	if !ok {
		return models.SlotKey{}, fmt.Errorf("%w: %s", ErrSlotNotFound, key)
	}

	if !grid[day].TimeSlots[slot].Available {
		return models.SlotKey{}, fmt.Errorf("%w: %s", ErrSlotUnavailable, key)
	}

	return key, nil
}
