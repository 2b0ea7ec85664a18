package widget

import (
	"strconv"

	"pickup-calendar/internal/models"
)

const (
	classTimeSlot    = "time-slot"
	classUnavailable = "unavailable-slot"
	classSelected    = "selected-slot"
	classCheckmark   = "selected-slot-checkmark"

	// FormField is the hidden input carrying the chosen slot.
	FormField = "time_slot"

	checkmarkSrc = "/static/images/check.png"
)

type Scope string

const (
	Mobile  Scope = "mobile"
	Desktop Scope = "desktop"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case Mobile, Desktop:
		return Scope(s), nil
	}
	return "", ErrUnknownScope
}

func slotCell(grid models.Grid, day, slot int) *Element {
	ts := grid[day].TimeSlots[slot]
	key := grid.Key(day, slot)

	cell := el("div", classTimeSlot).SetText(ts.Label).Set("data-time", key.String())
	cell.Slot = &key

	if ts.Available {
		cell.Set("data-action", "select")
	} else {
		cell.AddClass(classUnavailable)
	}

	return cell
}

func navButton(scope Scope, d Direction, enabled bool) *Element {
	name := "previous"
	if d == Next {
		name = "next"
	}

	// type=button keeps the arrows from submitting the booking form.
	b := el("button", "calendar-range-btn").
		Set("type", "button").
		Set("id", string(scope)+"_"+name).
		Set("data-action", d.String())
	if !enabled {
		b.Set("disabled", "disabled")
	}

	return b
}

func hiddenInput(value string) *Element {
	return el("input").
		Set("type", "hidden").
		Set("name", FormField).
		Set("value", value)
}

func dateLabel(day models.DaySlots) *Element {
	return el("div", "calendar-date-wrapper").Add(
		el("div", "day-of-week").SetText(day.DayName),
		el("span", "day-of-month").SetText(strconv.Itoa(day.DayOfMonth)),
	)
}

// mobileView draws one day with its slots two per row.
func mobileView(grid models.Grid, nav *DayNavigator) *Element {
	day := grid[nav.Offset()]

	root := el("div", "calendar").Set("id", string(Mobile))
	root.Add(el("div", "arrow-and-day-name-wrapper").Add(
		navButton(Mobile, Prev, nav.CanPrev()),
		el("div", "calendar-month-label").SetText(day.MonthName),
		dateLabel(day),
		navButton(Mobile, Next, nav.CanNext()),
	))

	for i := 0; i < len(day.TimeSlots); i += 2 {
		row := el("div", "row", "time-slots-wrapper")
		row.Add(el("div", "col-xs-6").Add(slotCell(grid, nav.Offset(), i)))
		if i+1 < len(day.TimeSlots) && day.TimeSlots[i+1].Label != "" {
			row.Add(el("div", "col-xs-6").Add(slotCell(grid, nav.Offset(), i+1)))
		}
		root.Add(row)
	}

	return root
}

// desktopView draws a full week, one row per slot index.
func desktopView(grid models.Grid, nav *WeekNavigator, weekSize int) *Element {
	first := nav.FirstDay()
	days := grid[first:min(first+weekSize, len(grid))]

	months := make([]string, len(days))
	for i, d := range days {
		months[i] = d.MonthName
	}

	root := el("div", "calendar").Set("id", string(Desktop))

	labels := el("div", "row", "calendar-month-labels")
	for _, label := range MonthLabels(months) {
		cell := el("div", "col-xs-4", "calendar-month-label")
		if label != "" {
			cell.Add(el("h2").SetText(label))
		}
		labels.Add(cell)
	}
	root.Add(labels)

	header := el("div", "row").Set("id", "date-labels-wrapper")
	header.Add(navButton(Desktop, Prev, nav.CanPrev()))
	for _, d := range days {
		header.Add(el("div", "col-xs-2").Add(dateLabel(d)))
	}
	header.Add(navButton(Desktop, Next, nav.CanNext()))
	root.Add(header)

	if len(days) == 0 {
		return root
	}

	for slot := range days[0].TimeSlots {
		row := el("div", "row", "time-slot-row-wrapper")
		for i := range days {
			row.Add(el("div", "col-xs-2").Add(slotCell(grid, first+i, slot)))
		}
		root.Add(row)
	}

	return root
}

// persist marks the cell holding selected, if the view shows it.
func persist(root *Element, selected *models.SlotKey) bool {
	if selected == nil {
		return false
	}

	var cell, parent *Element
	root.Walk(func(node, p *Element) bool {
		if cell != nil {
			return false
		}
		if node.Slot != nil && *node.Slot == *selected {
			cell, parent = node, p
			return false
		}
		return true
	})
	if cell == nil {
		return false
	}

	cell.AddClass(classSelected)
	parent.insertAfter(cell, el("img", classCheckmark).
		Set("src", checkmarkSrc).
		Set("width", "39").
		Set("height", "39").
		Set("alt", ""))

	return true
}

// Marked returns the keys of every cell marked selected in the view.
func Marked(root *Element) []models.SlotKey {
	var keys []models.SlotKey
	for _, cell := range root.Find(classSelected) {
		if cell.Slot != nil {
			keys = append(keys, *cell.Slot)
		}
	}
	return keys
}

// Clickable returns the keys of every cell that accepts a click.
func Clickable(root *Element) []models.SlotKey {
	var keys []models.SlotKey
	for _, cell := range root.Find(classTimeSlot) {
		if cell.Attr("data-action") == "select" && cell.Slot != nil {
			keys = append(keys, *cell.Slot)
		}
	}
	return keys
}

// Form wraps both views in the booking form posting to action. The hidden
// field carries the selection shared by the two views.
func Form(action string, v Views) *Element {
	return el("form", "calendar-form").
		Set("method", "post").
		Set("action", action).
		Add(
			v.Mobile,
			v.Desktop,
			hiddenInput(v.TimeSlot),
			el("button", "btn", "btn-primary").Set("type", "submit").SetText("Continue"),
		)
}
