package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	// DefaultWeekSize is Monday to Saturday.
	DefaultWeekSize = 6
)

var (
	ErrEmptyGrid          = errors.New("grid has no days")
	ErrNonUniformGrid     = errors.New("grid days have different slot counts")
	ErrGridNotWeekAligned = errors.New("grid length is not a multiple of the week size")
	ErrInvalidSlotKey     = errors.New("invalid slot key")
)

type TimeSlot struct {
	Hour      int    `json:"hour"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

type DaySlots struct {
	Date       string     `json:"date"`
	DayName    string     `json:"day_name"`
	DayOfMonth int        `json:"day_of_month"`
	MonthName  string     `json:"month_name"`
	TimeSlots  []TimeSlot `json:"time_slots"`
}

// Grid is the availability of consecutive days in chronological order.
type Grid []DaySlots

// Validate checks the shape the navigators rely on.
func (g Grid) Validate(weekSize int) error {
	if len(g) == 0 {
		return ErrEmptyGrid
	}

	if weekSize <= 0 || len(g)%weekSize != 0 {
		return fmt.Errorf("%w: %d days, week size %d", ErrGridNotWeekAligned, len(g), weekSize)
	}

	slots := len(g[0].TimeSlots)
	for i, day := range g {
		if len(day.TimeSlots) != slots {
			return fmt.Errorf("%w: day %d (%s) has %d slots, expected %d",
				ErrNonUniformGrid, i, day.Date, len(day.TimeSlots), slots)
		}
	}

	return nil
}

// FirstAvailableDay returns the index of the earliest day with an open slot, or 0.
func (g Grid) FirstAvailableDay() int {
	for i, day := range g {
		for _, slot := range day.TimeSlots {
			if slot.Available {
				return i
			}
		}
	}

	return 0
}

// Lookup finds the day and slot index a key refers to.
func (g Grid) Lookup(key SlotKey) (int, int, bool) {
	for i, day := range g {
		if day.Date != key.Date {
			continue
		}
		for j, slot := range day.TimeSlots {
			if slot.Hour == key.Hour {
				return i, j, true
			}
		}
		return i, -1, false
	}

	return -1, -1, false
}

// Key returns the identity of the slot at the given position.
func (g Grid) Key(day, slot int) SlotKey {
	return SlotKey{Date: g[day].Date, Hour: g[day].TimeSlots[slot].Hour}
}

// SlotKey identifies one hour on one day.
type SlotKey struct {
	Date string `json:"date"`
	Hour int    `json:"hour"`
}

// String returns the "YYYY-MM-DD HH" form posted in the time_slot field.
func (k SlotKey) String() string {
	return fmt.Sprintf("%s %02d", k.Date, k.Hour)
}

func (k SlotKey) IsZero() bool {
	return k == SlotKey{}
}

// Time returns the start of the slot in loc.
func (k SlotKey) Time(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, k.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSlotKey, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), k.Hour, 0, 0, 0, loc), nil
}

func ParseSlotKey(s string) (SlotKey, error) {
	date, hourStr, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidSlotKey, s)
	}

	if _, err := time.Parse(DateLayout, date); err != nil {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidSlotKey, s)
	}

	if hourStr == "" || len(hourStr) > 2 || strings.IndexFunc(hourStr, notDigit) >= 0 {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidSlotKey, s)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidSlotKey, s)
	}

	return SlotKey{Date: date, Hour: hour}, nil
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

// Entry is one pick-up or delivery shown on the vendor's weekly schedule.
type Entry struct {
	OrderID       int64  `json:"pk"`
	Collect       bool   `json:"collect"`
	Order         string `json:"order"`
	StatusDisplay string `json:"status_display"`
	Status        int    `json:"status"`
	TicketID      string `json:"ticket_id"`
	Postcode      string `json:"postcode"`
}

type Order struct {
	ID          int64     `db:"id"`
	UUID        string    `db:"uuid"`
	Status      int       `db:"order_status"`
	TicketID    string    `db:"ticket_id"`
	Postcode    string    `db:"postcode"`
	PickUpTime  time.Time `db:"pick_up_time"`
	DropOffTime time.Time `db:"drop_off_time"`
}

// Order statuses as stored by the order service.
const (
	OrderAwaitingPickUp      = 1
	OrderReceivedByVendor    = 2
	OrderCleaning            = 3
	OrderReadyForDelivery    = 4
	OrderOutForDelivery      = 5
	OrderDeliveredToCustomer = 6
	OrderUnclaimedByVendors  = 7
	OrderRejectedByProvider  = 8
)

var orderStatusNames = map[int]string{
	OrderAwaitingPickUp:      "Awaiting pick up",
	OrderReceivedByVendor:    "Received by vendor",
	OrderCleaning:            "Cleaning",
	OrderReadyForDelivery:    "Ready for delivery",
	OrderOutForDelivery:      "Out for delivery",
	OrderDeliveredToCustomer: "Delivered back to customer",
	OrderUnclaimedByVendors:  "Unclaimed by vendors",
	OrderRejectedByProvider:  "Rejected by service provider",
}

func OrderStatusDisplay(status int) string {
	if name, ok := orderStatusNames[status]; ok {
		return name
	}
	return "Unknown"
}
