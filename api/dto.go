package api

import (
	"time"

	"pickup-calendar/internal/widget"
)

type CreateCalendarRequest struct {
	Kind       string     `json:"kind"`
	PickUpTime *time.Time `json:"pick_up_time,omitempty"`
	Previous   string     `json:"previous,omitempty"`
}

type CalendarResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	DayOffset  int             `json:"day_offset"`
	WeekOffset int             `json:"week_offset"`
	TimeSlot   string          `json:"time_slot"`
	Mobile     *widget.Element `json:"mobile"`
	Desktop    *widget.Element `json:"desktop"`
}

type NavigateResponse struct {
	CalendarResponse
	Moved bool `json:"moved"`
}

type SelectRequest struct {
	TimeSlot string `json:"time_slot"`
	View     string `json:"view"`
}

type SubmitResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	TimeSlot    string    `json:"time_slot"`
	Appointment time.Time `json:"appointment"`
	// DeliveryCalendarID is set after a pick-up is booked.
	DeliveryCalendarID string `json:"delivery_calendar_id,omitempty"`
}
