package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pickup-calendar/api"
	"pickup-calendar/internal/calendar"
	"pickup-calendar/internal/lock"
	"pickup-calendar/internal/metrics"
	"pickup-calendar/internal/models"
	"pickup-calendar/internal/schedule"
	"pickup-calendar/internal/session"
	"pickup-calendar/internal/widget"
	"pickup-calendar/pkg/response"
)

type Store interface {
	ReserveSlot(ctx context.Context, appointment time.Time, max int) error
	ReleaseSlot(ctx context.Context, appointment time.Time) error
	OrdersInRange(ctx context.Context, vendorID int64, from, to time.Time) ([]models.Order, error)
}

type SessionStore interface {
	Save(ctx context.Context, pv *session.PageView) error
	Load(ctx context.Context, id string) (*session.PageView, error)
}

type GridBuilder interface {
	PickUpGrid(ctx context.Context) (models.Grid, error)
	DropOffGrid(ctx context.Context, pickUp time.Time) (models.Grid, error)
	Now() time.Time
	Location() *time.Location
}

type Settings struct {
	Widget     widget.Options
	MaxPerHour int
	LockTTL    time.Duration
	StartHour  int
	EndHour    int
}

type Service struct {
	store    Store
	locker   lock.Locker
	sessions SessionStore
	builder  GridBuilder
	metrics  *metrics.CalendarMetrics
	settings Settings
	newID    func() string
}

func NewService(
	store Store,
	locker lock.Locker,
	sessions SessionStore,
	builder GridBuilder,
	m *metrics.CalendarMetrics,
	settings Settings,
) *Service {
	if settings.LockTTL <= 0 {
		settings.LockTTL = 5 * time.Second
	}

	return &Service{
		store:    store,
		locker:   locker,
		sessions: sessions,
		builder:  builder,
		metrics:  m,
		settings: settings,
		newID:    uuid.NewString,
	}
}

// Calendars

func (s *Service) CreateCalendar(ctx context.Context, req *api.CreateCalendarRequest) (*api.CalendarResponse, error) {
	const op = "service.CreateCalendar"

	kind, err := session.ParseKind(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var previous *models.SlotKey
	if req.Previous != "" {
		key, err := models.ParseSlotKey(req.Previous)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, classify(err))
		}
		previous = &key
	}

	pv, views, err := s.createPageView(ctx, kind, req.PickUpTime, previous)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return calendarResponse(pv, views), nil
}

func (s *Service) createPageView(ctx context.Context, kind session.Kind, pickUp *time.Time, previous *models.SlotKey) (*session.PageView, widget.Views, error) {
	started := time.Now()

	var (
		grid models.Grid
		err  error
	)
	switch kind {
	case session.KindPickUp:
		grid, err = s.builder.PickUpGrid(ctx)
	case session.KindDelivery:
		if pickUp == nil {
			return nil, widget.Views{}, fmt.Errorf("pick_up_time is required for a delivery calendar: %w", response.ErrBadRequest)
		}
		grid, err = s.builder.DropOffGrid(ctx, pickUp.In(s.builder.Location()))
	}
	if err != nil {
		return nil, widget.Views{}, fmt.Errorf("build grid: %w", err)
	}

	s.metrics.ObserveBuild(string(kind), time.Since(started).Seconds())

	c, err := widget.New(grid, s.settings.Widget, seedFrom(grid, previous))
	if err != nil {
		return nil, widget.Views{}, classify(err)
	}

	views := c.Render()

	pv := &session.PageView{
		ID:         s.newID(),
		Kind:       kind,
		PickUpTime: pickUp,
		Grid:       grid,
		State:      c.Snapshot(),
		CreatedAt:  s.builder.Now(),
	}

	if err := s.sessions.Save(ctx, pv); err != nil {
		return nil, widget.Views{}, err
	}

	s.metrics.ObservePageView(string(kind))

	return pv, views, nil
}

// seedFrom places the navigators on a previous selection. The selection
// itself is only restored while its slot is still open.
func seedFrom(grid models.Grid, previous *models.SlotKey) widget.Seed {
	if previous == nil {
		return widget.Seed{}
	}

	day, week := calendar.Locate(grid, previous.Date)
	seed := widget.Seed{SelectedDay: day, SelectedWeek: week}

	if d, slot, ok := grid.Lookup(*previous); ok && grid[d].TimeSlots[slot].Available {
		key := *previous
		seed.Selected = &key
	}

	return seed
}

func (s *Service) load(ctx context.Context, id string) (*session.PageView, *widget.Controller, error) {
	pv, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	c, err := widget.Restore(pv.Grid, s.settings.Widget, pv.State)
	if err != nil {
		return nil, nil, classify(err)
	}

	return pv, c, nil
}

func (s *Service) GetCalendar(ctx context.Context, id string) (*api.CalendarResponse, error) {
	const op = "service.GetCalendar"

	pv, c, err := s.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	views := c.Render()
	pv.State = c.Snapshot()

	return calendarResponse(pv, views), nil
}

func (s *Service) Navigate(ctx context.Context, id, view, direction string) (*api.NavigateResponse, error) {
	const op = "service.Navigate"

	scope, err := widget.ParseScope(view)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	d, err := widget.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	var resp api.NavigateResponse

	err = lock.With(ctx, s.locker, lock.CalendarKey(id), s.settings.LockTTL, func() error {
		pv, c, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		moved, err := c.Advance(scope, d)
		if err != nil {
			return classify(err)
		}

		views := c.Render()
		pv.State = c.Snapshot()

		if err := s.sessions.Save(ctx, pv); err != nil {
			return err
		}

		resp = api.NavigateResponse{CalendarResponse: *calendarResponse(pv, views), Moved: moved}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.ObserveNavigation(string(scope), d.String(), resp.Moved)

	return &resp, nil
}

func (s *Service) Select(ctx context.Context, id string, req *api.SelectRequest) (*api.CalendarResponse, error) {
	const op = "service.Select"

	resp, err := s.selectSlot(ctx, id, req)

	view := req.View
	if _, perr := widget.ParseScope(view); perr != nil {
		view = "unknown"
	}
	s.metrics.ObserveSelection(view, status(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (s *Service) selectSlot(ctx context.Context, id string, req *api.SelectRequest) (*api.CalendarResponse, error) {
	scope, err := widget.ParseScope(req.View)
	if err != nil {
		return nil, classify(err)
	}

	key, err := models.ParseSlotKey(req.TimeSlot)
	if err != nil {
		return nil, classify(err)
	}

	var resp *api.CalendarResponse

	err = lock.With(ctx, s.locker, lock.CalendarKey(id), s.settings.LockTTL, func() error {
		pv, c, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if pv.Appointment != nil {
			return fmt.Errorf("calendar already submitted: %w", response.ErrConflict)
		}

		if err := c.Select(scope, key); err != nil {
			return classify(err)
		}

		views := c.Render()
		pv.State = c.Snapshot()

		if err := s.sessions.Save(ctx, pv); err != nil {
			return err
		}

		resp = calendarResponse(pv, views)
		return nil
	})

	return resp, err
}

// Submit books the slot posted in the time_slot form field. Repeating the
// same submission returns the first booking.
func (s *Service) Submit(ctx context.Context, id, value string) (*api.SubmitResponse, error) {
	const op = "service.Submit"

	var resp *api.SubmitResponse
	kind := "unknown"

	err := lock.With(ctx, s.locker, lock.CalendarKey(id), s.settings.LockTTL, func() error {
		pv, err := s.sessions.Load(ctx, id)
		if err != nil {
			return err
		}
		kind = string(pv.Kind)

		key, err := widget.ValidateSubmission(pv.Grid, value)
		if err != nil {
			return classify(err)
		}

		appointment, err := key.Time(s.builder.Location())
		if err != nil {
			return classify(err)
		}

		if pv.Appointment != nil {
			if !pv.Appointment.Equal(appointment) {
				return fmt.Errorf("calendar already submitted for %s: %w", pv.State.FormValue, response.ErrConflict)
			}
			resp = submitResponse(pv, key)
			return nil
		}

		// the delivery calendar is built before the slot is taken so a
		// failure here leaves nothing reserved
		if pv.Kind == session.KindPickUp {
			delivery, _, err := s.createPageView(ctx, session.KindDelivery, &appointment, nil)
			if err != nil {
				return fmt.Errorf("create delivery calendar: %w", err)
			}
			pv.DeliveryID = delivery.ID
		}

		if err := s.store.ReserveSlot(ctx, appointment, s.settings.MaxPerHour); err != nil {
			return err
		}

		pv.Appointment = &appointment
		pv.State.Selected = &key
		pv.State.FormValue = key.String()

		if err := s.sessions.Save(ctx, pv); err != nil {
			if rerr := s.store.ReleaseSlot(context.WithoutCancel(ctx), appointment); rerr != nil {
				return errors.Join(err, fmt.Errorf("release slot: %w", rerr))
			}
			return err
		}

		resp = submitResponse(pv, key)
		return nil
	})

	s.metrics.ObserveSubmission(kind, status(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// ICS exports the booked hours behind a submitted calendar as iCalendar.
// A pick-up lists its delivery once that is booked too; a delivery lists the
// pick-up it was opened for.
func (s *Service) ICS(ctx context.Context, id string) ([]byte, error) {
	const op = "service.ICS"

	pv, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pv.Appointment == nil {
		return nil, fmt.Errorf("%s: calendar %s has no booking: %w", op, id, response.ErrNotFound)
	}

	var pickUp, delivery *time.Time
	switch pv.Kind {
	case session.KindPickUp:
		pickUp = pv.Appointment
		if pv.DeliveryID != "" {
			d, err := s.sessions.Load(ctx, pv.DeliveryID)
			switch {
			case errors.Is(err, response.ErrNotFound):
				// expired before the delivery was booked
			case err != nil:
				return nil, fmt.Errorf("%s: %w", op, err)
			default:
				delivery = d.Appointment
			}
		}
	case session.KindDelivery:
		pickUp, delivery = pv.PickUpTime, pv.Appointment
	}

	var appointments []calendar.Appointment
	if pickUp != nil {
		appointments = append(appointments, calendar.Appointment{Summary: calendar.PickUpSummary, Start: *pickUp})
	}
	if delivery != nil {
		appointments = append(appointments, calendar.Appointment{Summary: calendar.DeliverySummary, Start: *delivery})
	}
	for i := range appointments {
		appointments[i].Sequence = i + 1
		appointments[i].UID = fmt.Sprintf("%s-%d", id, i+1)
	}

	var buf bytes.Buffer
	if err := calendar.WriteICS(&buf, "Booking "+id, s.builder.Location(), s.builder.Now(), appointments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// Schedule

func (s *Service) WeeklySchedule(ctx context.Context, vendorID int64) (*schedule.Response, error) {
	const op = "service.WeeklySchedule"

	now := s.builder.Now()
	from, to := schedule.WeekRange(now)

	orders, err := s.store.OrdersInRange(ctx, vendorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	week := schedule.Build(orders, from, to, s.settings.StartHour, s.settings.EndHour)
	week = schedule.VoidPast(week, now, s.settings.StartHour)

	return &schedule.Response{
		From: from.Format(models.DateLayout),
		To:   to.Format(models.DateLayout),
		Week: week,
	}, nil
}

func calendarResponse(pv *session.PageView, v widget.Views) *api.CalendarResponse {
	return &api.CalendarResponse{
		ID:         pv.ID,
		Kind:       string(pv.Kind),
		DayOffset:  pv.State.DayOffset,
		WeekOffset: pv.State.WeekOffset,
		TimeSlot:   v.TimeSlot,
		Mobile:     v.Mobile,
		Desktop:    v.Desktop,
	}
}

func submitResponse(pv *session.PageView, key models.SlotKey) *api.SubmitResponse {
	return &api.SubmitResponse{
		ID:                 pv.ID,
		Kind:               string(pv.Kind),
		TimeSlot:           key.String(),
		Appointment:        *pv.Appointment,
		DeliveryCalendarID: pv.DeliveryID,
	}
}

// classify attaches the response error a handler reports for err.
func classify(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidSlotKey):
		return fmt.Errorf("%w: %w", response.ErrInvalidTimeSlot, err)
	case errors.Is(err, widget.ErrSlotNotFound),
		errors.Is(err, widget.ErrSlotUnavailable),
		errors.Is(err, widget.ErrSlotNotVisible):
		return fmt.Errorf("%w: %w", response.ErrSlotNotAvailable, err)
	case errors.Is(err, widget.ErrUnknownScope),
		errors.Is(err, widget.ErrUnknownDirection):
		return fmt.Errorf("%w: %w", response.ErrBadRequest, err)
	case errors.Is(err, models.ErrEmptyGrid),
		errors.Is(err, models.ErrNonUniformGrid),
		errors.Is(err, models.ErrGridNotWeekAligned):
		return fmt.Errorf("%w: %w", response.ErrInvalidGrid, err)
	}
	return err
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, response.ErrSlotNotAvailable):
		return "slot_not_available"
	case errors.Is(err, response.ErrInvalidTimeSlot):
		return "invalid_time_slot"
	case errors.Is(err, response.ErrLocked):
		return "locked"
	case errors.Is(err, response.ErrNotFound):
		return "not_found"
	case errors.Is(err, response.ErrConflict):
		return "conflict"
	case errors.Is(err, response.ErrBadRequest):
		return "bad_request"
	}
	return "error"
}
