package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pickup-calendar/internal/models"
	"pickup-calendar/pkg/response"
)

const uniqueViolation = "23505"

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an open connection pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### capacity ####

// SlotsTaken lists hours in [from, to] whose confirmed order count reached
// max, keyed by date in from's location.
func (s *Storage) SlotsTaken(ctx context.Context, from, to time.Time, max int) (map[string][]int, error) {
	const op = "storage.postgres.SlotsTaken"

	rows, err := s.db.QueryContext(ctx, `
		SELECT appointment
		FROM track_confirmed_order_slots
		WHERE appointment >= $1 AND appointment <= $2 AND counter >= $3`,
		from, to, max,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	taken := make(map[string][]int)
	loc := from.Location()

	for rows.Next() {
		var appointment time.Time
		if err := rows.Scan(&appointment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		local := appointment.In(loc)
		date := local.Format(models.DateLayout)
		taken[date] = append(taken[date], local.Hour())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return taken, nil
}

// ReserveSlot counts one more confirmed order at appointment, failing with
// response.ErrSlotNotAvailable once max is reached.
func (s *Storage) ReserveSlot(ctx context.Context, appointment time.Time, max int) error {
	const op = "storage.postgres.ReserveSlot"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var counter int
	err = tx.QueryRowContext(ctx,
		`SELECT counter FROM track_confirmed_order_slots WHERE appointment = $1 FOR UPDATE`,
		appointment,
	).Scan(&counter)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO track_confirmed_order_slots (appointment, counter) VALUES ($1, 1)`,
			appointment,
		)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("%s: insert: %w", op, err)
		}
	case err != nil:
		return fmt.Errorf("%s: select: %w", op, err)
	case counter >= max:
		return fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE track_confirmed_order_slots SET counter = counter + 1 WHERE appointment = $1`,
			appointment,
		)
		if err != nil {
			return fmt.Errorf("%s: update: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// ReleaseSlot gives back one reservation taken by ReserveSlot.
func (s *Storage) ReleaseSlot(ctx context.Context, appointment time.Time) error {
	const op = "storage.postgres.ReleaseSlot"

	_, err := s.db.ExecContext(ctx,
		`UPDATE track_confirmed_order_slots SET counter = counter - 1 WHERE appointment = $1 AND counter > 0`,
		appointment,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### schedule ####

// OrdersInRange returns a vendor's placed orders collected or delivered in
// [from, to], leaving out unclaimed and rejected ones.
func (s *Storage) OrdersInRange(ctx context.Context, vendorID int64, from, to time.Time) ([]models.Order, error) {
	const op = "storage.postgres.OrdersInRange"

	excluded := pq.Array([]int64{models.OrderUnclaimedByVendors, models.OrderRejectedByProvider})

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.uuid, o.order_status, COALESCE(o.ticket_id, ''), a.postcode, o.pick_up_time, o.drop_off_time
		FROM orders o
		JOIN addresses a ON a.id = o.pick_up_and_delivery_address_id
		WHERE o.assigned_to_vendor_id = $1
			AND o.placed
			AND (o.pick_up_time BETWEEN $2 AND $3 OR o.drop_off_time BETWEEN $2 AND $3)
			AND NOT (o.order_status = ANY($4))
		ORDER BY o.pick_up_time`,
		vendorID, from, to, excluded,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UUID, &o.Status, &o.TicketID, &o.Postcode, &o.PickUpTime, &o.DropOffTime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}
