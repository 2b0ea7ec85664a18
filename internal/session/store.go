// Package session keeps calendar page views in Redis between requests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pickup-calendar/internal/models"
	"pickup-calendar/internal/widget"
	"pickup-calendar/pkg/response"
)

type Kind string

const (
	KindPickUp   Kind = "pickup"
	KindDelivery Kind = "delivery"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPickUp, KindDelivery:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown calendar kind %q: %w", s, response.ErrBadRequest)
}

// PageView is everything needed to rebuild a controller.
type PageView struct {
	ID         string       `json:"id"`
	Kind       Kind         `json:"kind"`
	PickUpTime *time.Time   `json:"pick_up_time,omitempty"`
	Grid       models.Grid  `json:"grid"`
	State      widget.State `json:"state"`
	CreatedAt  time.Time    `json:"created_at"`

	// Set once the form is submitted.
	Appointment *time.Time `json:"appointment,omitempty"`
	DeliveryID  string     `json:"delivery_id,omitempty"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials addr and checks the server answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	const op = "session.Connect"

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id string) string {
	return "calendar:" + id
}

// Save writes pv and restarts its TTL.
func (s *Store) Save(ctx context.Context, pv *PageView) error {
	const op = "session.Store.Save"

	data, err := json.Marshal(pv)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, key(pv.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*PageView, error) {
	const op = "session.Store.Load"

	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %s: %w", op, id, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var pv PageView
	if err := json.Unmarshal(data, &pv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &pv, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "session.Store.Delete"

	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
