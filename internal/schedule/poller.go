package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pickup-calendar/pkg/sl"
)

// Fetcher loads the current week from the server.
type Fetcher interface {
	FetchWeek(ctx context.Context) (Week, error)
}

// Poller refreshes a week on an interval. Requests may overlap; every request
// carries a sequence number and a response older than the last applied one
// is dropped.
type Poller struct {
	log      *slog.Logger
	fetcher  Fetcher
	interval time.Duration
	onUpdate func(Week)

	mu      sync.Mutex
	next    uint64
	applied uint64
	week    Week
}

func NewPoller(log *slog.Logger, fetcher Fetcher, interval time.Duration, onUpdate func(Week)) *Poller {
	return &Poller{
		log:      log,
		fetcher:  fetcher,
		interval: interval,
		onUpdate: onUpdate,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	const op = "schedule.Poller.Run"

	log := p.log.With(slog.String("op", op))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	poll := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
				log.Error("Failed to refresh schedule", sl.Err(err))
			}
		}()
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

// Poll issues one request and reports whether its response was applied.
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	seq := p.begin()

	week, err := p.fetcher.FetchWeek(ctx)
	if err != nil {
		return false, err
	}

	return p.apply(seq, week), nil
}

func (p *Poller) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	return p.next
}

func (p *Poller) apply(seq uint64, week Week) bool {
	p.mu.Lock()
	if applied := p.applied; seq <= applied {
		p.mu.Unlock()
		p.log.Debug("Dropped stale schedule response", slog.Uint64("seq", seq), slog.Uint64("applied", applied))
		return false
	}
	p.applied = seq
	p.week = week
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(week)
	}

	return true
}

// Week returns the latest applied week.
func (p *Poller) Week() Week {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.week
}
