// Package scheduler depends on interfaces whose methods use types from other
// packages, and on a function value.
package scheduler

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNoClock is returned when a Scheduler is built without a clock.
var ErrNoClock = errors.New("scheduler needs a clock")

// Clock waits.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// Store persists jobs.
type Store interface {
	io.Closer
	Load(ctx context.Context, key string) ([]byte, error)
	Tag(key string, tags ...string) error
}

// Scheduler runs jobs loaded from a Store.
type Scheduler struct {
	store Store
	clock Clock
	now   func() time.Time
}

// New builds a Scheduler.
func New(store Store, clock Clock, now func() time.Time) (*Scheduler, error) {
	if clock == nil {
		return nil, ErrNoClock
	}

	return &Scheduler{store: store, clock: clock, now: now}, nil
}

// Run loads the job named key after delay and tags it with the time it ran.
func (s *Scheduler) Run(ctx context.Context, key string, delay time.Duration) ([]byte, error) {
	select {
	case <-s.clock.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	job, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	err = s.store.Tag(key, "ran", s.now().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return job, nil
}

// Close closes the store.
func (s *Scheduler) Close() error {
	return s.store.Close()
}
