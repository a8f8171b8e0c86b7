// Package scheduler runs periodic maintenance jobs next to the HTTP server.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper resets lapsed memberships. services.MembershipService implements it.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// TickerFunc returns a tick channel for the interval and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// ExpiryConfig configures an ExpiryScheduler
type ExpiryConfig struct {
	Interval   time.Duration
	RunOnStart bool
	// Ticker defaults to time.NewTicker.
	Ticker TickerFunc
}

// ExpiryScheduler calls the sweeper once at start (optionally) and then on
// every tick until stopped. Sweeps never overlap.
type ExpiryScheduler struct {
	sweeper Sweeper
	cfg     ExpiryConfig
	logger  zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewExpiryScheduler creates a new ExpiryScheduler
func NewExpiryScheduler(sweeper Sweeper, cfg ExpiryConfig, logger zerolog.Logger) *ExpiryScheduler {
	if cfg.Ticker == nil {
		cfg.Ticker = realTicker
	}
	return &ExpiryScheduler{
		sweeper: sweeper,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start launches the loop. Calling Start on a running scheduler is a no-op.
func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	tick, stopTicker := s.cfg.Ticker(s.cfg.Interval)

	go func(done chan struct{}) {
		defer close(done)
		defer stopTicker()

		s.logger.Info().Dur("interval", s.cfg.Interval).Msg("Membership expiry scheduler started")
		if s.cfg.RunOnStart {
			s.sweep(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("Membership expiry scheduler stopped")
				return
			case <-tick:
				s.sweep(ctx)
			}
		}
	}(s.done)
}

// Stop cancels the loop and waits for a running sweep to return.
func (s *ExpiryScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *ExpiryScheduler) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// errors are logged by the sweeper; the next tick retries
	if _, err := s.sweeper.SweepExpired(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled membership sweep failed")
	}
}
