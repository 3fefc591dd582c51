// Package sweep runs the background reminder poll used by the watch command.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/kv"
	"github.com/colonyops/todomanage/internal/data/stores"
	"github.com/colonyops/todomanage/internal/todomanage"
)

// LeaseKey is the KV key holding the poll lease.
const LeaseKey = "sweep:lease"

// Report is stored under the "sweep" namespace after every run.
type Report struct {
	Holder   string    `json:"holder"`
	RanAt    time.Time `json:"ran_at"`
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	Expired  int64     `json:"expired_keys"`
	Skipped  bool      `json:"skipped,omitempty"`
	LastErr  string    `json:"last_error,omitempty"`
	Interval string    `json:"interval"`
}

// Processor delivers due reminders for every owner.
type Processor interface {
	Process(ctx context.Context, owner string) (todomanage.ProcessReport, error)
}

// Sweeper polls reminders on an interval. Only the holder of the KV lease
// processes a tick, so two watchers sharing a database do not deliver twice.
type Sweeper struct {
	reminders Processor
	store     kv.KV
	reports   *kv.TypedKV[Report]
	interval  time.Duration
	holder    string
	log       zerolog.Logger
}

// New creates a Sweeper.
func New(reminders Processor, store kv.KV, interval time.Duration, log zerolog.Logger) *Sweeper {
	host, _ := os.Hostname()
	return &Sweeper{
		reminders: reminders,
		store:     store,
		reports:   kv.Scoped[Report](store, "sweep"),
		interval:  interval,
		holder:    fmt.Sprintf("%s/%d/%s", host, os.Getpid(), uuid.NewString()[:8]),
		log:       log.With().Str("component", "sweep").Logger(),
	}
}

// Start runs one sweep immediately and then one per interval. It blocks until
// the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		if stores.IsBusyError(err) || errors.Is(err, context.Canceled) {
			s.log.Debug().Err(err).Msg("reminder sweep skipped")
			return
		}
		s.log.Error().Err(err).Msg("reminder sweep failed")
	}
}

// RunOnce performs a single sweep and stores its report.
func (s *Sweeper) RunOnce(ctx context.Context) (Report, error) {
	report := Report{Holder: s.holder, Interval: s.interval.String()}

	expired, err := s.store.SweepExpired(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("kv sweep failed")
	}
	report.Expired = expired

	// The lease outlives one interval so a slow run keeps it.
	ok, err := s.store.Claim(ctx, LeaseKey, s.holder, 2*s.interval)
	if err != nil {
		return report, fmt.Errorf("claim sweep lease: %w", err)
	}
	if !ok {
		report.Skipped = true
		s.log.Debug().Msg("another watcher holds the sweep lease")
		return report, nil
	}

	processed, err := s.reminders.Process(ctx, "")
	if err != nil {
		report.LastErr = err.Error()
		s.save(ctx, report)
		return report, fmt.Errorf("process reminders: %w", err)
	}

	report.RanAt = processed.RanAt
	report.Sent = len(processed.Sent)
	report.Failed = len(processed.Failures)
	s.save(ctx, report)
	return report, nil
}

func (s *Sweeper) save(ctx context.Context, r Report) {
	if err := s.reports.Set(ctx, "last", r); err != nil {
		s.log.Debug().Err(err).Msg("store sweep report")
	}
}

// LastReport returns the report of the most recent sweep, if any.
func LastReport(ctx context.Context, store kv.KV) (Report, bool, error) {
	return kv.Scoped[Report](store, "sweep").Lookup(ctx, "last")
}
