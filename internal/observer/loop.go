package observer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Scheduling defaults. The poll cadence is deliberately coarse: minimal
// system impact is a hard requirement, so sub-second intervals are rejected
// outright.
const (
	// DefaultInterval is the default poll interval.
	DefaultInterval = 60 * time.Second

	// MinInterval is the hard floor for the poll interval.
	MinInterval = time.Second

	// DefaultGapFactor is the default multiple of the interval beyond
	// which a wall-clock gap between ticks is reported as a suspend gap.
	DefaultGapFactor = 3
)

// Journal receives fired alerts for durable recording. Implemented by the
// SQLite store; optional - the core engine runs without one.
type Journal interface {
	RecordAlert(ctx context.Context, alert Alert, snapshot Snapshot, state AlertState) error
}

// Loop drives periodic snapshot production and the alert state machine.
//
// CRITICAL: Run must be called from exactly ONE goroutine. The previous
// snapshot and the alert state are owned by the loop and mutated only at
// the end of a successful tick, so no locks are needed.
type Loop struct {
	clock     TimeSource
	eval      *Evaluator
	sink      Sink
	journal   Journal
	interval  time.Duration
	gapFactor int
	bootWait  time.Duration

	// Tick-owned state. Either a tick's full result is committed or none
	// of it is.
	prev     *Snapshot
	state    AlertState
	lastTick time.Time
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the poll interval. Values below MinInterval are
// rejected by NewLoop.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) { l.interval = d }
}

// WithGapFactor sets the suspend-gap reporting threshold as a multiple of
// the poll interval.
func WithGapFactor(n int) LoopOption {
	return func(l *Loop) { l.gapFactor = n }
}

// WithBootWait delays the first tick, giving a slow host shell time to
// come up. The wait is context-cancellable.
func WithBootWait(d time.Duration) LoopOption {
	return func(l *Loop) { l.bootWait = d }
}

// WithJournal attaches a durable alert journal.
func WithJournal(j Journal) LoopOption {
	return func(l *Loop) { l.journal = j }
}

// WithInitialState seeds the alert state machine, typically with state
// rehydrated from the store so a restart does not re-fire the same event.
func WithInitialState(st AlertState) LoopOption {
	return func(l *Loop) { l.state = st }
}

// NewLoop creates an observer loop with the default cadence.
func NewLoop(clock TimeSource, eval *Evaluator, sink Sink, opts ...LoopOption) (*Loop, error) {
	l := &Loop{
		clock:     clock,
		eval:      eval,
		sink:      sink,
		interval:  DefaultInterval,
		gapFactor: DefaultGapFactor,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.interval < MinInterval {
		return nil, fmt.Errorf("poll interval %s below minimum %s", l.interval, MinInterval)
	}
	if l.gapFactor < 2 {
		return nil, fmt.Errorf("gap factor %d below minimum 2", l.gapFactor)
	}

	return l, nil
}

// Run starts the timer-driven tick loop. Blocks until the context is
// cancelled; the inter-tick sleep is interruptible so shutdown never waits
// for the next tick.
//
// ERROR HANDLING: a failed tick is logged and skipped - the previous
// snapshot is left unchanged so the next successful tick still detects a
// crossing relative to the last good sample. No error crosses the loop
// boundary except the context's own.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("observer starting", "interval", l.interval)

	if l.bootWait > 0 {
		slog.Info("boot wait", "duration", l.bootWait)
		select {
		case <-ctx.Done():
			slog.Info("observer stopping: context cancelled during boot wait")
			return ctx.Err()
		case <-time.After(l.bootWait):
		}
	}

	timer := time.NewTimer(0) // first tick immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("observer stopping: context cancelled")
			return ctx.Err()

		case <-timer.C:
			if err := l.Tick(ctx); err != nil {
				slog.Warn("tick skipped", "error", err)
			}
			timer.Reset(l.interval)
		}
	}
}

// Tick runs one observation cycle: read the clock, compute a snapshot,
// evaluate the alert state machine, hand results to the sink, commit.
//
// Exported so tests can drive the loop deterministically with a manual
// time source. Must only be called from the Run goroutine (or sequentially
// in tests).
func (l *Loop) Tick(ctx context.Context) error {
	now, err := l.clock.Now()
	if err != nil {
		return fmt.Errorf("time source unavailable: %w", err)
	}

	// A wall-clock jump (host sleep/suspend) is a single tick at the new
	// instant; missed ticks are never replayed.
	if !l.lastTick.IsZero() {
		if gap := now.Sub(l.lastTick); gap > time.Duration(l.gapFactor)*l.interval {
			slog.Warn("wall-clock gap detected, treating as single tick",
				"gap", gap,
				"interval", l.interval,
			)
		}
	}

	snap, err := ComputeSnapshot(now)
	if err != nil {
		return fmt.Errorf("compute snapshot: %w", err)
	}

	alert, newState := l.eval.Evaluate(l.prev, snap, l.state)

	if alert != nil {
		slog.Info("alert fired",
			"alert_id", alert.ID,
			"kind", alert.Kind,
			"message", alert.Message,
			"fired_at", alert.FiredAt,
		)

		// Sink and journal failures are contained: the alert is
		// best-effort and the tick still commits.
		if err := l.sink.Notify(*alert); err != nil {
			slog.Warn("notify failed", "error", err, "alert_id", alert.ID)
		}
		if l.journal != nil {
			if err := l.journal.RecordAlert(ctx, *alert, snap, newState); err != nil {
				slog.Error("alert journal write failed", "error", err, "alert_id", alert.ID)
			}
		}
	}

	if err := l.sink.Display(snap); err != nil {
		slog.Warn("display failed", "error", err)
	}

	// Commit the tick.
	l.prev = &snap
	l.state = newState
	l.lastTick = now

	return nil
}

// State returns the current alert state. Used for testing and diagnostics.
func (l *Loop) State() AlertState {
	return l.state
}

// Previous returns the last committed snapshot, or nil before the first
// successful tick. Used for testing and diagnostics.
func (l *Loop) Previous() *Snapshot {
	return l.prev
}
