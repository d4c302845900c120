package observer

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrSinkClosed is returned when an event is offered to a closed sink.
var ErrSinkClosed = errors.New("sink closed")

// ErrSinkFull is returned when a bounded sink has to drop an event because
// its consumer cannot keep up. The engine logs and moves on; a slow UI must
// never stall the polling cadence.
var ErrSinkFull = errors.New("sink queue full")

// Sink is the presentation boundary consumed by the observer loop.
//
// Both calls are fire-and-forget from the engine's perspective: the engine
// does not await rendering completion. Errors are logged by the loop and
// never halt polling.
type Sink interface {
	// Display refreshes the routine UI with the latest snapshot.
	Display(snapshot Snapshot) error

	// Notify raises a one-shot visual alert.
	Notify(alert Alert) error
}

// sinkEvent carries either a snapshot or an alert through the hand-off queue.
type sinkEvent struct {
	snapshot *Snapshot
	alert    *Alert
}

// BufferedSink wraps a Sink with a bounded, non-blocking hand-off queue.
//
// Display and Notify enqueue and return immediately. A single consumer
// goroutine drains the queue and calls the wrapped sink, so a slow sink
// can delay its own rendering but never the observer loop. When the queue
// is full the event is dropped with a warning.
//
// Thread-safety: Display/Notify/Close are safe from any goroutine.
type BufferedSink struct {
	inner Sink
	queue chan sinkEvent

	closeOnce sync.Once
	done      chan struct{}
}

// DefaultSinkBuffer is the default hand-off queue capacity.
const DefaultSinkBuffer = 16

// NewBufferedSink wraps inner with a bounded hand-off queue of the given
// capacity (DefaultSinkBuffer when capacity <= 0) and starts the consumer
// goroutine. Call Close to stop it.
func NewBufferedSink(inner Sink, capacity int) *BufferedSink {
	if capacity <= 0 {
		capacity = DefaultSinkBuffer
	}

	s := &BufferedSink{
		inner: inner,
		queue: make(chan sinkEvent, capacity),
		done:  make(chan struct{}),
	}
	go s.drain()
	return s
}

// Display enqueues a snapshot refresh. Never blocks.
func (s *BufferedSink) Display(snapshot Snapshot) error {
	return s.offer(sinkEvent{snapshot: &snapshot})
}

// Notify enqueues a one-shot alert. Never blocks.
func (s *BufferedSink) Notify(alert Alert) error {
	return s.offer(sinkEvent{alert: &alert})
}

func (s *BufferedSink) offer(ev sinkEvent) error {
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}

	select {
	case s.queue <- ev:
		return nil
	default:
		return ErrSinkFull
	}
}

// Close stops the consumer goroutine. Events still queued are dropped.
func (s *BufferedSink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// drain is the single consumer: it forwards queued events to the wrapped
// sink until Close is called.
func (s *BufferedSink) drain() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.queue:
			s.deliver(ev)
		}
	}
}

func (s *BufferedSink) deliver(ev sinkEvent) {
	switch {
	case ev.snapshot != nil:
		if err := s.inner.Display(*ev.snapshot); err != nil {
			slog.Warn("sink display failed", "error", err)
		}
	case ev.alert != nil:
		if err := s.inner.Notify(*ev.alert); err != nil {
			slog.Warn("sink notify failed", "error", err, "alert_id", ev.alert.ID, "kind", ev.alert.Kind)
		}
	}
}
