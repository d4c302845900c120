// Package observer implements the Kronos celestial observer engine.
//
// The observer is the heart of Kronos - it polls a time source on a coarse
// schedule, derives the celestial state for each instant, and decides when
// a crossing (full moon reached, Saturn milestone passed) warrants exactly
// one notification.
//
// ARCHITECTURE:
//
// Single-Writer Tick Loop:
// The loop processes all ticks in a single goroutine. Shared mutable state
// is limited to the previous snapshot and the alert state, both owned by
// the loop and committed only at the end of a successful tick. This ensures:
// - Predictable evaluation order
// - No locks and no torn ticks (a tick commits fully or not at all)
// - Simple reasoning about crossings between consecutive samples
//
// Tick Processing Flow:
// 1. Read the time source
// 2. Compute a fresh immutable snapshot (pure ephemeris math)
// 3. Evaluate the alert state machine against the previous snapshot
// 4. Hand any alert and the snapshot to the presentation sink
// 5. Commit the snapshot and the returned alert state
//
// Any failure inside a tick is logged and the tick is skipped; the previous
// snapshot is retained so the next successful tick can still detect a
// crossing relative to the last good sample. Nothing in this package is
// fatal to the host process.
//
// CRITICAL PATTERNS:
//
// Cold start: the very first evaluation has no previous sample, so no
// alert can fire. This is policy, not a bug - a crossing cannot be
// detected without a baseline.
//
// One alert per tick: when the lunar and Saturn conditions trigger on the
// same tick, the lunar alert wins and the Saturn milestone is parked in the
// alert state, to be emitted on the next tick.
//
// No catch-up storms: a wall-clock gap between ticks (host sleep/suspend)
// is treated as a single tick at the new instant. Missed ticks are never
// replayed.
package observer
