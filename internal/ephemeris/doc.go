// Package ephemeris computes amateur-astronomy-grade celestial state from
// wall-clock instants.
//
// Both calculators are MEAN-MOTION models: they assume uniform angular
// velocity and ignore orbital eccentricity and perturbations. This is a
// deliberate accuracy trade-off for a glanceable status display:
//
//   - Lunar phase: within roughly ±12 hours of the true phase.
//   - Saturn cycle events: within roughly ±1 day of the true sidereal timing.
//
// Synodic (Earth-relative) Saturn events such as opposition or stationary
// points cannot be expressed by a single-body mean-motion model; they are
// out of scope and their milestone kinds exist only as extension points.
//
// CRITICAL PATTERNS:
//
// Purity: ComputePhase and ComputeState are pure functions of their input
// instant. Same instant in, bit-identical result out. No hidden state, no
// I/O, no wall-clock reads.
//
// Direct inversion: the mean-motion relation is linear in time, so "next
// instant at which the cycle reaches angle X" is computed by inverting the
// linear relation, never by a search loop.
package ephemeris
