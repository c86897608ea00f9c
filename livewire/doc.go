// Package livewire is the interactive boundary tracer built on the forest
// engine.
//
// A Session holds the anchors placed so far and the boundary committed between
// them. Every cursor move re-runs one Tracer per strategy from the last anchor,
// in parallel, with the committed boundary excluded, and returns a Preview of
// the anchor→cursor path each strategy would draw. Commit appends the selected
// strategy's path to the boundary and turns the cursor into the new anchor.
//
// Strategies:
//
//   - livewire: additive cost, follows strong edges.
//   - riverbed: bottleneck cost, follows a valley of low weight.
//   - hybrid:   additive cost over weights raised to an exponent.
//   - line:     the straight segment, as a baseline.
//
// Concurrency:
//
//   - The lattices and the adjacency offsets are shared read-only by all runs.
//   - Each run owns its queue and maps; strategies never share mutable state.
//   - Moves are throttled (one run per interval, 30 ms by default). A move whose
//     runs finish after a newer move's is discarded: last writer wins.
//   - Started runs always finish. A canceled context only keeps the remaining
//     strategies of that move from starting.
//
// All Session methods are safe for concurrent use.
package livewire
