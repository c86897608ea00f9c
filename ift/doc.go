// Package ift implements the Image Foresting Transform: a generalized
// shortest-path search over a lattice that produces a forest of optimum paths
// rooted at seed cells, for any monotone path-cost function.
//
// Overview:
//
//   - Run seeds a bucket queue, repeatedly settles the cheapest pending cell and
//     relaxes its neighbors through an adjacency.Offsets set and an injected
//     pathcost.Function, until the queue is empty.
//   - The result is a Forest: a cost map (one int64 per cell, pathcost.Infinity
//     when unreached) and a predecessor map of tagged Links (unset, root or a
//     cell index).
//   - Excluded cells are pinned at Infinity and never entered; the interactive
//     tracer uses them to keep new segments off the committed boundary.
//
// Guarantees:
//
//   - A settled cell's cost never changes again; before that it only decreases.
//   - Following links from any reached cell ends at a root in at most Len() hops.
//   - Identical inputs (lattices, seeds, exclusions, function, tie-break policy)
//     produce identical forests.
//
// Complexity:
//
//   - Time:  O(V·k + C) with k = number of offsets and C the final cost range
//     walked by the queue cursor; O(V·k) for bounded weights.
//   - Space: O(V) for costs, links, exclusion flags and queue links.
//
// Options:
//
//   - Seeds(idx...):            required, the roots of the forest.
//   - WithExcluded(idx...):     cells that can never be entered.
//   - WithHandicap(l):          per-cell additive bias passed to Relax.
//   - WithPolicy(p):            FIFO or LIFO tie-break among equal costs.
//   - WithWeightedSeeds():      seeds start at their own weight instead of 0.
//   - WithStopAt(idx):          stop as soon as idx is settled.
//   - WithOnSettle/WithOnUpdate: hooks observing the run.
//
// Errors (sentinel):
//
//   - ErrNilInput:         nil weights, offsets or cost function.
//   - ErrInvalidDimension: image, handicap or offsets disagree with the weights' shape.
//   - ErrEmptySeeds:       no seed given.
//   - ErrIndexRange:       a seed, exclusion or stop target outside the lattice.
//   - ErrSeedExcluded:     a seed is also excluded.
//   - ErrUnreachable:      Forest.Trace on a cell the run never reached.
//
// The queue's own bucketqueue.ErrQueueEmpty is the internal end-of-run signal and
// never escapes Run.
//
// An Engine is immutable and may run concurrently from several goroutines; each
// Run owns its own queue and maps.
package ift
