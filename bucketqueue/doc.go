// Package bucketqueue implements a bucket-based monotone priority queue over a
// fixed universe of integer elements (lattice cell indices) keyed by
// non-negative integer costs.
//
// Overview:
//
//   - Buckets are indexed by cost modulo the bucket count, so only the spread
//     of pending costs (max - min) has to fit, not the absolute cost. Additive
//     path costs on large images keep growing, but their spread stays bounded by
//     the largest single step.
//   - Each bucket is a doubly linked list threaded through per-element next/prev
//     slices: Insert, DecreaseKey and Remove are O(1) and allocate nothing.
//   - PopMin advances a cursor to the next non-empty bucket: amortized O(1) for
//     the monotone workloads of the forest engine.
//   - Equal-cost elements pop in insertion order (FIFO) or reverse insertion
//     order (LIFO), chosen per queue.
//   - When a pending cost spread no longer fits, the bucket array doubles and
//     pending elements are re-bucketed, keeping their order within a bucket.
//
// Errors (sentinel):
//
//   - ErrQueueEmpty:    PopMin on an empty queue; the engine uses it as its
//     end-of-run signal.
//   - ErrNegativeCost:  Insert/DecreaseKey with cost < 0.
//   - ErrElementRange:  element outside [0, elements).
//   - ErrCostRange:     the pending cost spread would exceed WithMaxBuckets.
//
// A Queue is not safe for concurrent use; each engine run owns its own queue.
package bucketqueue
