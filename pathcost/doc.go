// Package pathcost defines the path-cost functions the forest engine is
// parameterized with, one per interactive tracing strategy.
//
// A Function is consulted once per relaxed edge: Relax turns the settled cost of
// the predecessor plus the weight and handicap of the neighbor into a candidate
// cost, and Improves decides whether that candidate replaces the neighbor's
// current best.
//
// Variants:
//
//   - Sum (livewire): pred + weight + handicap. Minimizes the cumulative
//     boundary-crossing cost. Saturates at Infinity instead of overflowing.
//   - Max (riverbed): max(pred, weight). Minimizes the worst single edge of the
//     path, following a valley of low gradient.
//   - MaxSum (hybrid): pred + round(weight^exponent) + handicap. Exponents below
//     1 flatten the weights toward the Sum behavior; exponents above 1 let the
//     largest edge dominate the sum, approaching the Max behavior.
//   - Line: no relaxation at all; the straight segment between two anchors is
//     drawn geometrically as a baseline.
//
// Every variant is monotone in pred: a larger predecessor cost never yields a
// smaller candidate. The engine's correctness depends on it.
package pathcost
