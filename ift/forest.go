package ift

import (
	"fmt"
	"iter"
	"slices"

	"github.com/katalvlaran/livetrace/pathcost"
)

// Forest is the frozen result of a run: optimum costs and predecessor links.
// It is never modified after Run returns and is safe for concurrent readers.
type Forest struct {
	kind    pathcost.Kind
	cost    []int64
	links   []Link
	settled []bool
	state   State
	pops    int
}

// Len returns the number of cells.
func (f *Forest) Len() int { return len(f.cost) }

// Kind returns the strategy of the cost function that produced the forest.
func (f *Forest) Kind() pathcost.Kind { return f.kind }

// State returns Done, or Stopped for runs cut short by WithStopAt.
func (f *Forest) State() State { return f.state }

// Pops returns how many cells were settled.
func (f *Forest) Pops() int { return f.pops }

// Cost returns the optimum cost of idx, pathcost.Infinity when unreached.
func (f *Forest) Cost(idx int) int64 { return f.cost[idx] }

// Link returns the predecessor entry of idx.
func (f *Forest) Link(idx int) Link { return f.links[idx] }

// Reached reports whether idx has a path from some seed.
func (f *Forest) Reached(idx int) bool { return f.links[idx].IsSet() }

// Settled reports whether idx's cost is final.
func (f *Forest) Settled(idx int) bool { return f.settled[idx] }

// Costs returns a copy of the cost map.
func (f *Forest) Costs() []int64 { return slices.Clone(f.cost) }

// Links returns a copy of the predecessor map.
func (f *Forest) Links() []Link { return slices.Clone(f.links) }

// Path walks the predecessor map backward from target: target first, root last.
// The sequence is empty for unreached targets, lazy, and can be ranged over any
// number of times.
func (f *Forest) Path(target int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if target < 0 || target >= len(f.links) {
			return
		}
		at := target
		for hops := 0; hops < len(f.links); hops++ {
			l := f.links[at]
			if !l.IsSet() || !yield(at) {
				return
			}
			p, ok := l.Predecessor()
			if !ok {
				return
			}
			at = p
		}
	}
}

// Root returns the seed the tree containing idx grows from.
func (f *Forest) Root(idx int) (int, bool) {
	root, found := 0, false
	for c := range f.Path(idx) {
		root, found = c, true
	}
	if !found || !f.links[root].IsRoot() {
		return 0, false
	}
	return root, true
}

// Trace returns the optimum path from its root to target, in that order.
func (f *Forest) Trace(target int) ([]int, error) {
	if target < 0 || target >= len(f.links) {
		return nil, fmt.Errorf("%w: %d", ErrIndexRange, target)
	}
	if !f.links[target].IsSet() {
		return nil, fmt.Errorf("%w: %d", ErrUnreachable, target)
	}
	path := slices.Collect(f.Path(target))
	slices.Reverse(path)

	return path, nil
}
