package ift

import (
	"errors"

	"github.com/katalvlaran/livetrace/bucketqueue"
	"github.com/katalvlaran/livetrace/lattice"
)

// Sentinel errors returned by the engine.
var (
	// ErrNilInput indicates a nil weights lattice, offsets set or cost function.
	ErrNilInput = errors.New("ift: weights, offsets and cost function are required")

	// ErrInvalidDimension indicates lattices or offsets of inconsistent shape.
	ErrInvalidDimension = errors.New("ift: invalid dimension")

	// ErrEmptySeeds indicates Run was invoked without any seed.
	ErrEmptySeeds = errors.New("ift: at least one seed is required")

	// ErrIndexRange indicates a cell index outside the lattice.
	ErrIndexRange = errors.New("ift: cell index out of range")

	// ErrSeedExcluded indicates a seed that is also in the excluded set.
	ErrSeedExcluded = errors.New("ift: seed is excluded")

	// ErrUnreachable indicates a path was requested to a cell with no root.
	ErrUnreachable = errors.New("ift: cell not reached from any seed")
)

// State is the lifecycle of a run.
type State int

const (
	// Running is the state while cells are being settled.
	Running State = iota
	// Done means the queue emptied: every reachable cell is settled.
	Done
	// Stopped means the run ended early at its stop target.
	Stopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// LinkKind tags a predecessor entry.
type LinkKind uint8

const (
	// Unset links belong to cells never reached.
	Unset LinkKind = iota
	// RootLink marks a seed: the tree ends here.
	RootLink
	// CellLink points at the predecessor cell.
	CellLink
)

// Link is one entry of the predecessor map.
type Link struct {
	kind  LinkKind
	index int
}

func rootLink() Link      { return Link{kind: RootLink} }
func cellLink(p int) Link { return Link{kind: CellLink, index: p} }

// Kind returns the tag of the link.
func (l Link) Kind() LinkKind { return l.kind }

// IsRoot reports whether the cell is a seed.
func (l Link) IsRoot() bool { return l.kind == RootLink }

// IsSet reports whether the cell was reached at all.
func (l Link) IsSet() bool { return l.kind != Unset }

// Predecessor returns the predecessor cell and true for a CellLink.
func (l Link) Predecessor() (int, bool) {
	if l.kind != CellLink {
		return 0, false
	}
	return l.index, true
}

// Options configures an engine run. Engine-level options act as defaults and
// per-run options are applied on top of them.
type Options struct {
	Seeds         []int                  // roots of the forest
	Excluded      []int                  // cells pinned at Infinity
	Handicap      *lattice.Lattice       // optional per-cell bias, same shape as the weights
	Policy        bucketqueue.Policy     // tie-break among equal costs
	WeightedSeeds bool                   // seed cost = weight at seed instead of 0
	StopAt        int                    // settle-and-stop target, -1 for none
	MaxBuckets    int                    // bucket queue growth limit
	OnSettle      func(idx int, c int64) // called once per settled cell
	OnUpdate      func(idx int, c int64) // called on every cost improvement
}

// Option is a functional option for New and Run.
type Option func(*Options)

// DefaultOptions returns FIFO tie-break, zero seed cost, no stop target and no hooks.
func DefaultOptions() Options {
	return Options{
		Policy:     bucketqueue.FIFO,
		StopAt:     -1,
		MaxBuckets: bucketqueue.DefaultMaxBuckets,
	}
}

// Seeds sets the seed cells.
func Seeds(idx ...int) Option {
	return func(o *Options) { o.Seeds = append([]int(nil), idx...) }
}

// WithExcluded sets the cells that may never be entered.
func WithExcluded(idx ...int) Option {
	return func(o *Options) { o.Excluded = append([]int(nil), idx...) }
}

// WithHandicap sets a per-cell bias lattice.
func WithHandicap(h *lattice.Lattice) Option {
	return func(o *Options) { o.Handicap = h }
}

// WithPolicy sets the bucket queue tie-break.
func WithPolicy(p bucketqueue.Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithWeightedSeeds starts every seed at its own weight.
func WithWeightedSeeds() Option {
	return func(o *Options) { o.WeightedSeeds = true }
}

// WithStopAt ends the run as soon as idx is settled.
func WithStopAt(idx int) Option {
	return func(o *Options) { o.StopAt = idx }
}

// WithMaxBuckets limits the bucket queue growth.
func WithMaxBuckets(n int) Option {
	return func(o *Options) { o.MaxBuckets = n }
}

// WithOnSettle registers a hook called when a cell's cost becomes final.
func WithOnSettle(fn func(idx int, c int64)) Option {
	return func(o *Options) { o.OnSettle = fn }
}

// WithOnUpdate registers a hook called whenever a cell's cost improves,
// including seed initialization.
func WithOnUpdate(fn func(idx int, c int64)) Option {
	return func(o *Options) { o.OnUpdate = fn }
}
