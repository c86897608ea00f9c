package ift

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/livetrace/adjacency"
	"github.com/katalvlaran/livetrace/bucketqueue"
	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/pathcost"
)

// Engine binds the shared, read-only inputs of the transform: the edge-weight
// lattice, the neighbor offsets and the path-cost function.
type Engine struct {
	image    *lattice.Lattice // never read by the transform, only shape-checked
	weights  *lattice.Lattice
	offsets  *adjacency.Offsets
	fn       pathcost.Function
	defaults []Option
}

// New validates the inputs and returns an engine. image is optional; when given
// it must have the same shape as weights. The engine carries it for callers and
// never reads its samples. opts become defaults for every Run; a default
// handicap is checked here rather than on every run.
func New(image, weights *lattice.Lattice, adj *adjacency.Offsets, fn pathcost.Function, opts ...Option) (*Engine, error) {
	if weights == nil || adj == nil || fn == nil {
		return nil, ErrNilInput
	}
	if image != nil && !image.SameShape(weights) {
		return nil, fmt.Errorf("%w: image %v, weights %v", ErrInvalidDimension, image.Shape(), weights.Shape())
	}
	if err := adj.Check(weights); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
	defaults := DefaultOptions()
	for _, opt := range opts {
		opt(&defaults)
	}
	if err := checkHandicap(defaults.Handicap, weights); err != nil {
		return nil, err
	}

	return &Engine{
		image:    image,
		weights:  weights,
		offsets:  adj,
		fn:       fn,
		defaults: append([]Option(nil), opts...),
	}, nil
}

func checkHandicap(h, weights *lattice.Lattice) error {
	if h != nil && !h.SameShape(weights) {
		return fmt.Errorf("%w: handicap %v, weights %v", ErrInvalidDimension, h.Shape(), weights.Shape())
	}
	return nil
}

// Run is a one-shot helper: New without an image, then Run with opts.
func Run(weights *lattice.Lattice, adj *adjacency.Offsets, fn pathcost.Function, opts ...Option) (*Forest, error) {
	e, err := New(nil, weights, adj, fn)
	if err != nil {
		return nil, err
	}
	return e.Run(opts...)
}

// Image returns the optional intensity lattice given to New, or nil.
func (e *Engine) Image() *lattice.Lattice { return e.image }

// Weights returns the edge-weight lattice.
func (e *Engine) Weights() *lattice.Lattice { return e.weights }

// Offsets returns the adjacency relation.
func (e *Engine) Offsets() *adjacency.Offsets { return e.offsets }

// Function returns the path-cost function.
func (e *Engine) Function() pathcost.Function { return e.fn }

// Run computes the optimum-path forest from the configured seeds.
//
// Preconditions and validation (in order):
//  1. At least one seed (ErrEmptySeeds).
//  2. Seeds, exclusions and the stop target inside the lattice (ErrIndexRange).
//  3. No seed excluded (ErrSeedExcluded).
//  4. Handicap, if any, shaped like the weights (ErrInvalidDimension).
func (e *Engine) Run(opts ...Option) (*Forest, error) {
	// 1) Engine defaults, then per-run overrides
	cfg := DefaultOptions()
	for _, opt := range e.defaults {
		opt(&cfg)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate seeds, stop target and exclusions
	n := e.weights.Len()
	if len(cfg.Seeds) == 0 {
		return nil, ErrEmptySeeds
	}
	for _, s := range cfg.Seeds {
		if s < 0 || s >= n {
			return nil, fmt.Errorf("%w: seed %d not in [0,%d)", ErrIndexRange, s, n)
		}
	}
	if cfg.StopAt >= n {
		return nil, fmt.Errorf("%w: stop target %d not in [0,%d)", ErrIndexRange, cfg.StopAt, n)
	}
	excluded := make([]bool, n)
	for _, x := range cfg.Excluded {
		if x < 0 || x >= n {
			return nil, fmt.Errorf("%w: excluded cell %d not in [0,%d)", ErrIndexRange, x, n)
		}
		excluded[x] = true
	}
	for _, s := range cfg.Seeds {
		if excluded[s] {
			return nil, fmt.Errorf("%w: %d", ErrSeedExcluded, s)
		}
	}
	// A per-run handicap may differ from the one New checked.
	if err := checkHandicap(cfg.Handicap, e.weights); err != nil {
		return nil, err
	}

	// 3) Fresh per-run state; nothing here is shared with other runs
	r := &runner{
		e:        e,
		options:  cfg,
		cost:     make([]int64, n),
		links:    make([]Link, n),
		excluded: excluded,
		queue:    bucketqueue.New(n, bucketqueue.WithPolicy(cfg.Policy), bucketqueue.WithMaxBuckets(cfg.MaxBuckets)),
		coord:    make([]int, e.weights.Dims()),
	}

	// 4) Seed the queue and settle cells in cost order
	if err := r.init(); err != nil {
		return nil, err
	}
	if err := r.process(); err != nil {
		return nil, err
	}

	// 5) Hand the maps over to the Forest
	return r.forest(), nil
}

// runner holds the mutable state of a single run. Nothing in it outlives Run
// except what forest() hands over.
type runner struct {
	e        *Engine
	options  Options
	cost     []int64
	links    []Link
	excluded []bool
	queue    *bucketqueue.Queue
	coord    []int // scratch coordinates of the cell being expanded
	state    State
	pops     int
}

// init sets every cost to Infinity and queues the seeds as roots.
func (r *runner) init() error {
	// 1) Every cell starts unreached
	for i := range r.cost {
		r.cost[i] = pathcost.Infinity
	}
	// 2) Seeds become roots at cost 0, or at their own weight
	for _, s := range r.options.Seeds {
		var c int64
		if r.options.WeightedSeeds {
			c = max(r.e.weights.At(s), 0)
		}
		if r.links[s].IsRoot() && c >= r.cost[s] {
			continue // duplicate seed
		}
		r.cost[s] = c
		r.links[s] = rootLink()
		if err := r.queue.Insert(s, c); err != nil {
			return fmt.Errorf("ift: seed %d: %w", s, err)
		}
		r.update(s, c)
	}
	r.state = Running

	return nil
}

// process settles cells in cost order until the queue is empty or the stop
// target is settled.
func (r *runner) process() error {
	for {
		// 1) Take the cheapest pending cell; an empty queue ends the run
		p, err := r.queue.PopMin()
		if errors.Is(err, bucketqueue.ErrQueueEmpty) {
			r.state = Done
			return nil
		}
		if err != nil {
			return err
		}
		// 2) Its cost is final now
		r.pops++
		if r.options.OnSettle != nil {
			r.options.OnSettle(p, r.cost[p])
		}
		// 3) Early exit once the target is settled
		if p == r.options.StopAt {
			r.state = Stopped
			return nil
		}
		// 4) Offer its neighbors a path through it
		if err := r.relax(p); err != nil {
			return err
		}
	}
}

// relax offers every in-bounds, unsettled, non-excluded neighbor of p a path
// through p.
func (r *runner) relax(p int) error {
	w := r.e.weights
	fn := r.e.fn
	h := r.options.Handicap
	w.CoordinateInto(p, r.coord)
	cp := r.cost[p]

	for i := 0; i < r.e.offsets.Len(); i++ {
		q, ok := w.Offset(r.coord, r.e.offsets.Delta(i))
		if !ok || r.excluded[q] || r.queue.State(q) == bucketqueue.Black {
			continue
		}
		var hq int64
		if h != nil {
			hq = h.At(q)
		}
		cand := fn.Relax(cp, w.At(q), hq)
		if cand >= pathcost.Infinity || !fn.Improves(cand, r.cost[q]) {
			continue
		}

		r.cost[q] = cand
		r.links[q] = cellLink(p)
		if err := r.queue.DecreaseKey(q, cand); err != nil {
			return fmt.Errorf("ift: relaxing %d→%d: %w", p, q, err)
		}
		r.update(q, cand)
	}

	return nil
}

func (r *runner) update(idx int, c int64) {
	if r.options.OnUpdate != nil {
		r.options.OnUpdate(idx, c)
	}
}

// forest freezes the run's maps into a Forest.
func (r *runner) forest() *Forest {
	settled := make([]bool, len(r.cost))
	for i := range settled {
		settled[i] = r.queue.State(i) == bucketqueue.Black
	}

	return &Forest{
		kind:    r.e.fn.Kind(),
		cost:    r.cost,
		links:   r.links,
		settled: settled,
		state:   r.state,
		pops:    r.pops,
	}
}
