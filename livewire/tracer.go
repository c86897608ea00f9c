package livewire

import (
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/livetrace/ift"
	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/pathcost"
)

// Tracer computes one strategy's anchor→target path avoiding excluded cells.
// Implementations must be safe for concurrent calls.
type Tracer interface {
	Kind() pathcost.Kind
	Trace(anchor, target int, excluded []int) (Segment, error)
}

// ForestTracer traces with the forest engine. Each call is an independent run
// seeded at the anchor that stops once the target is settled.
type ForestTracer struct {
	engine *ift.Engine
}

// NewForestTracer wraps an engine.
func NewForestTracer(e *ift.Engine) *ForestTracer {
	return &ForestTracer{engine: e}
}

// Kind returns the engine's strategy.
func (t *ForestTracer) Kind() pathcost.Kind { return t.engine.Function().Kind() }

// Trace runs the engine and extracts the optimum path to target.
func (t *ForestTracer) Trace(anchor, target int, excluded []int) (Segment, error) {
	start := time.Now()
	f, err := t.engine.Run(ift.Seeds(anchor), ift.WithExcluded(excluded...), ift.WithStopAt(target))
	if err != nil {
		return Segment{}, err
	}
	cells, err := f.Trace(target)
	if err != nil {
		return Segment{}, err
	}

	return Segment{
		Kind:    t.Kind(),
		Anchor:  anchor,
		Target:  target,
		Cells:   cells,
		Cost:    f.Cost(target),
		Elapsed: time.Since(start),
	}, nil
}

// LineTracer draws the digital straight segment between anchor and target.
// Its cost is the additive cost of the cells it crosses, for comparison.
type LineTracer struct {
	weights *lattice.Lattice
}

// NewLineTracer returns a straight-line tracer over weights.
func NewLineTracer(weights *lattice.Lattice) *LineTracer {
	return &LineTracer{weights: weights}
}

// Kind returns pathcost.Line.
func (t *LineTracer) Kind() pathcost.Kind { return pathcost.Line }

// Trace samples the segment at one cell per step along its longest axis. It
// fails with ErrBlocked if the segment enters an excluded cell.
func (t *LineTracer) Trace(anchor, target int, excluded []int) (Segment, error) {
	start := time.Now()
	n := t.weights.Len()
	if anchor < 0 || anchor >= n || target < 0 || target >= n {
		return Segment{}, fmt.Errorf("%w: %d→%d", lattice.ErrOutOfBounds, anchor, target)
	}
	skip := make(map[int]struct{}, len(excluded))
	for _, x := range excluded {
		skip[x] = struct{}{}
	}

	a, b := t.weights.Coordinate(anchor), t.weights.Coordinate(target)
	steps := 0
	for i := range a {
		steps = max(steps, abs(b[i]-a[i]))
	}

	cells := make([]int, 0, steps+1)
	cur := make([]int, len(a))
	var cost int64
	for k := 0; k <= steps; k++ {
		for i := range a {
			if steps == 0 {
				cur[i] = a[i]
				continue
			}
			cur[i] = a[i] + int(math.Round(float64(k*(b[i]-a[i]))/float64(steps)))
		}
		idx, _ := t.weights.Index(cur...)
		if _, ok := skip[idx]; ok {
			return Segment{}, fmt.Errorf("%w: at %v", ErrBlocked, cur)
		}
		if k > 0 {
			cost = pathcost.SaturatingAdd(cost, t.weights.At(idx))
		}
		cells = append(cells, idx)
	}

	return Segment{
		Kind:    pathcost.Line,
		Anchor:  anchor,
		Target:  target,
		Cells:   cells,
		Cost:    cost,
		Elapsed: time.Since(start),
	}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
