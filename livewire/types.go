package livewire

import (
	"errors"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/livetrace/bucketqueue"
	"github.com/katalvlaran/livetrace/config"
	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/rs/zerolog"
)

// Sentinel errors.
var (
	// ErrNoAnchor indicates an operation that needs a starting anchor.
	ErrNoAnchor = errors.New("livewire: no anchor placed")
	// ErrThrottled indicates a move dropped by the rate limiter.
	ErrThrottled = errors.New("livewire: move throttled")
	// ErrNoPreview indicates Commit without a current path for the selected strategy.
	ErrNoPreview = errors.New("livewire: no path to commit")
	// ErrEmptySegment indicates committing a path that does not leave the anchor.
	ErrEmptySegment = errors.New("livewire: cursor is on the anchor")
	// ErrNothingToUndo indicates Undo on an empty session.
	ErrNothingToUndo = errors.New("livewire: nothing to undo")
	// ErrClosed indicates an edit of a closed contour.
	ErrClosed = errors.New("livewire: contour is closed")
	// ErrBlocked indicates a straight line crossing the committed boundary.
	ErrBlocked = errors.New("livewire: line crosses the committed boundary")
	// ErrNoTracer indicates a strategy the session was not built with.
	ErrNoTracer = errors.New("livewire: strategy not available")
)

// Segment is one anchor→target path.
type Segment struct {
	Kind    pathcost.Kind
	Anchor  int
	Target  int
	Cells   []int // Anchor first, Target last
	Cost    int64
	Elapsed time.Duration
}

// Preview is the result of one cursor move across all strategies.
type Preview struct {
	Generation uint64
	Anchor     int
	Cursor     int
	Segments   map[pathcost.Kind]Segment
	Errors     map[pathcost.Kind]error
	// Stale is set when a newer move finished first; the preview was not kept.
	Stale bool

	version uint64 // boundary version the preview was computed against
}

// Path returns a copy of the cells of kind's segment, or nil if that strategy
// failed.
func (p Preview) Path(kind pathcost.Kind) []int {
	return slices.Clone(p.Segments[kind].Cells)
}

// clone deep-copies the segment map and every path, so a preview handed to a
// caller shares nothing with the one the session keeps.
func (p Preview) clone() Preview {
	segs := make(map[pathcost.Kind]Segment, len(p.Segments))
	for k, seg := range p.Segments {
		seg.Cells = slices.Clone(seg.Cells)
		segs[k] = seg
	}
	p.Segments = segs
	p.Errors = maps.Clone(p.Errors)
	return p
}

// Options configures a Session.
type Options struct {
	Radius     float64            // adjacency radius, 0 = full diagonal neighborhood
	Kinds      []pathcost.Kind    // strategies to preview
	Selected   pathcost.Kind      // strategy committed by Commit
	Exponent   float64            // hybrid exponent
	Policy     bucketqueue.Policy // queue tie-break
	MaxBuckets int                // bucket queue growth limit
	Throttle   time.Duration      // minimum interval between runs, 0 disables
	Workers    int                // parallel tracer runs per move, 0 = one per strategy
	Handicap   *lattice.Lattice   // optional per-cell bias
	Logger     zerolog.Logger
}

// Option is a functional option for NewSession.
type Option func(*Options)

// DefaultOptions mirrors config.Default with a silent logger.
func DefaultOptions() Options {
	return Options{
		Kinds:      append([]pathcost.Kind(nil), pathcost.Kinds...),
		Selected:   pathcost.Livewire,
		Exponent:   1.5,
		Policy:     bucketqueue.FIFO,
		MaxBuckets: bucketqueue.DefaultMaxBuckets,
		Throttle:   30 * time.Millisecond,
		Logger:     zerolog.Nop(),
	}
}

// WithRadius sets the adjacency radius.
func WithRadius(r float64) Option { return func(o *Options) { o.Radius = r } }

// WithKinds sets the strategies previewed on every move.
func WithKinds(kinds ...pathcost.Kind) Option {
	return func(o *Options) { o.Kinds = append([]pathcost.Kind(nil), kinds...) }
}

// WithSelected sets the initially selected strategy.
func WithSelected(k pathcost.Kind) Option { return func(o *Options) { o.Selected = k } }

// WithExponent sets the hybrid exponent.
func WithExponent(e float64) Option { return func(o *Options) { o.Exponent = e } }

// WithPolicy sets the queue tie-break.
func WithPolicy(p bucketqueue.Policy) Option { return func(o *Options) { o.Policy = p } }

// WithThrottle sets the minimum interval between runs; 0 disables throttling.
func WithThrottle(d time.Duration) Option { return func(o *Options) { o.Throttle = d } }

// WithWorkers caps how many tracers run at once per move.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithHandicap sets a per-cell bias for the additive strategies.
func WithHandicap(h *lattice.Lattice) Option { return func(o *Options) { o.Handicap = h } }

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithConfig applies a validated configuration.
func WithConfig(cfg config.Config) Option {
	return func(o *Options) {
		o.Radius = cfg.Adjacency.Radius
		if kinds, err := cfg.Kinds(); err == nil {
			o.Kinds = kinds
		}
		if k, err := cfg.Kind(); err == nil {
			o.Selected = k
		}
		if p, err := cfg.Policy(); err == nil {
			o.Policy = p
		}
		o.Exponent = cfg.Hybrid.Exponent
		o.MaxBuckets = cfg.Queue.MaxBuckets
		o.Throttle = cfg.Throttle
		o.Workers = cfg.Workers
	}
}

// defaultRadius is the full-diagonal radius √dims.
func defaultRadius(dims int) float64 {
	return math.Sqrt(float64(dims))
}
