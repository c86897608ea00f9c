package livewire

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/katalvlaran/livetrace/adjacency"
	"github.com/katalvlaran/livetrace/ift"
	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Session is one interactive tracing of a boundary.
type Session struct {
	image   *lattice.Lattice
	weights *lattice.Lattice
	offsets *adjacency.Offsets
	opts    Options
	log     zerolog.Logger
	limiter *rate.Limiter

	mu         sync.Mutex
	tracers    map[pathcost.Kind]Tracer // replaced, never mutated in place
	selected   pathcost.Kind
	anchors    []int
	segments   []Segment
	closed     bool
	preview    *Preview
	generation uint64 // last move issued
	version    uint64 // bumped on every boundary change
}

// NewSession builds the shared adjacency and one tracer per configured
// strategy. image is optional and only checked against the weights' shape.
func NewSession(image, weights *lattice.Lattice, opts ...Option) (*Session, error) {
	if weights == nil {
		return nil, ift.ErrNilInput
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	radius := cfg.Radius
	if radius == 0 {
		radius = defaultRadius(weights.Dims())
	}
	offsets, err := adjacency.Spherical(radius, weights.Dims())
	if err != nil {
		return nil, err
	}

	s := &Session{
		image:    image,
		weights:  weights,
		offsets:  offsets,
		opts:     cfg,
		log:      cfg.Logger.With().Str("component", "livewire").Logger(),
		tracers:  make(map[pathcost.Kind]Tracer, len(cfg.Kinds)),
		selected: cfg.Selected,
	}
	for _, k := range cfg.Kinds {
		tr, err := s.newTracer(k, cfg.Exponent)
		if err != nil {
			return nil, fmt.Errorf("livewire: %s: %w", k, err)
		}
		s.tracers[k] = tr
	}
	if _, ok := s.tracers[cfg.Selected]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTracer, cfg.Selected)
	}

	limit := rate.Inf
	if cfg.Throttle > 0 {
		limit = rate.Every(cfg.Throttle)
	}
	s.limiter = rate.NewLimiter(limit, 1)

	s.log.Debug().
		Int("cells", weights.Len()).
		Int("neighbors", offsets.Len()).
		Stringer("selected", cfg.Selected).
		Dur("throttle", cfg.Throttle).
		Msg("session ready")

	return s, nil
}

func (s *Session) newTracer(k pathcost.Kind, exponent float64) (Tracer, error) {
	if k == pathcost.Line {
		return NewLineTracer(s.weights), nil
	}
	fn, err := pathcost.New(k, exponent, s.weights.Max())
	if err != nil {
		return nil, err
	}
	e, err := ift.New(s.image, s.weights, s.offsets, fn,
		ift.WithPolicy(s.opts.Policy),
		ift.WithMaxBuckets(s.opts.MaxBuckets),
		ift.WithHandicap(s.opts.Handicap),
	)
	if err != nil {
		return nil, err
	}
	return NewForestTracer(e), nil
}

// Offsets returns the adjacency shared by every tracer.
func (s *Session) Offsets() *adjacency.Offsets { return s.offsets }

// Start discards any previous boundary and places the first anchor.
func (s *Session) Start(anchor int) error {
	if !s.weights.Contains(anchor) {
		return fmt.Errorf("%w: anchor %d", lattice.ErrOutOfBounds, anchor)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anchors = []int{anchor}
	s.segments = nil
	s.closed = false
	s.preview = nil
	s.version++
	s.log.Info().Int("anchor", anchor).Msg("started")

	return nil
}

// Reset forgets every anchor and segment.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anchors, s.segments, s.closed, s.preview = nil, nil, false, nil
	s.version++
}

// Select chooses the strategy Commit and Close use.
func (s *Session) Select(k pathcost.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracers[k]; !ok {
		return fmt.Errorf("%w: %s", ErrNoTracer, k)
	}
	s.selected = k
	return nil
}

// Selected returns the current strategy.
func (s *Session) Selected() pathcost.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetExponent rebuilds the hybrid tracer with a new exponent. Runs already in
// flight keep the old one.
func (s *Session) SetExponent(e float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracers[pathcost.Hybrid]; !ok {
		return fmt.Errorf("%w: %s", ErrNoTracer, pathcost.Hybrid)
	}
	tr, err := s.newTracer(pathcost.Hybrid, e)
	if err != nil {
		return err
	}
	tracers := make(map[pathcost.Kind]Tracer, len(s.tracers))
	for k, v := range s.tracers {
		tracers[k] = v
	}
	tracers[pathcost.Hybrid] = tr
	s.tracers = tracers
	s.opts.Exponent = e
	s.log.Info().Float64("exponent", e).Msg("hybrid exponent changed")

	return nil
}

// Move previews the path from the last anchor to cursor for every strategy.
// Tracers run in parallel and are joined before returning. A move that loses
// the race to a newer one comes back with Stale set and is not kept.
func (s *Session) Move(ctx context.Context, cursor int) (Preview, error) {
	// 1) Check the session state and the throttle under the lock
	s.mu.Lock()
	if len(s.anchors) == 0 {
		s.mu.Unlock()
		return Preview{}, ErrNoAnchor
	}
	if s.closed {
		s.mu.Unlock()
		return Preview{}, ErrClosed
	}
	if !s.weights.Contains(cursor) {
		s.mu.Unlock()
		return Preview{}, fmt.Errorf("%w: cursor %d", lattice.ErrOutOfBounds, cursor)
	}
	if !s.limiter.Allow() {
		s.mu.Unlock()
		s.log.Debug().Int("cursor", cursor).Msg("move throttled")
		return Preview{}, ErrThrottled
	}

	// 2) Snapshot what the runs need: anchor, exclusions, tracers
	s.generation++
	p := Preview{
		Generation: s.generation,
		Anchor:     s.anchors[len(s.anchors)-1],
		Cursor:     cursor,
		version:    s.version,
	}
	excluded := s.excludedLocked(false)
	tracers := s.tracersLocked()
	s.mu.Unlock()

	// 3) Trace every strategy without holding the lock
	if err := s.run(ctx, &p, tracers, excluded); err != nil {
		return Preview{}, err
	}

	// 4) Keep the result unless the boundary changed or a newer move won
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.version != s.version || (s.preview != nil && s.preview.Generation > p.Generation) {
		p.Stale = true
		s.log.Debug().Uint64("generation", p.Generation).Msg("preview superseded")
		return p, nil
	}
	kept := p.clone()
	s.preview = &kept

	return p, nil
}

// run traces every strategy into p.
func (s *Session) run(ctx context.Context, p *Preview, tracers []Tracer, excluded []int) error {
	start := time.Now()
	segs := make([]Segment, len(tracers))
	errs := make([]error, len(tracers))

	g, gctx := errgroup.WithContext(ctx)
	if s.opts.Workers > 0 {
		g.SetLimit(s.opts.Workers)
	}
	for i, tr := range tracers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segs[i], errs[i] = tr.Trace(p.Anchor, p.Cursor, excluded)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.Segments = make(map[pathcost.Kind]Segment, len(tracers))
	p.Errors = make(map[pathcost.Kind]error)
	for i, tr := range tracers {
		if errs[i] != nil {
			p.Errors[tr.Kind()] = errs[i]
			s.log.Warn().Err(errs[i]).Stringer("kind", tr.Kind()).Int("cursor", p.Cursor).Msg("trace failed")
			continue
		}
		p.Segments[tr.Kind()] = segs[i]
	}
	s.log.Debug().
		Uint64("generation", p.Generation).
		Int("anchor", p.Anchor).
		Int("cursor", p.Cursor).
		Int("excluded", len(excluded)).
		Dur("elapsed", time.Since(start)).
		Msg("preview traced")

	return nil
}

// Commit appends the selected strategy's previewed path to the boundary and
// makes the cursor the new anchor.
func (s *Session) Commit() (Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.anchors) == 0 {
		return Segment{}, ErrNoAnchor
	}
	if s.closed {
		return Segment{}, ErrClosed
	}
	if s.preview == nil || s.preview.version != s.version {
		return Segment{}, ErrNoPreview
	}
	seg, ok := s.preview.Segments[s.selected]
	if !ok {
		return Segment{}, fmt.Errorf("%w: %s: %v", ErrNoPreview, s.selected, s.preview.Errors[s.selected])
	}
	if len(seg.Cells) < 2 {
		return Segment{}, ErrEmptySegment
	}
	s.commitLocked(seg)

	return seg, nil
}

// Close traces the selected strategy from the last anchor back to the first
// one, commits that segment and seals the contour.
func (s *Session) Close(ctx context.Context) (Segment, error) {
	if err := ctx.Err(); err != nil {
		return Segment{}, err
	}
	s.mu.Lock()
	if len(s.anchors) == 0 {
		s.mu.Unlock()
		return Segment{}, ErrNoAnchor
	}
	if s.closed {
		s.mu.Unlock()
		return Segment{}, ErrClosed
	}
	if len(s.segments) == 0 {
		s.mu.Unlock()
		return Segment{}, ErrEmptySegment
	}
	tr := s.tracers[s.selected]
	anchor, first := s.anchors[len(s.anchors)-1], s.anchors[0]
	excluded := s.excludedLocked(true)
	version := s.version
	s.mu.Unlock()

	seg, err := tr.Trace(anchor, first, excluded)
	if err != nil {
		return Segment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		return Segment{}, fmt.Errorf("%w: boundary changed while closing", ErrNoPreview)
	}
	s.commitLocked(seg)
	s.closed = true
	s.log.Info().Int("cells", len(s.boundaryLocked())).Msg("contour closed")

	return seg, nil
}

// Undo drops the last committed segment and returns to its anchor. With no
// segment left it removes the starting anchor.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(s.anchors) == 0:
		return ErrNothingToUndo
	case len(s.segments) == 0:
		s.anchors = nil
	default:
		s.segments = s.segments[:len(s.segments)-1]
		s.anchors = s.anchors[:len(s.anchors)-1]
	}
	s.closed = false
	s.preview = nil
	s.version++
	s.log.Info().Int("segments", len(s.segments)).Msg("undo")

	return nil
}

func (s *Session) commitLocked(seg Segment) {
	seg.Cells = slices.Clone(seg.Cells)
	s.segments = append(s.segments, seg)
	s.anchors = append(s.anchors, seg.Target)
	s.preview = nil
	s.version++
	s.log.Info().
		Stringer("kind", seg.Kind).
		Int("anchor", seg.Target).
		Int("cells", len(seg.Cells)).
		Int64("cost", seg.Cost).
		Msg("segment committed")
}

// boundaryLocked is the first anchor followed by every segment minus its
// leading anchor.
func (s *Session) boundaryLocked() []int {
	if len(s.anchors) == 0 {
		return nil
	}
	out := []int{s.anchors[0]}
	for _, seg := range s.segments {
		out = append(out, seg.Cells[1:]...)
	}
	return out
}

// excludedLocked is the boundary minus the current anchor, and minus the first
// anchor too when closing.
func (s *Session) excludedLocked(closing bool) []int {
	b := s.boundaryLocked()
	if len(b) == 0 {
		return nil
	}
	b = b[:len(b)-1]
	if closing && len(b) > 0 {
		b = b[1:]
	}
	return b
}

func (s *Session) tracersLocked() []Tracer {
	out := make([]Tracer, 0, len(s.tracers))
	for _, k := range s.opts.Kinds {
		if tr, ok := s.tracers[k]; ok {
			out = append(out, tr)
		}
	}
	return out
}

// Anchor returns the current anchor.
func (s *Session) Anchor() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.anchors) == 0 {
		return 0, false
	}
	return s.anchors[len(s.anchors)-1], true
}

// Anchors returns every anchor placed so far, first to last.
func (s *Session) Anchors() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.anchors)
}

// Boundary returns the committed curve as an ordered list of cells.
func (s *Session) Boundary() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundaryLocked()
}

// Excluded returns the cells the next preview will avoid.
func (s *Session) Excluded() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excludedLocked(false)
}

// Segments returns copies of the committed segments.
func (s *Session) Segments() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Segment, len(s.segments))
	for i, seg := range s.segments {
		seg.Cells = slices.Clone(seg.Cells)
		out[i] = seg
	}
	return out
}

// Closed reports whether Close sealed the contour.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Preview returns the latest kept preview.
func (s *Session) Preview() (Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return Preview{}, false
	}
	return s.preview.clone(), true
}
