package livewire_test

import (
	"bytes"
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/livetrace/config"
	"github.com/katalvlaran/livetrace/ift"
	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/livewire"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(t testing.TB, w, h int, v int64) *lattice.Lattice {
	t.Helper()
	l, err := lattice.Filled([]int{w, h}, v)
	require.NoError(t, err)
	return l
}

func at(t testing.TB, l *lattice.Lattice, c ...int) int {
	t.Helper()
	idx, err := l.Index(c...)
	require.NoError(t, err)
	return idx
}

func session(t testing.TB, w *lattice.Lattice, opts ...livewire.Option) *livewire.Session {
	t.Helper()
	opts = append([]livewire.Option{livewire.WithThrottle(0)}, opts...)
	s, err := livewire.NewSession(nil, w, opts...)
	require.NoError(t, err)
	return s
}

// connected checks that consecutive cells are 8-neighbors.
func connected(t *testing.T, l *lattice.Lattice, cells []int) {
	t.Helper()
	for i := 1; i < len(cells); i++ {
		a, b := l.Coordinate(cells[i-1]), l.Coordinate(cells[i])
		for k := range a {
			d := a[k] - b[k]
			assert.True(t, d >= -1 && d <= 1, "cells %v and %v are not adjacent", a, b)
		}
	}
}

func TestNewSessionValidation(t *testing.T) {
	w := flat(t, 3, 3, 1)

	_, err := livewire.NewSession(nil, nil)
	assert.ErrorIs(t, err, ift.ErrNilInput)

	_, err = livewire.NewSession(nil, w, livewire.WithKinds(pathcost.Livewire), livewire.WithSelected(pathcost.Line))
	assert.ErrorIs(t, err, livewire.ErrNoTracer)

	_, err = livewire.NewSession(nil, w, livewire.WithExponent(0))
	assert.ErrorIs(t, err, pathcost.ErrBadExponent)

	_, err = livewire.NewSession(nil, w, livewire.WithRadius(-1))
	assert.Error(t, err)

	_, err = livewire.NewSession(flat(t, 2, 2, 0), w)
	assert.ErrorIs(t, err, ift.ErrInvalidDimension)
}

func TestMoveRequiresAnchor(t *testing.T) {
	w := flat(t, 3, 3, 1)
	s := session(t, w)

	_, err := s.Move(context.Background(), 4)
	assert.ErrorIs(t, err, livewire.ErrNoAnchor)
	_, err = s.Commit()
	assert.ErrorIs(t, err, livewire.ErrNoAnchor)

	assert.ErrorIs(t, s.Start(9), lattice.ErrOutOfBounds)
	require.NoError(t, s.Start(0))
	_, err = s.Move(context.Background(), 9)
	assert.ErrorIs(t, err, lattice.ErrOutOfBounds)
}

func TestPreviewAllStrategies(t *testing.T) {
	w := flat(t, 5, 5, 1)
	s := session(t, w, livewire.WithRadius(1))
	src, dst := at(t, w, 0, 0), at(t, w, 4, 4)
	require.NoError(t, s.Start(src))

	p, err := s.Move(context.Background(), dst)
	require.NoError(t, err)
	assert.False(t, p.Stale)
	assert.Empty(t, p.Errors)
	assert.Len(t, p.Segments, len(pathcost.Kinds))
	assert.Equal(t, src, p.Anchor)
	assert.Equal(t, dst, p.Cursor)

	lw := p.Segments[pathcost.Livewire]
	assert.EqualValues(t, 8, lw.Cost)
	assert.Len(t, lw.Cells, 9)
	assert.EqualValues(t, 1, p.Segments[pathcost.Riverbed].Cost)
	assert.EqualValues(t, 8, p.Segments[pathcost.Hybrid].Cost)

	line := p.Path(pathcost.Line)
	require.Len(t, line, 5)
	for i, idx := range line {
		assert.Equal(t, []int{i, i}, w.Coordinate(idx))
	}
	assert.EqualValues(t, 4, p.Segments[pathcost.Line].Cost)

	for k, seg := range p.Segments {
		assert.Equal(t, k, seg.Kind)
		assert.Equal(t, src, seg.Cells[0], "%s", k)
		assert.Equal(t, dst, seg.Cells[len(seg.Cells)-1], "%s", k)
		connected(t, w, seg.Cells)
	}

	kept, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, p.Generation, kept.Generation)
}

func TestCommitExcludesBoundary(t *testing.T) {
	w := flat(t, 5, 5, 1)
	s := session(t, w, livewire.WithRadius(1))
	ctx := context.Background()

	require.NoError(t, s.Start(at(t, w, 0, 0)))
	_, err := s.Move(ctx, at(t, w, 4, 0))
	require.NoError(t, err)
	first, err := s.Commit()
	require.NoError(t, err)
	assert.Len(t, first.Cells, 5)

	anchor, ok := s.Anchor()
	require.True(t, ok)
	assert.Equal(t, at(t, w, 4, 0), anchor)
	assert.Equal(t, first.Cells, s.Boundary())
	assert.Equal(t, first.Cells[:4], s.Excluded())

	// The committed row can no longer be reached.
	p, err := s.Move(ctx, at(t, w, 2, 0))
	require.NoError(t, err)
	assert.Empty(t, p.Segments)
	assert.ErrorIs(t, p.Errors[pathcost.Livewire], ift.ErrUnreachable)
	assert.ErrorIs(t, p.Errors[pathcost.Line], livewire.ErrBlocked)
	_, err = s.Commit()
	assert.ErrorIs(t, err, livewire.ErrNoPreview)

	_, err = s.Move(ctx, at(t, w, 4, 4))
	require.NoError(t, err)
	second, err := s.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 4, second.Cost)

	boundary := s.Boundary()
	assert.Len(t, boundary, 9)
	assert.Equal(t, []int{at(t, w, 0, 0), at(t, w, 4, 0), at(t, w, 4, 4)}, s.Anchors())

	// Any path back to the start has to go around.
	p, err = s.Move(ctx, at(t, w, 1, 1))
	require.NoError(t, err)
	for _, idx := range p.Path(pathcost.Livewire)[1:] {
		assert.NotContains(t, boundary, idx)
	}
}

func TestCommitEmptySegment(t *testing.T) {
	w := flat(t, 3, 3, 1)
	s := session(t, w)
	require.NoError(t, s.Start(4))

	_, err := s.Commit()
	assert.ErrorIs(t, err, livewire.ErrNoPreview)

	p, err := s.Move(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, p.Path(pathcost.Livewire))
	_, err = s.Commit()
	assert.ErrorIs(t, err, livewire.ErrEmptySegment)
}

func TestSegmentsNeverCrossBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := make([]int64, 12*12)
	for i := range data {
		data[i] = 1 + rng.Int63n(9)
	}
	w, err := lattice.New([]int{12, 12}, data)
	require.NoError(t, err)
	ctx := context.Background()

	for _, k := range []pathcost.Kind{pathcost.Livewire, pathcost.Riverbed, pathcost.Hybrid} {
		t.Run(k.String(), func(t *testing.T) {
			s := session(t, w, livewire.WithSelected(k))
			require.NoError(t, s.Start(at(t, w, 1, 1)))
			for _, c := range [][]int{{10, 1}, {10, 10}, {1, 10}} {
				before := s.Boundary()
				_, err := s.Move(ctx, at(t, w, c...))
				require.NoError(t, err)
				seg, err := s.Commit()
				require.NoError(t, err)
				for _, idx := range seg.Cells[1:] {
					assert.NotContains(t, before, idx)
				}
				connected(t, w, seg.Cells)
			}

			seg, err := s.Close(ctx)
			require.NoError(t, err)
			assert.Equal(t, at(t, w, 1, 1), seg.Target)
			assert.True(t, s.Closed())

			b := s.Boundary()
			assert.Equal(t, b[0], b[len(b)-1])
			seen := make(map[int]bool)
			for _, idx := range b[:len(b)-1] {
				assert.False(t, seen[idx], "cell %v appears twice", w.Coordinate(idx))
				seen[idx] = true
			}
		})
	}
}

func TestCloseAndUndo(t *testing.T) {
	w := flat(t, 5, 5, 1)
	s := session(t, w, livewire.WithRadius(1))
	ctx := context.Background()

	require.NoError(t, s.Start(at(t, w, 0, 0)))
	_, err := s.Close(ctx)
	assert.ErrorIs(t, err, livewire.ErrEmptySegment)

	for _, c := range [][]int{{4, 0}, {4, 4}} {
		_, err := s.Move(ctx, at(t, w, c...))
		require.NoError(t, err)
		_, err = s.Commit()
		require.NoError(t, err)
	}

	seg, err := s.Close(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, seg.Cost)
	assert.Equal(t, at(t, w, 4, 4), seg.Anchor)
	assert.Equal(t, at(t, w, 0, 0), seg.Target)
	assert.True(t, s.Closed())
	assert.Len(t, s.Segments(), 3)
	assert.Len(t, s.Boundary(), 17)

	_, err = s.Move(ctx, at(t, w, 2, 2))
	assert.ErrorIs(t, err, livewire.ErrClosed)
	_, err = s.Close(ctx)
	assert.ErrorIs(t, err, livewire.ErrClosed)

	require.NoError(t, s.Undo())
	assert.False(t, s.Closed())
	assert.Len(t, s.Segments(), 2)
	anchor, _ := s.Anchor()
	assert.Equal(t, at(t, w, 4, 4), anchor)

	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.Equal(t, []int{at(t, w, 0, 0)}, s.Anchors())
	require.NoError(t, s.Undo())
	_, ok := s.Anchor()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Undo(), livewire.ErrNothingToUndo)
}

func TestUndoDropsPreview(t *testing.T) {
	w := flat(t, 4, 4, 1)
	s := session(t, w)
	ctx := context.Background()

	require.NoError(t, s.Start(0))
	_, err := s.Move(ctx, 5)
	require.NoError(t, err)
	_, err = s.Commit()
	require.NoError(t, err)
	_, err = s.Move(ctx, 15)
	require.NoError(t, err)

	require.NoError(t, s.Undo())
	_, ok := s.Preview()
	assert.False(t, ok)
	_, err = s.Commit()
	assert.ErrorIs(t, err, livewire.ErrNoPreview)
}

func TestSelect(t *testing.T) {
	w := flat(t, 5, 5, 1)
	s := session(t, w, livewire.WithRadius(1))
	ctx := context.Background()

	assert.Equal(t, pathcost.Livewire, s.Selected())
	require.NoError(t, s.Select(pathcost.Line))
	assert.Equal(t, pathcost.Line, s.Selected())

	require.NoError(t, s.Start(at(t, w, 0, 0)))
	_, err := s.Move(ctx, at(t, w, 4, 4))
	require.NoError(t, err)
	seg, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, pathcost.Line, seg.Kind)
	assert.Len(t, seg.Cells, 5)

	only := session(t, w, livewire.WithKinds(pathcost.Livewire))
	assert.ErrorIs(t, only.Select(pathcost.Riverbed), livewire.ErrNoTracer)
	assert.ErrorIs(t, only.SetExponent(2), livewire.ErrNoTracer)
}

func TestSetExponent(t *testing.T) {
	w, err := lattice.FromGrid2D([][]int{
		{20, 20, 200, 20, 20},
		{0, 255, 255, 255, 20},
		{110, 110, 110, 110, 110},
	})
	require.NoError(t, err)
	s := session(t, w, livewire.WithRadius(1))
	ctx := context.Background()
	require.NoError(t, s.Start(at(t, w, 0, 1)))
	spike, valley := at(t, w, 2, 0), at(t, w, 2, 2)

	// At 1.5 the spike costs less than five moderate cells.
	p, err := s.Move(ctx, at(t, w, 4, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 5*6+177, p.Segments[pathcost.Hybrid].Cost)
	assert.Contains(t, p.Path(pathcost.Hybrid), spike)

	assert.ErrorIs(t, s.SetExponent(0), pathcost.ErrBadExponent)
	require.NoError(t, s.SetExponent(4))

	p, err = s.Move(ctx, at(t, w, 4, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 5*9, p.Segments[pathcost.Hybrid].Cost)
	assert.Contains(t, p.Path(pathcost.Hybrid), valley)
	assert.EqualValues(t, 300, p.Segments[pathcost.Livewire].Cost)
}

func TestThrottle(t *testing.T) {
	w := flat(t, 4, 4, 1)
	s, err := livewire.NewSession(nil, w, livewire.WithThrottle(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Start(0))
	ctx := context.Background()

	_, err = s.Move(ctx, 5)
	require.NoError(t, err)
	_, err = s.Move(ctx, 10)
	assert.ErrorIs(t, err, livewire.ErrThrottled)

	p, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, 5, p.Cursor)
}

func TestMoveCanceled(t *testing.T) {
	w := flat(t, 4, 4, 1)
	s := session(t, w)
	require.NoError(t, s.Start(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Move(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := s.Preview()
	assert.False(t, ok)

	_, err = s.Close(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
adjacency:
  radius: 1
strategy: line
strategies: [livewire, line]
throttle: 0s
workers: 1
`))
	require.NoError(t, err)

	w := flat(t, 5, 5, 1)
	s, err := livewire.NewSession(nil, w, livewire.WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, pathcost.Line, s.Selected())
	assert.Equal(t, 4, s.Offsets().Len())

	require.NoError(t, s.Start(at(t, w, 0, 0)))
	p, err := s.Move(context.Background(), at(t, w, 4, 4))
	require.NoError(t, err)
	assert.Len(t, p.Segments, 2)
	assert.Contains(t, p.Segments, pathcost.Livewire)
	assert.Contains(t, p.Segments, pathcost.Line)
	assert.ErrorIs(t, s.Select(pathcost.Hybrid), livewire.ErrNoTracer)
}

func TestSessionLogs(t *testing.T) {
	var buf bytes.Buffer
	w := flat(t, 4, 4, 1)
	s := session(t, w, livewire.WithLogger(zerolog.New(&buf)))

	require.NoError(t, s.Start(0))
	_, err := s.Move(context.Background(), 15)
	require.NoError(t, err)
	_, err = s.Commit()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"livewire"`)
	assert.Contains(t, out, "segment committed")
}

func TestConcurrentMoves(t *testing.T) {
	w := flat(t, 16, 16, 1)
	s := session(t, w)
	require.NoError(t, s.Start(0))

	var (
		mu      sync.Mutex
		newest  uint64
		results int
		wg      sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 20; i++ {
				p, err := s.Move(context.Background(), rng.Intn(w.Len()))
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				results++
				if !p.Stale && p.Generation > newest {
					newest = p.Generation
				}
				mu.Unlock()
			}
		}(int64(g))
	}
	wg.Wait()

	assert.Equal(t, 160, results)
	p, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, newest, p.Generation)
	assert.False(t, p.Stale)
}

func TestSteepHybridExponent(t *testing.T) {
	cfg, err := config.Parse([]byte(`
adjacency:
  radius: 1
hybrid:
  exponent: 4
throttle: 0s
`))
	require.NoError(t, err)

	w, err := lattice.FromGrid2D([][]int{
		{20, 20, 200, 20, 20},
		{0, 255, 255, 255, 20},
		{110, 110, 110, 110, 110},
	})
	require.NoError(t, err)
	s, err := livewire.NewSession(nil, w, livewire.WithConfig(cfg))
	require.NoError(t, err)

	require.NoError(t, s.Start(at(t, w, 0, 1)))
	p, err := s.Move(context.Background(), at(t, w, 4, 1))
	require.NoError(t, err)
	require.Empty(t, p.Errors)

	hybrid, ok := p.Segments[pathcost.Hybrid]
	require.True(t, ok)
	assert.EqualValues(t, 45, hybrid.Cost)
	assert.Contains(t, hybrid.Cells, at(t, w, 2, 2), "the steep hybrid follows the uniform corridor")
	assert.Contains(t, p.Path(pathcost.Livewire), at(t, w, 2, 0), "the additive cost takes the spike")
}

func TestNewSessionRejectsHandicapShape(t *testing.T) {
	w := flat(t, 4, 4, 1)
	_, err := livewire.NewSession(nil, w, livewire.WithHandicap(flat(t, 3, 3, 1)))
	assert.ErrorIs(t, err, ift.ErrInvalidDimension)

	_, err = livewire.NewSession(nil, w, livewire.WithHandicap(flat(t, 4, 4, 1)))
	assert.NoError(t, err)
}

func TestPreviewIsACopy(t *testing.T) {
	w := flat(t, 5, 5, 1)
	s := session(t, w, livewire.WithRadius(1))
	require.NoError(t, s.Start(at(t, w, 0, 0)))

	p, err := s.Move(context.Background(), at(t, w, 4, 0))
	require.NoError(t, err)
	want := p.Path(pathcost.Livewire)

	p.Segments[pathcost.Livewire].Cells[1] = 24
	delete(p.Segments, pathcost.Line)
	kept, ok := s.Preview()
	require.True(t, ok)
	kept.Segments[pathcost.Livewire].Cells[2] = 24
	kept.Path(pathcost.Livewire)[3] = 24

	again, _ := s.Preview()
	assert.Equal(t, want, again.Path(pathcost.Livewire))
	assert.Contains(t, again.Segments, pathcost.Line)

	seg, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, want, seg.Cells)
	assert.Equal(t, want, s.Boundary())
}
