package livewire

import (
	"context"
	"testing"

	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateTracer blocks traces towards slow until release is closed.
type gateTracer struct {
	slow    int
	started chan struct{}
	release chan struct{}
}

func (g *gateTracer) Kind() pathcost.Kind { return pathcost.Livewire }

func (g *gateTracer) Trace(anchor, target int, _ []int) (Segment, error) {
	if target == g.slow {
		close(g.started)
		<-g.release
	}
	return Segment{Kind: pathcost.Livewire, Anchor: anchor, Target: target, Cells: []int{anchor, target}}, nil
}

func TestLastWriterWins(t *testing.T) {
	w, err := lattice.Filled([]int{4, 4}, 1)
	require.NoError(t, err)
	s, err := NewSession(nil, w, WithKinds(pathcost.Livewire), WithThrottle(0))
	require.NoError(t, err)

	gate := &gateTracer{slow: 3, started: make(chan struct{}), release: make(chan struct{})}
	s.tracers = map[pathcost.Kind]Tracer{pathcost.Livewire: gate}
	require.NoError(t, s.Start(0))

	slow := make(chan Preview, 1)
	go func() {
		p, err := s.Move(context.Background(), 3)
		assert.NoError(t, err)
		slow <- p
	}()
	<-gate.started

	fast, err := s.Move(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, fast.Stale)
	assert.EqualValues(t, 2, fast.Generation)

	close(gate.release)
	old := <-slow
	assert.True(t, old.Stale)
	assert.EqualValues(t, 1, old.Generation)

	kept, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, 5, kept.Cursor)

	seg, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, 5, seg.Target)
}

func TestPreviewOutlivedByCommit(t *testing.T) {
	w, err := lattice.Filled([]int{4, 4}, 1)
	require.NoError(t, err)
	s, err := NewSession(nil, w, WithKinds(pathcost.Livewire), WithThrottle(0))
	require.NoError(t, err)

	gate := &gateTracer{slow: 3, started: make(chan struct{}), release: make(chan struct{})}
	s.tracers = map[pathcost.Kind]Tracer{pathcost.Livewire: gate}
	require.NoError(t, s.Start(0))

	slow := make(chan Preview, 1)
	go func() {
		p, err := s.Move(context.Background(), 3)
		assert.NoError(t, err)
		slow <- p
	}()
	<-gate.started

	_, err = s.Move(context.Background(), 5)
	require.NoError(t, err)
	_, err = s.Commit()
	require.NoError(t, err)

	close(gate.release)
	assert.True(t, (<-slow).Stale)
	_, ok := s.Preview()
	assert.False(t, ok)
}

func TestExcludedKeepsAnchors(t *testing.T) {
	s := &Session{
		anchors:  []int{0, 3},
		segments: []Segment{{Cells: []int{0, 1, 2, 3}}},
	}
	assert.Equal(t, []int{0, 1, 2, 3}, s.boundaryLocked())
	assert.Equal(t, []int{0, 1, 2}, s.excludedLocked(false))
	assert.Equal(t, []int{1, 2}, s.excludedLocked(true))

	s = &Session{anchors: []int{7}}
	assert.Empty(t, s.excludedLocked(false))
	assert.Empty(t, s.excludedLocked(true))
}
