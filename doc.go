// Package livetrace is an Image Foresting Transform toolkit for interactive
// boundary tracing on 2D images and 3D volumes.
//
// What is inside
//
//	lattice/     — N-dimensional row-major int64 arrays (weights, images)
//	adjacency/   — spherical neighbor offsets (4/8-connected in 2D, 6/26 in 3D)
//	bucketqueue/ — circular bucket priority queue with FIFO/LIFO tie-breaking
//	pathcost/    — livewire (sum), riverbed (max), hybrid and line strategies
//	ift/         — the forest engine: optimum-path costs and predecessors
//	livewire/    — the interactive session: anchors, previews, commit, close
//	config/      — YAML configuration
//	logging/     — zerolog setup
//	cmd/livetrace — replay a tracing script over a text weight map
//
// Quick start
//
//	w, _ := lattice.FromGrid2D(weights)
//	s, _ := livewire.NewSession(nil, w)
//	_ = s.Start(anchor)
//	p, _ := s.Move(ctx, cursor) // one path per strategy
//	seg, _ := s.Commit()        // cursor becomes the next anchor
//
// Costs are int64 and saturate at pathcost.Infinity. Lattices and offsets are
// read-only once built and shared freely between goroutines; every engine run
// owns its own queue, cost and predecessor maps.
package livetrace
