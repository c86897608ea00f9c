package livewire_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/livewire"
	"github.com/katalvlaran/livetrace/pathcost"
)

// ExampleSession follows a low-weight valley from one anchor to the cursor and
// commits it.
func ExampleSession() {
	w, _ := lattice.FromGrid2D([][]int{
		{1, 1, 1, 9},
		{9, 9, 1, 9},
		{9, 9, 1, 1},
	})
	s, err := livewire.NewSession(nil, w,
		livewire.WithRadius(1),
		livewire.WithKinds(pathcost.Livewire, pathcost.Line),
		livewire.WithThrottle(0),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	start, _ := w.Index(0, 0)
	end, _ := w.Index(3, 2)
	_ = s.Start(start)
	p, _ := s.Move(context.Background(), end)
	fmt.Println("livewire cost:", p.Segments[pathcost.Livewire].Cost)
	fmt.Println("line cost:", p.Segments[pathcost.Line].Cost)

	seg, _ := s.Commit()
	for _, idx := range seg.Cells {
		fmt.Print(w.Coordinate(idx), " ")
	}
	fmt.Println()
	// Output:
	// livewire cost: 5
	// line cost: 11
	// [0 0] [1 0] [2 0] [2 1] [2 2] [3 2]
}
