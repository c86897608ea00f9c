package lattice_test

import (
	"fmt"

	"github.com/katalvlaran/livetrace/lattice"
)

// ExampleFromGrid2D shows the flat-index layout of a small image.
func ExampleFromGrid2D() {
	l, _ := lattice.FromGrid2D([][]int{
		{10, 20, 30},
		{40, 50, 60},
	})

	idx, _ := l.Index(1, 1)
	fmt.Println("shape:", l.Shape())
	fmt.Println("index of (1,1):", idx, "value:", l.At(idx))
	fmt.Println("coordinate of 2:", l.Coordinate(2))
	// Output:
	// shape: [3 2]
	// index of (1,1): 4 value: 50
	// coordinate of 2: [2 0]
}
