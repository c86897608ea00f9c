package lattice

import "errors"

// Sentinel errors for lattice construction and addressing.
var (
	// ErrEmptyLattice indicates a lattice with no cells.
	ErrEmptyLattice = errors.New("lattice: lattice must have at least one cell on every axis")
	// ErrNonRectangular indicates nested rows/planes of differing lengths.
	ErrNonRectangular = errors.New("lattice: all rows must have the same length")
	// ErrDataLength indicates the sample slice does not match the shape.
	ErrDataLength = errors.New("lattice: data length does not match shape")
	// ErrInvalidDimension indicates a dimensionality mismatch.
	ErrInvalidDimension = errors.New("lattice: invalid dimension")
	// ErrOutOfBounds indicates a coordinate or flat index outside the lattice.
	ErrOutOfBounds = errors.New("lattice: coordinate out of bounds")
)

// Lattice is an immutable N-dimensional array of int64 samples in row-major
// order (axis 0 varies fastest).
type Lattice struct {
	shape   []int
	strides []int
	data    []int64
}
