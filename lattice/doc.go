// Package lattice provides the N-dimensional scalar grid that the tracing
// engine reads from: raw intensities and the edge-weight field derived from them.
//
// What:
//
//   - Lattice wraps a row-major []int64 with an immutable shape and strides.
//   - Cells are addressed either by a flat index or by coordinates (x, y[, z, ...]);
//     axis 0 is the fastest-varying one, so a 2D grid is indexed as y*W + x.
//   - Offset steps from a cell by a coordinate delta with bounds checking, which is
//     what every neighbor traversal in the engine is built on.
//
// Why:
//
//   - 2D images and 3D volumes share one code path.
//   - Flat indices keep cost/predecessor maps as plain slices.
//
// Complexity:
//
//   - Index, Coordinate, InBounds, Offset: O(N) for N dimensions.
//   - Constructors: O(cells) time and memory (input is deep-copied).
//
// Errors:
//
//   - ErrEmptyLattice: no cells, or a zero-length axis.
//   - ErrNonRectangular: nested input slices of differing lengths.
//   - ErrDataLength: len(data) does not equal the product of the shape.
//   - ErrInvalidDimension: zero dimensions, or coordinate count mismatch.
//   - ErrOutOfBounds: a coordinate or index outside the lattice.
//
// A Lattice is never mutated after construction and is safe for concurrent readers.
package lattice
