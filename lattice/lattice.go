package lattice

import "fmt"

// New builds a lattice of the given shape over a copy of data.
// Returns ErrInvalidDimension for an empty shape, ErrEmptyLattice if any axis
// is non-positive and ErrDataLength if len(data) disagrees with the shape.
func New(shape []int, data []int64) (*Lattice, error) {
	if len(shape) == 0 {
		return nil, ErrInvalidDimension
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, ErrEmptyLattice
		}
		n *= s
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d samples, shape %v needs %d", ErrDataLength, len(data), shape, n)
	}

	l := &Lattice{
		shape:   append([]int(nil), shape...),
		strides: make([]int, len(shape)),
		data:    append([]int64(nil), data...),
	}
	stride := 1
	for i, s := range shape {
		l.strides[i] = stride
		stride *= s
	}

	return l, nil
}

// Filled builds a lattice of the given shape with every sample set to v.
func Filled(shape []int, v int64) (*Lattice, error) {
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, ErrEmptyLattice
		}
		n *= s
	}
	data := make([]int64, n)
	for i := range data {
		data[i] = v
	}

	return New(shape, data)
}

// FromGrid2D builds a 2D lattice from rows[y][x]. Shape is [W, H].
func FromGrid2D(rows [][]int) (*Lattice, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyLattice
	}
	h, w := len(rows), len(rows[0])
	data := make([]int64, 0, w*h)
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		for _, v := range row {
			data = append(data, int64(v))
		}
	}

	return New([]int{w, h}, data)
}

// FromVolume builds a 3D lattice from planes[z][y][x]. Shape is [W, H, D].
func FromVolume(planes [][][]int) (*Lattice, error) {
	if len(planes) == 0 || len(planes[0]) == 0 || len(planes[0][0]) == 0 {
		return nil, ErrEmptyLattice
	}
	d, h, w := len(planes), len(planes[0]), len(planes[0][0])
	data := make([]int64, 0, w*h*d)
	for _, plane := range planes {
		if len(plane) != h {
			return nil, ErrNonRectangular
		}
		for _, row := range plane {
			if len(row) != w {
				return nil, ErrNonRectangular
			}
			for _, v := range row {
				data = append(data, int64(v))
			}
		}
	}

	return New([]int{w, h, d}, data)
}

// Dims returns the number of axes.
func (l *Lattice) Dims() int { return len(l.shape) }

// Shape returns a copy of the extent along every axis.
func (l *Lattice) Shape() []int { return append([]int(nil), l.shape...) }

// Len returns the total number of cells.
func (l *Lattice) Len() int { return len(l.data) }

// At returns the sample at flat index idx. It panics if idx is out of range,
// like a slice access.
func (l *Lattice) At(idx int) int64 { return l.data[idx] }

// AtCoord returns the sample at the given coordinates.
func (l *Lattice) AtCoord(coords ...int) (int64, error) {
	idx, err := l.Index(coords...)
	if err != nil {
		return 0, err
	}

	return l.data[idx], nil
}

// Max returns the largest sample in the lattice.
func (l *Lattice) Max() int64 {
	m := l.data[0]
	for _, v := range l.data[1:] {
		if v > m {
			m = v
		}
	}

	return m
}

// SameShape reports whether other has exactly the same extent on every axis.
func (l *Lattice) SameShape(other *Lattice) bool {
	if other == nil || len(other.shape) != len(l.shape) {
		return false
	}
	for i, s := range l.shape {
		if other.shape[i] != s {
			return false
		}
	}

	return true
}

// InBounds reports whether coords addresses a cell of the lattice.
// A coordinate count different from Dims is never in bounds.
func (l *Lattice) InBounds(coords ...int) bool {
	if len(coords) != len(l.shape) {
		return false
	}
	for i, c := range coords {
		if c < 0 || c >= l.shape[i] {
			return false
		}
	}

	return true
}

// Index converts coordinates to a flat index.
func (l *Lattice) Index(coords ...int) (int, error) {
	if len(coords) != len(l.shape) {
		return 0, fmt.Errorf("%w: %d coordinates for a %d-D lattice", ErrInvalidDimension, len(coords), len(l.shape))
	}
	idx := 0
	for i, c := range coords {
		if c < 0 || c >= l.shape[i] {
			return 0, fmt.Errorf("%w: %v in %v", ErrOutOfBounds, coords, l.shape)
		}
		idx += c * l.strides[i]
	}

	return idx, nil
}

// Coordinate converts a flat index back to coordinates.
func (l *Lattice) Coordinate(idx int) []int {
	return l.CoordinateInto(idx, make([]int, len(l.shape)))
}

// CoordinateInto writes the coordinates of idx into dst (len(dst) must be Dims)
// and returns it. It allocates nothing, for use in hot loops.
func (l *Lattice) CoordinateInto(idx int, dst []int) []int {
	for i := len(l.shape) - 1; i >= 0; i-- {
		dst[i] = idx / l.strides[i]
		idx -= dst[i] * l.strides[i]
	}

	return dst
}

// Offset steps from the cell with coordinates at by delta. It returns the flat
// index of the neighbor and false when the neighbor falls outside the lattice.
// at and delta must both have Dims elements.
func (l *Lattice) Offset(at, delta []int) (int, bool) {
	idx := 0
	for i, c := range at {
		c += delta[i]
		if c < 0 || c >= l.shape[i] {
			return 0, false
		}
		idx += c * l.strides[i]
	}

	return idx, true
}

// Contains reports whether idx is a valid flat index.
func (l *Lattice) Contains(idx int) bool { return idx >= 0 && idx < len(l.data) }
