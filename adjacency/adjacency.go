package adjacency

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/katalvlaran/livetrace/lattice"
)

// ErrInvalidDimension indicates a non-positive radius or dimension, or offsets
// whose dimensionality disagrees with a lattice.
var ErrInvalidDimension = errors.New("adjacency: invalid radius or dimension")

// normEps absorbs rounding in radius*radius, so that Spherical(math.Sqrt(3), 3)
// still includes the corner offsets.
const normEps = 1e-9

// Offsets is an immutable, ordered set of neighbor deltas.
type Offsets struct {
	dims   int
	radius float64
	deltas []int // len = dims * Len()
}

// Options tunes Spherical.
type Options struct {
	// IncludeZero keeps the all-zero delta (the cell itself) as the first offset.
	IncludeZero bool
}

// Option is a functional option for Spherical.
type Option func(*Options)

// WithZero keeps the zero offset in the set.
func WithZero() Option {
	return func(o *Options) { o.IncludeZero = true }
}

// Spherical returns every integer offset in dims dimensions whose Euclidean
// norm is at most radius. The zero offset is excluded unless WithZero is given.
func Spherical(radius float64, dims int, opts ...Option) (*Offsets, error) {
	if !(radius > 0) || math.IsInf(radius, 0) || dims <= 0 {
		return nil, fmt.Errorf("%w: radius=%g dims=%d", ErrInvalidDimension, radius, dims)
	}
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}

	r := int(math.Floor(radius))
	limit := radius*radius + normEps

	// Enumerate the [-r, r]^dims cube with an odometer.
	var found [][]int
	cur := make([]int, dims)
	for i := range cur {
		cur[i] = -r
	}
	for {
		sq := 0
		for _, c := range cur {
			sq += c * c
		}
		if float64(sq) <= limit && (sq != 0 || cfg.IncludeZero) {
			found = append(found, append([]int(nil), cur...))
		}
		i := 0
		for ; i < dims; i++ {
			cur[i]++
			if cur[i] <= r {
				break
			}
			cur[i] = -r
		}
		if i == dims {
			break
		}
	}

	sort.SliceStable(found, func(a, b int) bool {
		na, nb := squaredNorm(found[a]), squaredNorm(found[b])
		if na != nb {
			return na < nb
		}
		for i := dims - 1; i >= 0; i-- {
			if found[a][i] != found[b][i] {
				return found[a][i] < found[b][i]
			}
		}
		return false
	})

	o := &Offsets{dims: dims, radius: radius, deltas: make([]int, 0, len(found)*dims)}
	for _, d := range found {
		o.deltas = append(o.deltas, d...)
	}

	return o, nil
}

// Conn4 is the 2D orthogonal neighborhood (N, W, E, S).
func Conn4() *Offsets { return must(Spherical(1, 2)) }

// Conn8 is the 2D neighborhood including diagonals.
func Conn8() *Offsets { return must(Spherical(math.Sqrt2, 2)) }

// Conn6 is the 3D face neighborhood.
func Conn6() *Offsets { return must(Spherical(1, 3)) }

// Conn26 is the full 3D neighborhood.
func Conn26() *Offsets { return must(Spherical(math.Sqrt(3), 3)) }

func must(o *Offsets, err error) *Offsets {
	if err != nil {
		panic(err)
	}
	return o
}

func squaredNorm(d []int) int {
	s := 0
	for _, c := range d {
		s += c * c
	}
	return s
}

// Len returns the number of offsets.
func (o *Offsets) Len() int { return len(o.deltas) / o.dims }

// Dims returns the dimensionality of every offset.
func (o *Offsets) Dims() int { return o.dims }

// Radius returns the radius the set was built from.
func (o *Offsets) Radius() float64 { return o.radius }

// At returns a copy of the i-th offset.
func (o *Offsets) At(i int) []int {
	return append([]int(nil), o.Delta(i)...)
}

// Delta returns the i-th offset without copying. Callers must not modify it.
func (o *Offsets) Delta(i int) []int {
	return o.deltas[i*o.dims : (i+1)*o.dims : (i+1)*o.dims]
}

// All iterates the offsets in order. Yielded slices must not be modified.
func (o *Offsets) All() iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		for i := 0; i < o.Len(); i++ {
			if !yield(i, o.Delta(i)) {
				return
			}
		}
	}
}

// Check returns ErrInvalidDimension when l does not have the same number of
// axes as the offsets.
func (o *Offsets) Check(l *lattice.Lattice) error {
	if l == nil || l.Dims() != o.dims {
		got := 0
		if l != nil {
			got = l.Dims()
		}
		return fmt.Errorf("%w: offsets are %d-D, lattice is %d-D", ErrInvalidDimension, o.dims, got)
	}
	return nil
}
