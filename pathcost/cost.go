package pathcost

import "math"

// SaturatingAdd returns a+b clamped to [0, Infinity] for non-negative inputs.
// Negative terms are treated as zero.
func SaturatingAdd(a, b int64) int64 {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a > Infinity-b {
		return Infinity
	}
	return a + b
}

// Sum is the additive livewire cost.
type Sum struct{}

// Kind returns Livewire.
func (Sum) Kind() Kind { return Livewire }

// Relax returns pred + weight + handicap, saturating at Infinity.
func (Sum) Relax(pred, weight, handicap int64) int64 {
	return SaturatingAdd(SaturatingAdd(pred, weight), handicap)
}

// Improves is Less.
func (Sum) Improves(candidate, current int64) bool { return Less(candidate, current) }

// Max is the bottleneck riverbed cost.
type Max struct{}

// Kind returns Riverbed.
func (Max) Kind() Kind { return Riverbed }

// Relax returns max(pred, weight). The handicap does not take part.
func (Max) Relax(pred, weight, _ int64) int64 {
	if weight < 0 {
		weight = 0
	}
	return max(pred, weight)
}

// Improves is Less.
func (Max) Improves(candidate, current int64) bool { return Less(candidate, current) }

// lutSize bounds the precomputed weight^exponent table; typical 8-bit and
// 12-bit gradients never fall back to math.Pow.
const lutSize = 1 << 12

// MaxSum is the hybrid cost: weights are raised to Exponent before the
// additive rule. The power is taken on weights normalized by the lattice's
// weight range and scaled back, so transformed weights of [0, maxWeight] stay
// in [0, maxWeight] and the cost spread never exceeds the additive one. It is
// immutable and safe to share between runs.
type MaxSum struct {
	exponent float64
	scale    float64
	lut      []int64
}

// NewMaxSum returns a hybrid cost with the given exponent over weights ranging
// up to maxWeight. A maxWeight below 1 counts as 1, which gives plain
// round(w^exponent).
func NewMaxSum(exponent float64, maxWeight int64) (*MaxSum, error) {
	if !(exponent > 0) || math.IsInf(exponent, 0) {
		return nil, ErrBadExponent
	}
	m := &MaxSum{exponent: exponent, scale: float64(max(maxWeight, 1)), lut: make([]int64, lutSize)}
	for w := range m.lut {
		m.lut[w] = m.pow(int64(w))
	}
	return m, nil
}

// pow returns round(scale * (w/scale)^exponent), saturating at Infinity.
func (m *MaxSum) pow(w int64) int64 {
	f := math.Round(m.scale * math.Pow(float64(w)/m.scale, m.exponent))
	if f >= float64(Infinity) || math.IsInf(f, 1) {
		return Infinity
	}
	return int64(f)
}

// Exponent returns the exponent the weights are raised to.
func (m *MaxSum) Exponent() float64 { return m.exponent }

// MaxWeight returns the weight the transform maps onto itself.
func (m *MaxSum) MaxWeight() int64 { return int64(m.scale) }

// Kind returns Hybrid.
func (m *MaxSum) Kind() Kind { return Hybrid }

// Weight returns the transformed weight, with negative weights treated as zero.
func (m *MaxSum) Weight(w int64) int64 {
	if w <= 0 {
		return 0
	}
	if w < lutSize {
		return m.lut[w]
	}
	return m.pow(w)
}

// Relax returns pred + Weight(weight) + handicap, saturating at Infinity.
func (m *MaxSum) Relax(pred, weight, handicap int64) int64 {
	return SaturatingAdd(SaturatingAdd(pred, m.Weight(weight)), handicap)
}

// Improves is Less.
func (m *MaxSum) Improves(candidate, current int64) bool { return Less(candidate, current) }

// StraightLine is the baseline strategy. It never relaxes an edge; its paths
// are drawn geometrically between the anchors.
type StraightLine struct{}

// Kind returns Line.
func (StraightLine) Kind() Kind { return Line }

// Relax always returns Infinity.
func (StraightLine) Relax(_, _, _ int64) int64 { return Infinity }

// Improves is always false.
func (StraightLine) Improves(_, _ int64) bool { return false }
