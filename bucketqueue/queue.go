package bucketqueue

import "fmt"

// Queue is a circular bucket queue over elements 0..n-1.
type Queue struct {
	policy     Policy
	maxBuckets int
	mask       int64

	first, last []int // per bucket: head and tail element, nilElem if empty
	next, prev  []int // per element links within its bucket
	cost        []int64
	state       []State

	minimum int64 // cursor: no pending element costs less
	maximum int64 // upper bound on every pending cost
	size    int
}

// New creates a queue for elements in [0, elements).
func New(elements int, opts ...Option) *Queue {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if elements < 0 {
		elements = 0
	}
	nb := ceilPow2(cfg.Buckets)
	if cfg.MaxBuckets < nb {
		cfg.MaxBuckets = nb
	}

	q := &Queue{
		policy:     cfg.Policy,
		maxBuckets: cfg.MaxBuckets,
		next:       make([]int, elements),
		prev:       make([]int, elements),
		cost:       make([]int64, elements),
		state:      make([]State, elements),
	}
	q.resetBuckets(nb)
	for i := range q.next {
		q.next[i], q.prev[i] = nilElem, nilElem
	}

	return q
}

func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (q *Queue) resetBuckets(nb int) {
	q.first = make([]int, nb)
	q.last = make([]int, nb)
	for i := range q.first {
		q.first[i], q.last[i] = nilElem, nilElem
	}
	q.mask = int64(nb - 1)
}

// Len returns the number of pending elements.
func (q *Queue) Len() int { return q.size }

// Empty reports whether no element is pending.
func (q *Queue) Empty() bool { return q.size == 0 }

// Buckets returns the current bucket count.
func (q *Queue) Buckets() int { return len(q.first) }

// Policy returns the tie-break policy.
func (q *Queue) Policy() Policy { return q.policy }

// State returns the lifecycle state of elem.
func (q *Queue) State(elem int) State { return q.state[elem] }

// Cost returns the last cost elem was inserted with.
func (q *Queue) Cost(elem int) int64 { return q.cost[elem] }

// Insert adds elem with the given cost. Inserting a pending element moves it,
// exactly like DecreaseKey. Popped elements may be inserted again.
func (q *Queue) Insert(elem int, cost int64) error {
	if elem < 0 || elem >= len(q.state) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrElementRange, elem, len(q.state))
	}
	if cost < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCost, cost)
	}
	if q.state[elem] == Gray {
		q.unlink(elem)
	}

	lo, hi := cost, cost
	if q.size > 0 {
		lo, hi = min(q.minimum, cost), max(q.maximum, cost)
	}
	if hi-lo >= int64(len(q.first)) {
		if err := q.grow(hi - lo + 1); err != nil {
			if q.state[elem] == Gray {
				// restore the element we unlinked above
				q.link(elem)
			}
			return err
		}
	}
	q.minimum, q.maximum = lo, hi

	q.cost[elem] = cost
	q.link(elem)

	return nil
}

// DecreaseKey moves elem to the bucket of cost. A non-pending element is
// inserted.
func (q *Queue) DecreaseKey(elem int, cost int64) error {
	return q.Insert(elem, cost)
}

// Remove drops a pending element without popping it; it becomes White.
// Removing a non-pending element is a no-op.
func (q *Queue) Remove(elem int) {
	if elem < 0 || elem >= len(q.state) || q.state[elem] != Gray {
		return
	}
	q.unlink(elem)
	q.state[elem] = White
}

// PopMin removes and returns a minimum-cost element: the oldest of its bucket
// under FIFO, the newest under LIFO. Returns ErrQueueEmpty when nothing is pending.
func (q *Queue) PopMin() (int, error) {
	if q.size == 0 {
		return nilElem, ErrQueueEmpty
	}
	b := q.minimum & q.mask
	for q.first[b] == nilElem {
		q.minimum++
		b = q.minimum & q.mask
	}

	elem := q.first[b]
	if q.policy == LIFO {
		elem = q.last[b]
	}
	q.unlink(elem)
	q.state[elem] = Black

	return elem, nil
}

// Reset empties the queue and marks every element White, keeping the current
// bucket capacity.
func (q *Queue) Reset() {
	for i := range q.first {
		q.first[i], q.last[i] = nilElem, nilElem
	}
	for i := range q.state {
		q.state[i] = White
		q.next[i], q.prev[i] = nilElem, nilElem
	}
	q.size, q.minimum, q.maximum = 0, 0, 0
}

// link appends elem to the tail of its cost bucket and marks it Gray.
func (q *Queue) link(elem int) {
	b := q.cost[elem] & q.mask
	q.next[elem] = nilElem
	q.prev[elem] = q.last[b]
	if q.last[b] == nilElem {
		q.first[b] = elem
	} else {
		q.next[q.last[b]] = elem
	}
	q.last[b] = elem
	q.state[elem] = Gray
	q.size++
}

// unlink detaches a pending elem from its bucket.
func (q *Queue) unlink(elem int) {
	b := q.cost[elem] & q.mask
	p, n := q.prev[elem], q.next[elem]
	if p == nilElem {
		q.first[b] = n
	} else {
		q.next[p] = n
	}
	if n == nilElem {
		q.last[b] = p
	} else {
		q.prev[n] = p
	}
	q.next[elem], q.prev[elem] = nilElem, nilElem
	q.size--
	if q.size == 0 {
		q.maximum = q.minimum
	}
}

// grow doubles the bucket array until span costs fit and re-buckets every
// pending element in cost order, preserving order within a bucket.
func (q *Queue) grow(span int64) error {
	nb := len(q.first)
	for int64(nb) < span {
		nb <<= 1
		if nb > q.maxBuckets {
			return fmt.Errorf("%w: spread %d > %d buckets", ErrCostRange, span, q.maxBuckets)
		}
	}

	pending := make([]int, 0, q.size)
	for c := q.minimum; c <= q.maximum && len(pending) < q.size; c++ {
		for e := q.first[c&q.mask]; e != nilElem; e = q.next[e] {
			pending = append(pending, e)
		}
	}

	q.resetBuckets(nb)
	q.size = 0
	for _, e := range pending {
		q.link(e)
	}

	return nil
}
