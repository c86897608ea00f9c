package bucketqueue

import "errors"

// Sentinel errors returned by Queue operations.
var (
	// ErrQueueEmpty indicates there is no pending element left.
	ErrQueueEmpty = errors.New("bucketqueue: queue is empty")
	// ErrNegativeCost indicates a negative priority.
	ErrNegativeCost = errors.New("bucketqueue: cost must be non-negative")
	// ErrElementRange indicates an element outside the queue's universe.
	ErrElementRange = errors.New("bucketqueue: element out of range")
	// ErrCostRange indicates the spread of pending costs exceeds the bucket limit.
	ErrCostRange = errors.New("bucketqueue: cost spread exceeds bucket limit")
)

// Policy selects the tie-break among elements of equal cost.
type Policy int

const (
	// FIFO pops the earliest inserted element of the minimum bucket.
	FIFO Policy = iota
	// LIFO pops the latest inserted element of the minimum bucket.
	LIFO
)

// String returns "fifo" or "lifo".
func (p Policy) String() string {
	if p == LIFO {
		return "lifo"
	}
	return "fifo"
}

// State is the lifecycle of an element within one queue.
type State uint8

const (
	// White elements have never been inserted (or were removed).
	White State = iota
	// Gray elements are pending in a bucket.
	Gray
	// Black elements have been popped.
	Black
)

const (
	// DefaultBuckets is the initial bucket count.
	DefaultBuckets = 256
	// DefaultMaxBuckets caps growth of the bucket array.
	DefaultMaxBuckets = 1 << 24

	nilElem = -1
)

// Options configures a Queue.
type Options struct {
	Policy     Policy // tie-break within a bucket
	Buckets    int    // initial bucket count, rounded up to a power of two
	MaxBuckets int    // growth limit
}

// Option is a functional option for New.
type Option func(*Options)

// WithPolicy sets the tie-break policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithBuckets sets the initial number of buckets. Values < 1 are ignored.
func WithBuckets(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.Buckets = n
		}
	}
}

// WithMaxBuckets limits how far the bucket array may grow. Values < 1 are ignored.
func WithMaxBuckets(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.MaxBuckets = n
		}
	}
}

// DefaultOptions returns FIFO with DefaultBuckets and DefaultMaxBuckets.
func DefaultOptions() Options {
	return Options{
		Policy:     FIFO,
		Buckets:    DefaultBuckets,
		MaxBuckets: DefaultMaxBuckets,
	}
}
