package pathcost

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Infinity is the cost of unreached and excluded cells.
const Infinity int64 = math.MaxInt64

// Sentinel errors.
var (
	// ErrBadExponent indicates a non-positive or non-finite hybrid exponent.
	ErrBadExponent = errors.New("pathcost: exponent must be positive and finite")
	// ErrUnknownKind indicates an unsupported strategy name or value.
	ErrUnknownKind = errors.New("pathcost: unknown strategy kind")
)

// Function is the per-edge cost rule injected into the forest engine.
type Function interface {
	// Kind identifies the strategy.
	Kind() Kind
	// Relax returns the candidate cost of reaching a neighbor with the given
	// weight and handicap from a predecessor settled at pred.
	Relax(pred, weight, handicap int64) int64
	// Improves reports whether candidate should replace current.
	Improves(candidate, current int64) bool
}

// Kind enumerates the tracing strategies.
type Kind int

const (
	// Livewire is the additive strategy.
	Livewire Kind = iota
	// Riverbed is the bottleneck (max-arc) strategy.
	Riverbed
	// Hybrid is the exponent-weighted additive strategy.
	Hybrid
	// Line is the straight-line baseline.
	Line
)

// Kinds lists every strategy in display order.
var Kinds = []Kind{Livewire, Riverbed, Hybrid, Line}

var kindNames = [...]string{"livewire", "riverbed", "hybrid", "line"}

// String returns the lower-case strategy name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a strategy name back to a Kind. Matching is case-insensitive;
// "sum", "max" and "maxsum" are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "livewire", "sum":
		return Livewire, nil
	case "riverbed", "max":
		return Riverbed, nil
	case "hybrid", "maxsum":
		return Hybrid, nil
	case "line":
		return Line, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Less is the default improvement rule: strictly smaller wins, so the first
// predecessor to reach a cost keeps it.
func Less(candidate, current int64) bool { return candidate < current }

// New builds the Function for kind. exponent and maxWeight are used by Hybrid
// only; see NewMaxSum.
func New(kind Kind, exponent float64, maxWeight int64) (Function, error) {
	switch kind {
	case Livewire:
		return Sum{}, nil
	case Riverbed:
		return Max{}, nil
	case Hybrid:
		return NewMaxSum(exponent, maxWeight)
	case Line:
		return StraightLine{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
}
