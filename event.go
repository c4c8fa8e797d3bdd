package itc

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Counter is the integer type backing an Event tree's base counters. The
// teacher's key.go sketches this same ordering constraint inline (as keyT)
// specifically to avoid depending on golang.org/x/exp/constraints; this
// package needs real arithmetic (+, -), not just ordering, so it imports
// the constraint directly instead of re-deriving it.
type Counter interface {
	constraints.Integer
}

// EventTree is an immutable value representing a piecewise-constant
// function over [0,1): the count at a position is base plus whatever the
// subtree covering that half contributes. A nil *EventTree is the unique
// "absent" marker for an empty subtree (E2); it is distinct from a
// present-but-zero EventTree, which NewEvent refuses to construct.
type EventTree[C Counter] struct {
	base C
	topL *EventTree[C]
	topR *EventTree[C]
}

// Events is the counter instantiation Stamp uses.
type Events = EventTree[uint64]

// NewEvent constructs an Event from parts, enforcing E1 (base >= 0, which
// for an unsigned Counter holds unconditionally) and E2 (a present top may
// not itself reduce to the empty event). Like NewIDNode, this is the entry
// point for a host reconstructing an Event from parts; the algebra's own
// operations use the unchecked internal constructor.
func NewEvent[C Counter](base C, topL, topR *EventTree[C]) (*EventTree[C], error) {
	if base < 0 {
		return nil, fmt.Errorf("itc: %w: negative base", ErrInvariantViolation)
	}
	if topL != nil && isZeroEvent(topL) {
		return nil, fmt.Errorf("itc: %w: present-but-empty left top", ErrInvariantViolation)
	}
	if topR != nil && isZeroEvent(topR) {
		return nil, fmt.Errorf("itc: %w: present-but-empty right top", ErrInvariantViolation)
	}
	return &EventTree[C]{base: base, topL: topL, topR: topR}, nil
}

// newEvent builds an Event without validation. Every internal call site has
// already established the shape is valid by construction.
func newEvent[C Counter](base C, topL, topR *EventTree[C]) *EventTree[C] {
	return &EventTree[C]{base: base, topL: topL, topR: topR}
}

func zeroEvent[C Counter]() *EventTree[C] {
	return &EventTree[C]{}
}

func isZeroEvent[C Counter](e *EventTree[C]) bool {
	return e != nil && e.base == 0 && e.topL == nil && e.topR == nil
}

func topOrZero[C Counter](top *EventTree[C]) *EventTree[C] {
	if top == nil {
		return zeroEvent[C]()
	}
	return top
}

// SeedEvent returns the empty event, (0, absent, absent).
func SeedEvent[C Counter]() *EventTree[C] {
	return zeroEvent[C]()
}

// Height returns the maximum value of the function e represents.
func Height[C Counter](e *EventTree[C]) C {
	if e.topL == nil && e.topR == nil {
		return e.base
	}
	left := Height(topOrZero(e.topL))
	right := Height(topOrZero(e.topR))
	if right > left {
		left = right
	}
	return e.base + left
}

const complexityOverhead = 1

// Complexity is the node-count tie-breaker Grow minimizes alongside Height.
// Only its monotonicity matters: strictly larger when a subtree is
// introduced, constant on a leaf.
func Complexity[C Counter](e *EventTree[C]) int {
	if e.topL == nil && e.topR == nil {
		return 1
	}
	k := 2
	if e.topL != nil && e.topR != nil {
		k = 1
	}
	total := complexityOverhead + k
	if e.topL != nil {
		total += Complexity(e.topL)
	}
	if e.topR != nil {
		total += Complexity(e.topR)
	}
	return total
}

// NormalizeEvent reduces e to canonical form (E3): present tops are
// normalized recursively, and if both tops are present their common base
// excess is lifted into the parent.
func NormalizeEvent[C Counter](e *EventTree[C]) *EventTree[C] {
	var topL, topR *EventTree[C]
	if e.topL != nil {
		topL = NormalizeEvent(e.topL)
	}
	if e.topR != nil {
		topR = NormalizeEvent(e.topR)
	}

	switch {
	case topL == nil && topR == nil:
		return newEvent(e.base, nil, nil)

	case topL == nil || topR == nil:
		return newEvent(e.base, topL, topR)

	default:
		d := topL.base
		if topR.base < d {
			d = topR.base
		}
		newTopL := lowerBase(topL, d)
		newTopR := lowerBase(topR, d)
		if isZeroEvent(newTopL) {
			newTopL = nil
		}
		if isZeroEvent(newTopR) {
			newTopR = nil
		}
		return newEvent(e.base+d, newTopL, newTopR)
	}
}

func lowerBase[C Counter](e *EventTree[C], d C) *EventTree[C] {
	return newEvent(e.base-d, e.topL, e.topR)
}

// Fill raises the event count wherever id indicates exclusive ownership: no
// other participant can observe there, so the count may be safely raised to
// the local maximum. Used to cheaply shrink the tree before a Grow step.
func Fill[C Counter](e *EventTree[C], id *ID) *EventTree[C] {
	if id.leaf {
		if id.full {
			return newEvent(Height(e), nil, nil)
		}
		return e
	}
	newTopL := Fill(topOrZero(e.topL), id.left)
	newTopR := Fill(topOrZero(e.topR), id.right)
	if isZeroEvent(newTopL) {
		newTopL = nil
	}
	if isZeroEvent(newTopR) {
		newTopR = nil
	}
	return NormalizeEvent(newEvent(e.base, newTopL, newTopR))
}

// Grow increments the event tree at the positions covered by id by amount,
// choosing the candidate that minimizes (Complexity, Height) lexically.
// This is the uncached, pure entry point; growWithCache threads an optional
// caller-owned *GrowCache through the same search to amortize repeated
// calls over structurally equal subtrees, and callers reach it through
// (*Stamp).EventWithCache.
func Grow[C Counter](e *EventTree[C], id *ID, amount C) *EventTree[C] {
	return growWithCache(e, id, amount, nil)
}

func growWithCache[C Counter](e *EventTree[C], id *ID, amount C, cache *GrowCache[C]) *EventTree[C] {
	if cache != nil {
		key := growKey(e, id, amount)
		if cached, ok := cache.cache.get(key); ok {
			return cached
		}
		result := growCompute(e, id, amount, cache)
		cache.cache.set(key, result)
		return result
	}
	return growCompute(e, id, amount, cache)
}

func growCompute[C Counter](e *EventTree[C], id *ID, amount C, cache *GrowCache[C]) *EventTree[C] {
	if id.leaf {
		if !id.full {
			return e
		}
		// Generalizes the spec's bare-leaf case to a structured e: under
		// exclusive ownership the smallest valid growth always collapses
		// to a single leaf at the new maximum, the same reduction Fill
		// performs for the same reason.
		return newEvent(Height(e)+amount, nil, nil)
	}

	leftTruthy := Truthy(id.left)
	rightTruthy := Truthy(id.right)

	switch {
	case leftTruthy && rightTruthy:
		return growBranch(e, id, amount, cache)

	case leftTruthy:
		newTopL := growWithCache(topOrZero(e.topL), id.left, amount, cache)
		return NormalizeEvent(newEvent(e.base, newTopL, e.topR))

	case rightTruthy:
		newTopR := growWithCache(topOrZero(e.topR), id.right, amount, cache)
		return NormalizeEvent(newEvent(e.base, e.topL, newTopR))

	default:
		return e
	}
}

// growBranch handles the Node(L, R)-with-both-sides-owned case: grow the
// left only, the right only, or both, and keep the lexically smallest
// (Complexity, Height) candidate, defaulting to "both" on a tie.
func growBranch[C Counter](e *EventTree[C], id *ID, amount C, cache *GrowCache[C]) *EventTree[C] {
	leftOnly := NormalizeEvent(newEvent(e.base, growWithCache(topOrZero(e.topL), id.left, amount, cache), e.topR))
	rightOnly := NormalizeEvent(newEvent(e.base, e.topL, growWithCache(topOrZero(e.topR), id.right, amount, cache)))
	both := NormalizeEvent(newEvent(e.base,
		growWithCache(topOrZero(e.topL), id.left, amount, cache),
		growWithCache(topOrZero(e.topR), id.right, amount, cache)))

	best := both
	bestC, bestH := Complexity(best), Height(best)
	for _, candidate := range [2]*EventTree[C]{leftOnly, rightOnly} {
		c, h := Complexity(candidate), Height(candidate)
		if c < bestC || (c == bestC && h < bestH) {
			best, bestC, bestH = candidate, c, h
		}
	}
	return best
}

// Truncate lowers e's base by d, clamped at zero; any deficit that would
// carry the base below zero is pushed into present children recursively.
func Truncate[C Counter](e *EventTree[C], d C) *EventTree[C] {
	if e.base >= d {
		return NormalizeEvent(newEvent(e.base-d, e.topL, e.topR))
	}
	deficit := d - e.base
	return NormalizeEvent(newEvent(0, truncateOrAbsent(e.topL, deficit), truncateOrAbsent(e.topR, deficit)))
}

// truncateOrAbsent truncates a present top and collapses it back to the
// absent marker if the result is exactly zero, preserving E2 (a present top
// is never reducible to the empty event).
func truncateOrAbsent[C Counter](top *EventTree[C], deficit C) *EventTree[C] {
	if top == nil {
		return nil
	}
	truncated := Truncate(top, deficit)
	if isZeroEvent(truncated) {
		return nil
	}
	return truncated
}

// JoinEvent computes the pointwise maximum of the two functions a and b
// represent.
func JoinEvent[C Counter](a, b *EventTree[C]) *EventTree[C] {
	if isZeroEvent(a) {
		return b
	}
	if isZeroEvent(b) {
		return a
	}
	if a.base < b.base {
		a, b = b, a
	}
	d := a.base - b.base

	joinSide := func(at, bt *EventTree[C]) *EventTree[C] {
		switch {
		case at != nil && bt != nil:
			return JoinEvent(at, Truncate(bt, d))
		case at != nil:
			return at
		case bt != nil:
			return truncateOrAbsent(bt, d)
		default:
			return nil
		}
	}

	return NormalizeEvent(newEvent(a.base, joinSide(a.topL, b.topL), joinSide(a.topR, b.topR)))
}

// compare reports whether a's function, shifted up by diff, is pointwise
// <= b's function when b is in canonical form. Leq is compare on the
// normalized a and b with diff 0. diff is always >= 0 once the
// top-level base check passes, so this never has to reconstruct a
// negative-base intermediate Event the way a literal "lift a.top by
// (a.base - b.base)" phrasing would.
func compare[C Counter](a, b *EventTree[C], diff C) bool {
	if a.base > b.base+diff {
		return false
	}
	if a.topL == nil && a.topR == nil && b.topL == nil && b.topR == nil {
		return true
	}
	newDiff := b.base + diff - a.base
	return compare(topOrZero(a.topL), topOrZero(b.topL), newDiff) &&
		compare(topOrZero(a.topR), topOrZero(b.topR), newDiff)
}

// Leq reports whether a's function is pointwise <= b's: the causal-precedes
// relation on Event trees.
func Leq[C Counter](a, b *EventTree[C]) bool {
	return compare(NormalizeEvent(a), NormalizeEvent(b), 0)
}

// EqualEvent reports whether a and b represent the same function once both
// are reduced to canonical form (E4).
func EqualEvent[C Counter](a, b *EventTree[C]) bool {
	return equalNormalized(NormalizeEvent(a), NormalizeEvent(b))
}

func equalNormalized[C Counter](a, b *EventTree[C]) bool {
	if a.base != b.base {
		return false
	}
	if (a.topL == nil) != (b.topL == nil) {
		return false
	}
	if (a.topR == nil) != (b.topR == nil) {
		return false
	}
	if a.topL != nil && !equalNormalized(a.topL, b.topL) {
		return false
	}
	if a.topR != nil && !equalNormalized(a.topR, b.topR) {
		return false
	}
	return true
}

// String renders e as its canonical shorthand: "b", or "(b left right)"
// with "_" standing in for an absent top.
func (e *EventTree[C]) String() string {
	if e.topL == nil && e.topR == nil {
		return fmt.Sprintf("%v", e.base)
	}
	left, right := "_", "_"
	if e.topL != nil {
		left = e.topL.String()
	}
	if e.topR != nil {
		right = e.topR.String()
	}
	return fmt.Sprintf("(%v %s %s)", e.base, left, right)
}
