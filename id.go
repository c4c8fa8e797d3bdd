package itc

import "fmt"

// ID is an immutable value denoting the share of the [0,1) identifier
// interval a participant owns. It is one of two variants, distinguished by
// the leaf field the way Node distinguishes an interior node from a leaf in
// a radix tree: leaf set means this value is Leaf(0) or Leaf(1); leaf unset
// means this is an interior Node(left, right) splitting the interval in
// half.
type ID struct {
	leaf  bool
	full  bool // meaningful only when leaf is true
	left  *ID
	right *ID
}

// Leaf0 and Leaf1 are the two leaf values. Both are interned singletons:
// every Leaf0/Leaf1 anywhere in the program is the same pointer, so
// Truthy, Normalize and equality checks can take pointer-identity shortcuts
// and structural sharing is free.
var (
	Leaf0 = &ID{leaf: true, full: false}
	Leaf1 = &ID{leaf: true, full: true}
)

// Leaf returns the interned leaf value for v.
func Leaf(v bool) *ID {
	if v {
		return Leaf1
	}
	return Leaf0
}

// NewIDNode constructs an interior ID node from two halves, enforcing
// invariant I1 (a node is never wholly empty). It is the entry point for a
// host reconstructing an ID from parts (e.g. after deserializing); the
// algebra's own Fork and Join use the panicking internal constructor since
// they can prove the invariant holds by construction.
func NewIDNode(left, right *ID) (*ID, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("itc: %w: nil id child", ErrInvariantViolation)
	}
	if !Truthy(left) && !Truthy(right) {
		return nil, fmt.Errorf("itc: %w: id node with no ownership on either side", ErrInvariantViolation)
	}
	return &ID{left: left, right: right}, nil
}

// idNode builds an interior node without returning an error. Every call site has
// already established that at least one side is truthy; if that ever stops
// being true it is an implementation bug in this package, not a caller
// error, so it panics the way the teacher's Node.replaceEdge panics on a
// similarly "should never happen" condition.
func idNode(left, right *ID) *ID {
	if !Truthy(left) && !Truthy(right) {
		panic("itc: internal: constructed a wholly-empty id node")
	}
	return &ID{left: left, right: right}
}

// Truthy reports whether id contains at least one Leaf(1) anywhere (I3).
func Truthy(id *ID) bool {
	if id.leaf {
		return id.full
	}
	return Truthy(id.left) || Truthy(id.right)
}

// SeedID returns the full-ownership id, Leaf(1).
func SeedID() *ID {
	return Leaf1
}

// Fork splits id's ownership into two disjoint halves whose Join
// reconstructs id. It fails with ErrEmptyFork if id owns no share.
func Fork(id *ID) (*ID, *ID, error) {
	if id.leaf {
		if !id.full {
			return nil, nil, ErrEmptyFork
		}
		return idNode(Leaf1, Leaf0), idNode(Leaf0, Leaf1), nil
	}

	leftTruthy := Truthy(id.left)
	rightTruthy := Truthy(id.right)

	switch {
	case leftTruthy && rightTruthy:
		return idNode(id.left, Leaf0), idNode(Leaf0, id.right), nil

	case leftTruthy:
		l1, l2, err := Fork(id.left)
		if err != nil {
			return nil, nil, err
		}
		return idNode(l1, Leaf0), idNode(l2, Leaf0), nil

	case rightTruthy:
		r1, r2, err := Fork(id.right)
		if err != nil {
			return nil, nil, err
		}
		return idNode(Leaf0, r1), idNode(Leaf0, r2), nil

	default:
		// Unreachable under I1: a well-formed Node always has a truthy
		// side. Treated as an empty fork rather than a panic since it can
		// only be reached by a caller holding an invariant-violating value.
		return nil, nil, ErrEmptyFork
	}
}

// Join merges two (expected-disjoint) ownership shares into one. Joining
// two overlapping non-empty shares is a caller bug the algebra does not
// detect, matching the original definition.
func Join(a, b *ID) *ID {
	if a.leaf {
		if a.full {
			return Leaf1
		}
		return b
	}
	if b.leaf {
		if b.full {
			return Leaf1
		}
		return a
	}
	return Normalize(idNode(Join(a.left, b.left), Join(a.right, b.right)))
}

// Normalize reduces id to its canonical shape: Node(Leaf0, Leaf0) collapses
// to Leaf0, Node(Leaf1, Leaf1) collapses to Leaf1, otherwise the node is
// kept with normalized children (I2).
func Normalize(id *ID) *ID {
	if id.leaf {
		return id
	}
	left := Normalize(id.left)
	right := Normalize(id.right)
	if left.leaf && right.leaf && left.full == right.full {
		return Leaf(left.full)
	}
	if left == id.left && right == id.right {
		return id
	}
	return &ID{left: left, right: right}
}

// EqualID reports whether two ids denote the same ownership share once both
// are reduced to canonical form.
func EqualID(a, b *ID) bool {
	na, nb := Normalize(a), Normalize(b)
	if na.leaf != nb.leaf {
		return false
	}
	if na.leaf {
		return na.full == nb.full
	}
	return EqualID(na.left, nb.left) && EqualID(na.right, nb.right)
}

// String renders id as its canonical shorthand: "0", "1", or "(left right)".
func (id *ID) String() string {
	if id.leaf {
		if id.full {
			return "1"
		}
		return "0"
	}
	return "(" + id.left.String() + " " + id.right.String() + ")"
}
