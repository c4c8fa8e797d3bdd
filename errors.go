package itc

import "errors"

// Fork errors
var (
	// ErrEmptyFork indicates an attempt to fork an ID that owns no share of
	// the interval. An empty share cannot be split further.
	ErrEmptyFork = errors.New("itc: cannot fork an empty id")
)

// Event errors
var (
	// ErrAnonymousEvent indicates an attempt to record an event on a stamp
	// whose id is empty. A participant with no owned share cannot emit.
	ErrAnonymousEvent = errors.New("itc: cannot record an event on an anonymous stamp")
)

// Invariant errors
var (
	// ErrInvariantViolation indicates a value was constructed in a shape the
	// algebra forbids: a wholly-empty id node, or an event with a
	// present-but-empty top. Constructors wrap this sentinel with
	// fmt.Errorf so errors.Is(err, ErrInvariantViolation) still matches
	// while the message carries the offending shape.
	ErrInvariantViolation = errors.New("itc: invariant violation")
)
