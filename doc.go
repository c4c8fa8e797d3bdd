// Package itc implements Interval Tree Clocks: a causality-tracking
// mechanism for systems where the set of participants changes over time.
//
// An ITC value is a Stamp, the pair of an ID (the share of the [0,1)
// identifier interval a participant is authorized to stamp) and an Event
// tree (the causal history it has observed). Participants fork an ID to
// mint new participants and retire by joining their share back into a
// peer; no global coordination or fixed participant set is required.
//
// Every value in this package is immutable. Every operation returns a
// freshly constructed value; nothing is ever mutated in place, and there is
// no shared state beyond the process-wide leaf singletons used for
// structural sharing. The package does no I/O, has no notion of wall-clock
// time, and defines no wire format — serialization, transport, and message
// envelopes are left to the host.
package itc
