package itc

// Stamp is the pair (ID, Event) a participant holds. The four canonical ITC
// operations are exposed as methods on *Stamp rather than package-level
// functions named Fork/Event/Join/Peek, since the package-level names Fork
// and Join already belong to the ID operations.
type Stamp struct {
	id    *ID
	event *Events
}

// Seed returns the initial stamp: full ownership, empty history.
func Seed() *Stamp {
	return &Stamp{id: Leaf1, event: SeedEvent[uint64]()}
}

// NewStamp builds a Stamp from an id and event a host has reconstructed
// independently (e.g. from storage). No validation beyond what NewIDNode
// and NewEvent already performed on their way to id and event is done here.
func NewStamp(id *ID, event *Events) *Stamp {
	return &Stamp{id: id, event: event}
}

// ID returns the stamp's ownership share.
func (s *Stamp) ID() *ID {
	return s.id
}

// EventTree returns the stamp's causal history.
func (s *Stamp) EventTree() *Events {
	return s.event
}

// Fork splits s into two stamps with disjoint ownership shares but
// identical causal history. It fails with ErrEmptyFork if s is anonymous
// (its id is Leaf(0)).
func (s *Stamp) Fork() (*Stamp, *Stamp, error) {
	id1, id2, err := Fork(s.id)
	if err != nil {
		return nil, nil, err
	}
	return &Stamp{id: id1, event: s.event}, &Stamp{id: id2, event: s.event}, nil
}

// Event records a local progress step in s's owned share and returns the
// advanced stamp. It fails with ErrAnonymousEvent if s is anonymous.
func (s *Stamp) Event() (*Stamp, error) {
	if !Truthy(s.id) {
		return nil, ErrAnonymousEvent
	}

	filled := Fill(s.event, s.id)
	if !EqualEvent(filled, s.event) {
		return &Stamp{id: s.id, event: filled}, nil
	}

	grown := Grow(s.event, s.id, uint64(1))
	return &Stamp{id: s.id, event: grown}, nil
}

// EventWithCache behaves like Event but threads cache through the Grow
// fallback path, amortizing repeated calls when fill alone never suffices.
func (s *Stamp) EventWithCache(cache *GrowCache[uint64]) (*Stamp, error) {
	if !Truthy(s.id) {
		return nil, ErrAnonymousEvent
	}

	filled := Fill(s.event, s.id)
	if !EqualEvent(filled, s.event) {
		return &Stamp{id: s.id, event: filled}, nil
	}

	grown := growWithCache(s.event, s.id, uint64(1), cache)
	return &Stamp{id: s.id, event: grown}, nil
}

// Join merges s and t's causal history and their ownership shares,
// returning the combined stamp.
func (s *Stamp) Join(t *Stamp) *Stamp {
	return &Stamp{
		id:    Join(s.id, t.id),
		event: JoinEvent(s.event, t.event),
	}
}

// Peek returns s unchanged alongside an anonymous observer copy that shares
// s's history but owns nothing, suitable for forwarding without delegating
// authority to emit.
func (s *Stamp) Peek() (*Stamp, *Stamp) {
	return s, &Stamp{id: Leaf0, event: s.event}
}

// LeqStamp reports whether a's history precedes or equals b's — the
// causal-precedes relation. A stamp's id plays no part: id is authorization
// to emit, not history.
func LeqStamp(a, b *Stamp) bool {
	return Leq(a.event, b.event)
}

// EqualStamp reports whether a and b are the same stamp: same ownership
// share and same causal history.
func EqualStamp(a, b *Stamp) bool {
	return EqualID(a.id, b.id) && EqualEvent(a.event, b.event)
}

// ConcurrentStamp reports whether neither a nor b's history precedes the
// other.
func ConcurrentStamp(a, b *Stamp) bool {
	return !LeqStamp(a, b) && !LeqStamp(b, a)
}

// String renders the stamp as "(id, event)".
func (s *Stamp) String() string {
	return "(" + s.id.String() + ", " + s.event.String() + ")"
}
