package linkedit

import "github.com/google/uuid"

// Session is one run of the direct-connection editor between a fixed source
// node and a fixed target node. Sessions are values: each operation returns
// the next session and leaves its receiver usable as a snapshot.
type Session struct {
	source   Node
	target   Node
	original []Link
	draft    DraftSet
	gesture  Gesture
	newToken func() string
}

// SessionOption configures OpenSession.
type SessionOption func(*Session)

// WithTokenSource replaces the generator of draft link tokens (uuid by default).
// Tokens that are decimal integers read back as persisted ids through
// ParseLinkID; such ids must be parsed with ParseDraftID.
func WithTokenSource(next func() string) SessionOption {
	return func(s *Session) {
		s.newToken = next
	}
}

// OpenSession seeds a session from the full link list of the graph. Only links
// running from source to target are kept; the list is read once and never re-synchronized.
func OpenSession(source, target Node, links []GraphLink, opts ...SessionOption) Session {
	original := FilterPair(links, source.ID, target.ID)
	s := Session{
		source:   source,
		target:   target,
		original: original,
		draft:    Seed(original),
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Session) Source() Node     { return s.source }
func (s Session) Target() Node     { return s.target }
func (s Session) Gesture() Gesture { return s.gesture }

// Original returns the persisted links the session was seeded with.
func (s Session) Original() []Link {
	out := make([]Link, len(s.original))
	copy(out, s.original)
	return out
}

// Snapshot returns the current draft links.
func (s Session) Snapshot() []Link { return s.draft.Snapshot() }

// BeginDrag starts a drag from port.
func (s Session) BeginDrag(port Port) Session {
	s.gesture = s.gesture.Begin(port)
	return s
}

// CancelDrag abandons a drag in progress without touching the draft set.
func (s Session) CancelDrag() Session {
	s.gesture = Gesture{}
	return s
}

// Drop ends the current drag on hit, or on empty space when hit is nil. The
// session is always idle afterwards. On success the new draft link replaces
// any link already feeding the same input.
func (s Session) Drop(hit *Port) (Session, Outcome) {
	g := s.gesture
	s.gesture = Gesture{}

	src, dst, reason := g.Resolve(hit)
	if reason != ReasonNone {
		return s, Cancelled(reason)
	}
	src, ok := s.ownPort(src)
	if !ok {
		return s, Cancelled(ReasonForeignPort)
	}
	dst, ok = s.ownPort(dst)
	if !ok {
		return s, Cancelled(ReasonForeignPort)
	}
	if !CanConnect(src.Type, dst.Type) {
		return s, Cancelled(ReasonIncompatible)
	}

	l := Link{
		ID:         DraftID(s.newToken()),
		SourceSlot: src.Index,
		TargetSlot: dst.Index,
		Type:       src.Type,
		Origin:     OriginDraft,
	}
	s.draft = s.draft.CommitGestureLink(l)
	return s, Committed(l)
}

// RemoveLink deletes a link from the draft set. Persisted links removed here
// are deleted on commit; draft links simply disappear.
func (s Session) RemoveLink(id LinkID) (Session, bool) {
	d, ok := s.draft.Remove(id)
	s.draft = d
	return s, ok
}

// Commit computes the changes to hand to the persistence layer.
func (s Session) Commit() Changes {
	return Diff(s.original, s.draft.Snapshot(), s.source.ID, s.target.ID)
}

// ownPort maps p onto the port declared by the session node for its side:
// outputs live on the source node, inputs on the target node.
func (s Session) ownPort(p Port) (Port, bool) {
	n := s.target
	if p.Side == SideOutput {
		n = s.source
	}
	if p.NodeID != n.ID {
		return Port{}, false
	}
	return n.Port(p.Side, p.Index)
}
