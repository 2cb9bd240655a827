package linkedit

import "fmt"

// Phase is the state of the drag machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

func (p Phase) String() string {
	if p == PhaseDragging {
		return "dragging"
	}
	return "idle"
}

// CancelReason explains why a drop created no link.
type CancelReason int

const (
	// ReasonNone is the zero value carried by committed outcomes.
	ReasonNone CancelReason = iota
	// ReasonNotDragging means drop arrived without a preceding begin.
	ReasonNotDragging
	// ReasonNoTarget means the pointer was released over no port.
	ReasonNoTarget
	// ReasonSameSide means the drag ended on a port of the side it started from.
	ReasonSameSide
	// ReasonForeignPort means a port outside the session's node pair was involved.
	ReasonForeignPort
	// ReasonIncompatible means CanConnect rejected the type pair.
	ReasonIncompatible
)

var reasonNames = map[CancelReason]string{
	ReasonNone:         "none",
	ReasonNotDragging:  "not_dragging",
	ReasonNoTarget:     "no_target",
	ReasonSameSide:     "same_side",
	ReasonForeignPort:  "foreign_port",
	ReasonIncompatible: "incompatible",
}

func (r CancelReason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("CancelReason(%d)", int(r))
}

// Gesture tracks one press-drag-release on a port. The zero value is idle.
type Gesture struct {
	phase  Phase
	origin Port
}

// Begin starts a drag from port. A drag already in progress is abandoned.
func (g Gesture) Begin(port Port) Gesture {
	return Gesture{phase: PhaseDragging, origin: port}
}

// Phase returns the current phase.
func (g Gesture) Phase() Phase { return g.phase }

// Origin returns the port the drag started from, valid while dragging.
func (g Gesture) Origin() (Port, bool) {
	if g.phase != PhaseDragging {
		return Port{}, false
	}
	return g.origin, true
}

// Resolve orders the drag origin and the hit port into (source, target).
// hit is nil when the pointer was released away from any port. Resolve does
// not look at types and does not change the gesture; the caller returns to
// idle whatever the result.
func (g Gesture) Resolve(hit *Port) (source, target Port, reason CancelReason) {
	if g.phase != PhaseDragging {
		return Port{}, Port{}, ReasonNotDragging
	}
	if hit == nil {
		return Port{}, Port{}, ReasonNoTarget
	}
	if hit.Side == g.origin.Side {
		return Port{}, Port{}, ReasonSameSide
	}
	if g.origin.Side == SideOutput {
		return g.origin, *hit, ReasonNone
	}
	return *hit, g.origin, ReasonNone
}

// Outcome is the result of a drop: either the link that was committed or the
// reason nothing happened.
type Outcome struct {
	Link   Link
	Reason CancelReason
}

// Committed builds a successful outcome.
func Committed(l Link) Outcome { return Outcome{Link: l} }

// Cancelled builds an outcome that created nothing.
func Cancelled(r CancelReason) Outcome { return Outcome{Reason: r} }

// OK reports whether the drop created a link.
func (o Outcome) OK() bool { return o.Reason == ReasonNone }
