package core

import "github.com/google/uuid"

// InputKind identifies what a discrete input event asks an engine to do.
// Engines ignore kinds they do not understand.
type InputKind int

const (
	InputNone          InputKind = iota
	InputCapture                 // Catch: tap on a sphere (EntityID)
	InputTap                     // Sequence: tap a grid point (Index)
	InputResetProgress           // Sequence: discard a partial answer
	InputMove                    // Dodge: tap a side of the screen (Side)
)

// String returns a human-readable name for the input kind.
func (k InputKind) String() string {
	switch k {
	case InputNone:
		return "None"
	case InputCapture:
		return "Capture"
	case InputTap:
		return "Tap"
	case InputResetProgress:
		return "ResetProgress"
	case InputMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// Side is the half of the screen a dodge tap landed on.
type Side int

const (
	SideLeft  Side = -1
	SideRight Side = 1
)

// Input is a single tap/position event from the input source.
// Only the payload field matching Kind is meaningful.
type Input struct {
	Kind     InputKind
	EntityID uuid.UUID
	Index    int
	Side     Side
}

// Capture builds a capture input for the given entity.
func Capture(id uuid.UUID) Input {
	return Input{Kind: InputCapture, EntityID: id}
}

// Tap builds a sequence tap input for the given grid index.
func Tap(index int) Input {
	return Input{Kind: InputTap, Index: index}
}

// ResetProgress builds a sequence reset input.
func ResetProgress() Input {
	return Input{Kind: InputResetProgress}
}

// Move builds a dodge move input toward the given side.
func Move(side Side) Input {
	return Input{Kind: InputMove, Side: side}
}

// InputQueue buffers the inputs that arrive between two simulation steps.
// The platform appends as events arrive and drains once per step.
type InputQueue struct {
	pending []Input
}

// Push appends an input to the queue.
func (q *InputQueue) Push(in Input) {
	q.pending = append(q.pending, in)
}

// Drain returns every queued input in arrival order and empties the queue.
func (q *InputQueue) Drain() []Input {
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of queued inputs.
func (q *InputQueue) Len() int {
	return len(q.pending)
}
