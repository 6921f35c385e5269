package transition

// State is a position in a transition lifecycle.
type State string

func (s State) String() string {
	return string(s)
}

// Event names a notification published by a handler.
type Event string

func (e Event) String() string {
	return string(e)
}

// States of the simple A -> PENDING -> B handler.
const (
	StateA       State = "A"
	StatePending State = "PENDING"
	StateB       State = "B"
)

// Events of the simple handler.
const (
	EventScheduled Event = "SCHEDULED"
	EventFinished  Event = "FINISHED"
	EventAborted   Event = "ABORTED"
	EventReset     Event = "RESET"
)
