package core

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Up arrow
	ActionDown           // Down arrow
	ActionLeft           // Left arrow
	ActionRight          // Right arrow
	ActionConfirm        // Enter/Space - start or restart
	ActionBack           // B, Escape - go back to menu
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the action is one of the four arrow directions.
func (a Action) IsDirection() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// EventKind enumerates everything that can drive a game forward.
type EventKind int

const (
	// EventStart resets the game and begins a new tick stream.
	EventStart EventKind = iota
	// EventInput delivers a player action as soon as it happens.
	EventInput
	// EventTick is one fixed-period step of the simulation.
	EventTick
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventInput:
		return "input"
	case EventTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is a single message consumed by a game's Update function.
type Event struct {
	Kind   EventKind
	Action Action // Set for EventInput

	// Generation is set for EventTick and must match the game's current
	// generation for the tick to be applied.
	Generation uint64
}

// StartEvent builds an EventStart.
func StartEvent() Event {
	return Event{Kind: EventStart}
}

// InputEvent builds an EventInput for the given action.
func InputEvent(a Action) Event {
	return Event{Kind: EventInput, Action: a}
}

// TickEvent builds an EventTick belonging to the given tick stream.
func TickEvent(gen uint64) Event {
	return Event{Kind: EventTick, Generation: gen}
}
