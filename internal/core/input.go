package core

// Action represents a semantic race action, abstracted from physical key presses.
// The platform maps keys to actions; the simulation never sees raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - shift one lane left
	ActionRight          // D, Right arrow - shift one lane right
	ActionConfirm        // Enter, Space - dismiss tutorial
	ActionRestart        // R - replay after the race ends
	ActionQuit           // Q, Ctrl+C - exit
	ActionPause          // P, Escape - pause/unpause
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two ticks.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
