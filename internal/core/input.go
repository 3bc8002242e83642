package core

// Action is a semantic player intent, independent of the physical key.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // Left arrow, A
	ActionRight           // Right arrow, D
	ActionSoftDrop        // Down arrow, S
	ActionRotate          // Up arrow, W
	ActionHardDrop        // Space
	ActionHold            // C
	ActionPause           // P
	ActionRestart         // R, after game over
	ActionConfirm         // Enter
	ActionBack            // Esc
	ActionQuit            // Q, Ctrl+C
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
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionRotate:
		return "Rotate"
	case ActionHardDrop:
		return "HardDrop"
	case ActionHold:
		return "Hold"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
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

// InputFrame collects the actions triggered between two simulation steps.
// Actions keep their arrival order and repeat, so three quick presses of
// Left move the piece three columns.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends an action to the frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions = append(f.actions, a)
}

// Has reports whether the action was triggered at least once.
func (f InputFrame) Has(a Action) bool {
	for _, x := range f.actions {
		if x == a {
			return true
		}
	}
	return false
}

// Actions returns the triggered actions in arrival order.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Len returns the number of queued actions.
func (f InputFrame) Len() int {
	return len(f.actions)
}

// Clear empties the frame, keeping its storage.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}

// Clone returns an independent copy of the frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{actions: append([]Action(nil), f.actions...)}
}
