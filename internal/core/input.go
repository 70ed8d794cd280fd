package core

// Action is a semantic client action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow: move paddle up
	ActionDown           // S, Down arrow: move paddle down
	ActionConfirm        // Enter: find a match
	ActionHelp           // ?: toggle the full help view
	ActionQuit           // Q, Ctrl+C: leave
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
	case ActionConfirm:
		return "Confirm"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
