package core

// Action represents a semantic action, abstracted from physical key presses.
// Only ActionLeft and ActionRight reach the simulation; the rest drive the
// session screens around it.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, H, Left arrow - shift one lane left
	ActionRight          // D, L, Right arrow - shift one lane right
	ActionConfirm        // Enter, Space - start from the main menu
	ActionRetry          // R - start a new run after game over
	ActionMenu           // M, Escape - back to the main menu
	ActionScores         // S - show this session's runs
	ActionQuit           // Q, Ctrl+C - exit
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
	case ActionRetry:
		return "Retry"
	case ActionMenu:
		return "Menu"
	case ActionScores:
		return "Scores"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
