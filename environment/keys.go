package environment

import "strings"

var keyActions = map[string]Action{
	"w": Up, "up": Up, "arrowup": Up,
	"a": Left, "left": Left, "arrowleft": Left,
	"s": Down, "down": Down, "arrowdown": Down,
	"d": Right, "right": Right, "arrowright": Right,
}

// ActionForKey maps a WASD or arrow key name, in any case, to its action.
func ActionForKey(key string) (action Action, ok bool) {
	action, ok = keyActions[strings.ToLower(strings.TrimSpace(key))]
	return
}

// Message is the player-facing line describing a step, or "" if nothing notable happened.
func Message(result StepResult) string {
	switch {
	case result.Terminated:
		return "You found the treasure! Well played!"
	case result.Info.CollectedToken:
		return "Acquired a jump token!"
	case result.Info.Outcome == Jumped:
		return "Jumped over wall!"
	case result.Info.Outcome == Blocked:
		return "Blocked by a wall!"
	case result.Truncated:
		return "Out of steps. The treasure got away."
	}
	return ""
}
