package navigation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a discrete navigation input
type Command int

const (
	StepRight Command = iota + 1
	StepLeft
	JumpHome
	JumpEnd
	GroupUp
	GroupDown
	Replay
	SpeedUp
	SpeedDown
	PlayAllRight
	PlayAllLeft
	JumpNextTenth
	JumpPreviousTenth
	JumpMinimum
	JumpMaximum
	NextStat
	PreviousStat
)

var commandNames = map[Command]string{
	StepRight:         "step-right",
	StepLeft:          "step-left",
	JumpHome:          "home",
	JumpEnd:           "end",
	GroupUp:           "group-up",
	GroupDown:         "group-down",
	Replay:            "replay",
	SpeedUp:           "speed-up",
	SpeedDown:         "speed-down",
	PlayAllRight:      "play-right",
	PlayAllLeft:       "play-left",
	JumpNextTenth:     "next-tenth",
	JumpPreviousTenth: "previous-tenth",
	JumpMinimum:       "minimum",
	JumpMaximum:       "maximum",
	NextStat:          "next-stat",
	PreviousStat:      "previous-stat",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Valid reports whether c is one of the known commands
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// Commands returns every known command in declaration order
func Commands() []Command {
	commands := make([]Command, 0, len(commandNames))
	for c := StepRight; c <= PreviousStat; c++ {
		commands = append(commands, c)
	}
	return commands
}

// ParseCommand resolves a command by name, ignoring case and surrounding spaces
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// FromKey maps a keyboard key, as reported by browsers, to a command
func FromKey(key string, shift bool) (Command, bool) {
	switch key {
	case "ArrowRight":
		if shift {
			return PlayAllRight, true
		}
		return StepRight, true
	case "ArrowLeft":
		if shift {
			return PlayAllLeft, true
		}
		return StepLeft, true
	case "ArrowUp":
		return PreviousStat, true
	case "ArrowDown":
		return NextStat, true
	case "PageUp":
		return GroupUp, true
	case "PageDown":
		return GroupDown, true
	case "Home":
		return JumpHome, true
	case "End":
		return JumpEnd, true
	case " ":
		return Replay, true
	case "q":
		return SpeedDown, true
	case "e":
		return SpeedUp, true
	case "]":
		return JumpNextTenth, true
	case "[":
		return JumpPreviousTenth, true
	case "<":
		return JumpMinimum, true
	case ">":
		return JumpMaximum, true
	}
	return 0, false
}
