// Package navigation holds the cursor and playback state machine. It is synchronous and
// performs no I/O: callers turn each Outcome into tones, timers and announcements.
package navigation

import (
	"errors"
	"time"

	"github.com/raykavin/sonify/pkg/core"
)

var (
	ErrNoSpeeds         = errors.New("speed table is empty")
	ErrNoPlayableGroups = errors.New("no group has points")
)

// Mode is the state of the navigator
type Mode int

const (
	Idle Mode = iota
	Positioned
	AutoPlaying
)

func (m Mode) String() string {
	switch m {
	case Positioned:
		return "positioned"
	case AutoPlaying:
		return "auto-playing"
	default:
		return "idle"
	}
}

// Direction of autoplay
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Playback describes an active autoplay. A navigator holds at most one.
type Playback struct {
	Direction Direction
	Interval  time.Duration
}

// Cursor is the navigation position
type Cursor struct {
	GroupIndex               int
	PointIndex               int
	SpeedIndex               int
	StatIndex                int // -1 when the whole point is selected
	PendingGroupAnnouncement bool
}

// Outcome tells the caller which side effects a transition requires
type Outcome struct {
	Command  Command
	Cursor   Cursor
	Tone     bool // emit the tone of the cursor position
	Describe bool // describe the cursor position once the tone has sounded

	SpeedChanged bool
	StatChanged  bool
	Rejected     bool // nothing changed and nothing should be emitted
	Interrupted  bool // an active autoplay was cancelled

	Playback *Playback // autoplay started by this transition
	Finished bool      // autoplay reached its bound and stopped
}

// Navigator is the single-writer state machine driving the cursor
type Navigator struct {
	meta     []core.GroupMetadata
	speeds   []time.Duration
	cursor   Cursor
	playback *Playback
}

// New creates a navigator positioned on the first point of the first playable group
func New(meta []core.GroupMetadata, speeds []time.Duration, speedIndex int) (*Navigator, error) {
	if len(speeds) == 0 {
		return nil, ErrNoSpeeds
	}

	n := &Navigator{
		meta:   append([]core.GroupMetadata(nil), meta...),
		speeds: append([]time.Duration(nil), speeds...),
	}

	first := n.nextGroup(-1, 1)
	if first < 0 {
		return nil, ErrNoPlayableGroups
	}

	n.cursor = Cursor{
		GroupIndex: first,
		SpeedIndex: clamp(speedIndex, 0, len(speeds)-1),
		StatIndex:  -1,
	}
	return n, nil
}

// Cursor returns a copy of the current cursor
func (n *Navigator) Cursor() Cursor { return n.cursor }

// Mode returns the current state
func (n *Navigator) Mode() Mode {
	if n.playback != nil {
		return AutoPlaying
	}
	return Positioned
}

// Playback returns the active autoplay, if any
func (n *Navigator) Playback() (Playback, bool) {
	if n.playback == nil {
		return Playback{}, false
	}
	return *n.playback, true
}

// Speed returns the current autoplay interval
func (n *Navigator) Speed() time.Duration { return n.speeds[n.cursor.SpeedIndex] }

// Stat returns the selected statistic of the current group, or empty
func (n *Navigator) Stat() string {
	stats := n.meta[n.cursor.GroupIndex].AvailableStats
	if n.cursor.StatIndex < 0 || n.cursor.StatIndex >= len(stats) {
		return ""
	}
	return stats[n.cursor.StatIndex]
}

// ConsumeGroupAnnouncement returns the pending group announcement flag and clears it
func (n *Navigator) ConsumeGroupAnnouncement() bool {
	pending := n.cursor.PendingGroupAnnouncement
	n.cursor.PendingGroupAnnouncement = false
	return pending
}

// Stop cancels an active autoplay. It reports whether one was active.
func (n *Navigator) Stop() bool {
	active := n.playback != nil
	n.playback = nil
	return active
}

func (n *Navigator) last() int {
	return n.meta[n.cursor.GroupIndex].Size - 1
}

func (n *Navigator) playable(group int) bool {
	return !n.meta[group].IsAbsent() && n.meta[group].Size > 0
}

// nextGroup returns the closest playable group from start in the given step, or -1
func (n *Navigator) nextGroup(start, step int) int {
	for g := start + step; g >= 0 && g < len(n.meta); g += step {
		if n.playable(g) {
			return g
		}
	}
	return -1
}

// Handle applies one command. Any active autoplay is cancelled first.
func (n *Navigator) Handle(cmd Command) Outcome {
	out := Outcome{Command: cmd, Interrupted: n.Stop()}
	moved := Outcome{Command: cmd, Interrupted: out.Interrupted, Tone: true, Describe: true}

	switch cmd {
	case StepRight:
		n.cursor.PointIndex = clamp(n.cursor.PointIndex+1, 0, n.last())
		out = moved

	case StepLeft:
		n.cursor.PointIndex = clamp(n.cursor.PointIndex-1, 0, n.last())
		out = moved

	case JumpHome:
		n.cursor.PointIndex = 0
		out = moved

	case JumpEnd:
		n.cursor.PointIndex = n.last()
		out = moved

	case GroupUp, GroupDown:
		step := 1
		if cmd == GroupUp {
			step = -1
		}
		target := n.nextGroup(n.cursor.GroupIndex, step)
		if target < 0 {
			out.Rejected = true
			break
		}
		n.cursor.GroupIndex = target
		// the new group may be shorter than the one we left
		n.cursor.PointIndex = clamp(n.cursor.PointIndex, 0, n.last())
		n.cursor.StatIndex = -1
		n.cursor.PendingGroupAnnouncement = true
		out = moved

	case Replay:
		n.cursor.PendingGroupAnnouncement = true
		out = moved

	case SpeedUp:
		n.cursor.SpeedIndex = clamp(n.cursor.SpeedIndex+1, 0, len(n.speeds)-1)
		out.SpeedChanged = true

	case SpeedDown:
		n.cursor.SpeedIndex = clamp(n.cursor.SpeedIndex-1, 0, len(n.speeds)-1)
		out.SpeedChanged = true

	case PlayAllRight:
		out = n.start(Right, out)

	case PlayAllLeft:
		out = n.start(Left, out)

	case JumpNextTenth, JumpPreviousTenth:
		step := max(n.meta[n.cursor.GroupIndex].Tenths, 1)
		if cmd == JumpPreviousTenth {
			step = -step
		}
		n.cursor.PointIndex = clamp(n.cursor.PointIndex+step, 0, n.last())
		out = moved

	case JumpMinimum, JumpMaximum:
		index := n.meta[n.cursor.GroupIndex].MinimumPointIndex
		if cmd == JumpMaximum {
			index = n.meta[n.cursor.GroupIndex].MaximumPointIndex
		}
		if index < 0 {
			out.Rejected = true
			break
		}
		n.cursor.PointIndex = clamp(index, 0, n.last())
		out = moved

	case NextStat, PreviousStat:
		stats := n.meta[n.cursor.GroupIndex].AvailableStats
		if len(stats) == 0 {
			out.Rejected = true
			break
		}
		step := 1
		if cmd == PreviousStat {
			step = -1
		}
		n.cursor.StatIndex = clamp(n.cursor.StatIndex+step, -1, len(stats)-1)
		out = moved
		out.StatChanged = true

	default:
		out.Rejected = true
	}

	out.Cursor = n.cursor
	return out
}

// start sounds the current point and begins autoplay unless the cursor already sits on
// the bound it would travel to
func (n *Navigator) start(direction Direction, out Outcome) Outcome {
	out.Tone = true

	if n.atBound(direction) {
		out.Finished = true
		return out
	}

	n.playback = &Playback{Direction: direction, Interval: n.Speed()}
	started := *n.playback
	out.Playback = &started
	return out
}

func (n *Navigator) atBound(direction Direction) bool {
	if direction == Right {
		return n.cursor.PointIndex >= n.last()
	}
	return n.cursor.PointIndex <= 0
}

// Tick advances an active autoplay by one point. Autoplay stops on reaching its bound.
func (n *Navigator) Tick() Outcome {
	if n.playback == nil {
		return Outcome{Rejected: true, Cursor: n.cursor}
	}

	direction := n.playback.Direction
	n.cursor.PointIndex = clamp(n.cursor.PointIndex+int(direction), 0, n.last())

	out := Outcome{Tone: true}
	if n.atBound(direction) {
		n.playback = nil
		out.Finished = true
	}
	out.Cursor = n.cursor
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
