package navigation

import (
	"testing"
	"time"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpeeds = []time.Duration{1000 * time.Millisecond, 500 * time.Millisecond, 250 * time.Millisecond}

func newNavigator(t *testing.T, inputs ...core.GroupInput) *Navigator {
	t.Helper()

	ds, err := core.NewDataSet(inputs...)
	require.NoError(t, err)

	n, err := New(metadata.Calculate(ds), testSpeeds, 1)
	require.NoError(t, err)
	return n
}

func labeled(label string, values ...float64) core.GroupInput {
	input := core.FromNumbers(values...)
	input.Label = label
	return input
}

func TestNew(t *testing.T) {
	t.Run("starts on first point", func(t *testing.T) {
		n := newNavigator(t, core.FromNumbers(1, 2, 3))
		assert.Equal(t, Cursor{GroupIndex: 0, PointIndex: 0, SpeedIndex: 1, StatIndex: -1}, n.Cursor())
		assert.Equal(t, Positioned, n.Mode())
	})

	t.Run("skips leading absent group", func(t *testing.T) {
		n := newNavigator(t, core.GroupInput{Label: "gone"}, labeled("b", 1))
		assert.Equal(t, 1, n.Cursor().GroupIndex)
	})

	t.Run("speed index is clamped", func(t *testing.T) {
		ds, err := core.NewDataSet(core.FromNumbers(1))
		require.NoError(t, err)
		n, err := New(metadata.Calculate(ds), testSpeeds, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, n.Cursor().SpeedIndex)
	})

	t.Run("empty speed table", func(t *testing.T) {
		_, err := New([]core.GroupMetadata{{Size: 1, InputType: core.InputSimple}}, nil, 0)
		require.ErrorIs(t, err, ErrNoSpeeds)
	})

	t.Run("nothing playable", func(t *testing.T) {
		_, err := New([]core.GroupMetadata{metadata.Absent(0)}, testSpeeds, 0)
		require.ErrorIs(t, err, ErrNoPlayableGroups)
	})
}

func TestStepsClamp(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3))

	out := n.Handle(StepLeft)
	assert.Equal(t, 0, out.Cursor.PointIndex)
	assert.True(t, out.Tone, "a step at the bound still sounds the point")
	assert.True(t, out.Describe)
	assert.False(t, out.Rejected)

	n.Handle(StepRight)
	n.Handle(StepRight)
	out = n.Handle(StepRight)
	assert.Equal(t, 2, out.Cursor.PointIndex)

	out = n.Handle(JumpHome)
	assert.Equal(t, 0, out.Cursor.PointIndex)

	out = n.Handle(JumpEnd)
	assert.Equal(t, 2, out.Cursor.PointIndex)
	out = n.Handle(JumpEnd)
	assert.Equal(t, 2, out.Cursor.PointIndex)
}

func TestStepsFromAnyPosition(t *testing.T) {
	for start := 0; start < 4; start++ {
		for _, cmd := range []Command{StepRight, StepLeft, JumpHome, JumpEnd} {
			n := newNavigator(t, core.FromNumbers(1, 2, 3, 4))
			for i := 0; i < start; i++ {
				n.Handle(StepRight)
			}
			for i := 0; i < 6; i++ {
				out := n.Handle(cmd)
				assert.GreaterOrEqual(t, out.Cursor.PointIndex, 0)
				assert.LessOrEqual(t, out.Cursor.PointIndex, 3)
			}
		}
	}
}

func TestGroupSwitch(t *testing.T) {
	n := newNavigator(t, labeled("long", 1, 2, 3, 4, 5), labeled("short", 1, 2), labeled("mid", 1, 2, 3))

	t.Run("up at the first group is rejected", func(t *testing.T) {
		before := n.Cursor()
		out := n.Handle(GroupUp)
		assert.True(t, out.Rejected)
		assert.False(t, out.Tone)
		assert.Equal(t, before, n.Cursor())
		assert.False(t, n.Cursor().PendingGroupAnnouncement)
	})

	t.Run("point index is clamped to the new group", func(t *testing.T) {
		n.Handle(JumpEnd)
		out := n.Handle(GroupDown)
		assert.Equal(t, 1, out.Cursor.GroupIndex)
		assert.Equal(t, 1, out.Cursor.PointIndex)
		assert.True(t, out.Cursor.PendingGroupAnnouncement)
		assert.True(t, out.Tone)
	})

	t.Run("point index is kept when in range", func(t *testing.T) {
		out := n.Handle(GroupDown)
		assert.Equal(t, 2, out.Cursor.GroupIndex)
		assert.Equal(t, 1, out.Cursor.PointIndex)
	})

	t.Run("down at the last group is rejected", func(t *testing.T) {
		assert.True(t, n.ConsumeGroupAnnouncement())
		before := n.Cursor()
		out := n.Handle(GroupDown)
		assert.True(t, out.Rejected)
		assert.Equal(t, before, n.Cursor())
		assert.False(t, n.Cursor().PendingGroupAnnouncement)
	})

	t.Run("up moves back", func(t *testing.T) {
		out := n.Handle(GroupUp)
		assert.Equal(t, 1, out.Cursor.GroupIndex)
	})
}

func TestGroupSwitchSkipsAbsentGroups(t *testing.T) {
	n := newNavigator(t, labeled("a", 1, 2), core.GroupInput{Label: "gone"}, labeled("c", 3))

	out := n.Handle(GroupDown)
	assert.Equal(t, 2, out.Cursor.GroupIndex)

	out = n.Handle(GroupUp)
	assert.Equal(t, 0, out.Cursor.GroupIndex)
}

func TestReplay(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2))
	n.Handle(StepRight)

	out := n.Handle(Replay)
	assert.Equal(t, 1, out.Cursor.PointIndex)
	assert.True(t, out.Cursor.PendingGroupAnnouncement)
	assert.True(t, out.Tone)

	assert.True(t, n.ConsumeGroupAnnouncement())
	assert.False(t, n.ConsumeGroupAnnouncement())
}

func TestSpeed(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2))

	out := n.Handle(SpeedDown)
	assert.Equal(t, 0, out.Cursor.SpeedIndex)
	assert.True(t, out.SpeedChanged)
	assert.False(t, out.Tone)
	assert.False(t, out.Describe)
	assert.Equal(t, time.Second, n.Speed())

	out = n.Handle(SpeedDown)
	assert.Equal(t, 0, out.Cursor.SpeedIndex)

	n.Handle(SpeedUp)
	n.Handle(SpeedUp)
	out = n.Handle(SpeedUp)
	assert.Equal(t, 2, out.Cursor.SpeedIndex)
	assert.Equal(t, 0, out.Cursor.PointIndex)
}

func TestAutoplay(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3))

	out := n.Handle(PlayAllRight)
	require.NotNil(t, out.Playback)
	assert.Equal(t, Right, out.Playback.Direction)
	assert.Equal(t, 500*time.Millisecond, out.Playback.Interval)
	assert.True(t, out.Tone)
	assert.False(t, out.Describe)
	assert.Equal(t, 0, out.Cursor.PointIndex)
	assert.Equal(t, AutoPlaying, n.Mode())

	out = n.Tick()
	assert.Equal(t, 1, out.Cursor.PointIndex)
	assert.True(t, out.Tone)
	assert.False(t, out.Finished)

	out = n.Tick()
	assert.Equal(t, 2, out.Cursor.PointIndex)
	assert.True(t, out.Finished)
	assert.Equal(t, Positioned, n.Mode())

	out = n.Tick()
	assert.True(t, out.Rejected)
	assert.Equal(t, 2, out.Cursor.PointIndex)
}

func TestAutoplayLeft(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3))
	n.Handle(JumpEnd)

	n.Handle(PlayAllLeft)
	assert.Equal(t, 1, n.Tick().Cursor.PointIndex)
	out := n.Tick()
	assert.Equal(t, 0, out.Cursor.PointIndex)
	assert.True(t, out.Finished)
}

func TestAutoplayAtBound(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3))

	out := n.Handle(PlayAllLeft)
	assert.Nil(t, out.Playback)
	assert.True(t, out.Finished)
	assert.True(t, out.Tone)
	assert.Equal(t, Positioned, n.Mode())
}

func TestAutoplayInterrupted(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3, 4, 5))

	n.Handle(PlayAllRight)
	n.Tick()
	n.Tick()
	require.Equal(t, 2, n.Cursor().PointIndex)

	out := n.Handle(StepLeft)
	assert.True(t, out.Interrupted)
	assert.Equal(t, 1, out.Cursor.PointIndex)
	assert.Equal(t, Positioned, n.Mode())

	_, playing := n.Playback()
	assert.False(t, playing)
	assert.True(t, n.Tick().Rejected)
}

func TestAutoplayRestartKeepsOnePlayback(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3, 4, 5))

	n.Handle(PlayAllRight)
	n.Tick()
	out := n.Handle(PlayAllLeft)
	assert.True(t, out.Interrupted)

	playback, ok := n.Playback()
	require.True(t, ok)
	assert.Equal(t, Left, playback.Direction)
	assert.Equal(t, 0, n.Tick().Cursor.PointIndex)
}

func TestRejectedCommandStillInterrupts(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(1, 2, 3))
	n.Handle(PlayAllRight)

	out := n.Handle(GroupUp)
	assert.True(t, out.Rejected)
	assert.True(t, out.Interrupted)
	assert.Equal(t, Positioned, n.Mode())

	out = n.Handle(Command(999))
	assert.True(t, out.Rejected)
}

func TestTenths(t *testing.T) {
	values := make([]float64, 35)
	n := newNavigator(t, core.FromNumbers(values...))

	out := n.Handle(JumpNextTenth)
	assert.Equal(t, 4, out.Cursor.PointIndex)

	for i := 0; i < 10; i++ {
		out = n.Handle(JumpNextTenth)
	}
	assert.Equal(t, 34, out.Cursor.PointIndex)

	out = n.Handle(JumpPreviousTenth)
	assert.Equal(t, 30, out.Cursor.PointIndex)

	small := newNavigator(t, core.FromNumbers(1, 2, 3))
	assert.Equal(t, 1, small.Handle(JumpNextTenth).Cursor.PointIndex)
}

func TestMinimumMaximum(t *testing.T) {
	n := newNavigator(t, core.FromNumbers(5, 1, 9, 1, 9))

	assert.Equal(t, 2, n.Handle(JumpMaximum).Cursor.PointIndex)
	assert.Equal(t, 1, n.Handle(JumpMinimum).Cursor.PointIndex)

	ohlc := newNavigator(t, core.GroupInput{Points: []core.RawPoint{
		{X: core.Float(0), Open: core.Float(1), High: core.Float(2), Low: core.Float(0), Close: core.Float(1)},
	}})
	assert.True(t, ohlc.Handle(JumpMaximum).Rejected)
}

func TestStats(t *testing.T) {
	n := newNavigator(t,
		core.GroupInput{Label: "bars", Points: []core.RawPoint{
			{X: core.Float(0), Open: core.Float(1), High: core.Float(2), Low: core.Float(0), Close: core.Float(1)},
		}},
		labeled("plain", 1, 2),
	)

	assert.Equal(t, "", n.Stat())

	out := n.Handle(NextStat)
	assert.True(t, out.StatChanged)
	assert.Equal(t, 0, out.Cursor.StatIndex)
	assert.Equal(t, "open", n.Stat())

	for i := 0; i < 6; i++ {
		n.Handle(NextStat)
	}
	assert.Equal(t, "close", n.Stat())

	for i := 0; i < 6; i++ {
		n.Handle(PreviousStat)
	}
	assert.Equal(t, "", n.Stat())
	assert.Equal(t, -1, n.Cursor().StatIndex)

	n.Handle(NextStat)
	out = n.Handle(GroupDown)
	assert.Equal(t, -1, out.Cursor.StatIndex)
	assert.True(t, n.Handle(NextStat).Rejected)
}
