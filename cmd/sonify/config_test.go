package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raykavin/sonify"
	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/logger/zerolog"
	"github.com/raykavin/sonify/pkg/navigation"
	"github.com/raykavin/sonify/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, scale.DefaultSpeeds, settings.Speeds)
	assert.Equal(t, scale.DefaultSpeedIndex, settings.SpeedIndex)
	assert.Equal(t, defaultStoragePath, config.StoragePath)
	assert.Equal(t, defaultAddress, config.Address)
	assert.Equal(t, backendZerolog, config.LogBackend)

	note, err := config.Note()
	require.NoError(t, err)
	assert.Equal(t, scale.NoteLength, note)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sonify.yaml")
	content := `
title: Rainfall
speeds: ["2s", "500ms"]
speed_index: 0
note_length: 100ms
announce_label_first: true
axes:
  x:
    label: Month
  y:
    label: Millimeters
    minimum: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Rainfall", settings.Title)
	assert.Equal(t, []time.Duration{2 * time.Second, 500 * time.Millisecond}, settings.Speeds)
	assert.Equal(t, 0, settings.SpeedIndex)
	assert.True(t, settings.AnnouncePointLabelFirst)
	require.NotNil(t, settings.X)
	require.NotNil(t, settings.Y)
	require.NotNil(t, settings.X.Label)
	assert.Equal(t, "Month", *settings.X.Label)
	require.NotNil(t, settings.Y.Minimum)
	assert.Equal(t, 0.0, *settings.Y.Minimum)
	assert.Nil(t, settings.Y2)

	note, err := config.Note()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, note)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("SONIFY_ADDRESS", "0.0.0.0:9000")
	t.Setenv("SONIFY_LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", config.Address)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestInvalidSpeeds(t *testing.T) {
	config := &Config{Speeds: []string{"fast"}}
	_, err := config.Settings()
	require.Error(t, err)

	config.Speeds = []string{"0s"}
	_, err = config.Settings()
	require.Error(t, err)

	config.NoteLength = "soon"
	_, err = config.Note()
	require.Error(t, err)
}

func TestParseInput(t *testing.T) {
	cases := map[string]navigation.Command{
		"step-right": navigation.StepRight,
		"ArrowLeft":  navigation.StepLeft,
		"q":          navigation.SpeedUp,
		"]":          navigation.JumpNextTenth,
	}
	for input, expected := range cases {
		command, err := parseInput(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, command, input)
	}

	_, err := parseInput("dance")
	require.ErrorIs(t, err, navigation.ErrUnknownCommand)
}

func TestFeedStopsAtQuit(t *testing.T) {
	sonify.DefaultLog = zerolog.Nop()

	engine, err := sonify.New(
		[]core.GroupInput{core.FromNumbers(1, 2, 3)},
		core.Settings{},
		&discard{}, &discard{},
		sonify.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	input := strings.NewReader("step-right\n\nnonsense\nfocus\nquit\nstep-right\n")
	require.NoError(t, feed(engine, input))
}

type discard struct{}

func (discard) EmitTone(int, float64, time.Duration) {}
func (discard) Announce(string)                      {}
