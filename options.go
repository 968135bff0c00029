package sonify

import (
	"time"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/logger"
)

// Option is a functional option for configuring a Sonify instance
type Option func(*Sonify)

// WithLogger replaces DefaultLog for this engine
func WithLogger(log logger.Logger) Option {
	return func(s *Sonify) {
		s.log = log
	}
}

// WithLogLevel sets the log level of the engine logger. eg: logger.DebugLevel, logger.InfoLevel
// The level applies to a copy, the logger given to WithLogger or DefaultLog keeps its own.
func WithLogLevel(level logger.Level) Option {
	return func(s *Sonify) {
		s.logLevel = &level
	}
}

// WithPointCallback registers a function called every time a point is played
func WithPointCallback(callback core.PointCallback) Option {
	return func(s *Sonify) {
		s.onPoint = callback
	}
}

// WithNoteLength sets the tone duration and the delay before a point is described
func WithNoteLength(length time.Duration) Option {
	return func(s *Sonify) {
		if length > 0 {
			s.noteLength = length
		}
	}
}

// WithPitchTable replaces the default pitch table. Its length sets the number of bins.
func WithPitchTable(pitches []float64) Option {
	return func(s *Sonify) {
		if len(pitches) > 0 {
			s.pitches = append([]float64(nil), pitches...)
		}
	}
}
