// Package scale maps axis values to pitch bins and stereo positions.
package scale

import (
	"math"
	"time"

	"github.com/raykavin/sonify/pkg/core"
)

const (
	// NoteLength is the audible duration of one tone
	NoteLength = 250 * time.Millisecond

	// PanLimit keeps tones slightly inside the hard left/right channels
	PanLimit = 0.98
)

// DefaultSpeeds is the autoplay interval table, slowest first
var DefaultSpeeds = []time.Duration{
	1000 * time.Millisecond,
	250 * time.Millisecond,
	100 * time.Millisecond,
}

// DefaultSpeedIndex is the initial position in DefaultSpeeds
const DefaultSpeedIndex = 1

// Hertz is the default pitch table: equal temperament from C3 to C6
var Hertz = EqualTemperament(48, 84)

// EqualTemperament returns the frequencies of the MIDI notes in [low, high]
func EqualTemperament(low, high int) []float64 {
	if high < low {
		return nil
	}
	table := make([]float64, 0, high-low+1)
	for note := low; note <= high; note++ {
		table = append(table, 440*math.Pow(2, float64(note-69)/12))
	}
	return table
}

// Bin maps value into one of bins discrete steps between min and max.
// Log10 scales require value, min and max to be positive.
func Bin(value, min, max float64, bins int, kind core.AxisScale) int {
	if kind == core.ScaleLog10 {
		return binLinear(math.Log10(value), math.Log10(min), math.Log10(max), bins)
	}
	return binLinear(value, min, max, bins)
}

func binLinear(value, min, max float64, bins int) int {
	if max == min {
		return 0
	}
	pct := (value - min) / (max - min)
	bin := math.Floor(float64(bins) * pct)
	if math.IsNaN(bin) || math.IsInf(bin, 0) {
		return 0
	}
	return int(bin)
}

// Clamp limits a bin to [0, bins]
func Clamp(bin, bins int) int {
	if bin < 0 {
		return 0
	}
	if bin > bins {
		return bins
	}
	return bin
}

// Position returns the relative position of value within [min, max]; NaN when the range is empty
func Position(value, min, max float64) float64 {
	return (value - min) / (max - min)
}

// Pan converts a relative position in [0, 1] into a stereo coefficient. Positions outside
// the range, as produced by x values beyond an overridden axis, are clamped to its ends.
// NaN positions, as produced by single-point axes, stay centered.
func Pan(pct float64) float64 {
	if math.IsNaN(pct) {
		return 0
	}
	pct = math.Max(0, math.Min(1, pct))
	return (pct*2 - 1) * PanLimit
}
