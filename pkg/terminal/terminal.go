// Package terminal renders tones and announcements as lines of console text.
package terminal

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/goterm/term"
	"github.com/raykavin/sonify/pkg/scale"
)

const panWidth = 21

// Terminal implements core.ToneRenderer and core.Announcer on a writer
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	pitches []float64
	colored bool
}

type Option func(*Terminal)

// WithPitchTable sets the table used to print tone frequencies
func WithPitchTable(pitches []float64) Option {
	return func(t *Terminal) {
		t.pitches = pitches
	}
}

// WithColor toggles goterm colors
func WithColor(colored bool) Option {
	return func(t *Terminal) {
		t.colored = colored
	}
}

// New creates a terminal writing to out
func New(out io.Writer, options ...Option) *Terminal {
	t := &Terminal{out: out, pitches: scale.Hertz, colored: true}
	for _, option := range options {
		option(t)
	}
	return t
}

// EmitTone prints the frequency of the bin and a stereo position bar
func (t *Terminal) EmitTone(bin int, pan float64, duration time.Duration) {
	frequency := math.NaN()
	if bin >= 0 && bin < len(t.pitches) {
		frequency = t.pitches[bin]
	}

	line := fmt.Sprintf("♪ %7.2f Hz %s %s", frequency, PanBar(pan, panWidth), duration)
	if t.colored {
		line = term.Cyanf("%s", line)
	}
	t.println(line)
}

// Announce prints the text as it would be spoken
func (t *Terminal) Announce(text string) {
	line := "» " + text
	if t.colored {
		line = term.Greenf("%s", line)
	}
	t.println(line)
}

func (t *Terminal) println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, line)
}

// PanBar draws pan as a marker inside a bar of the given width
func PanBar(pan float64, width int) string {
	if width < 1 {
		return ""
	}
	if math.IsNaN(pan) {
		pan = 0
	}

	pct := (pan/scale.PanLimit + 1) / 2
	pct = math.Max(0, math.Min(1, pct))
	marker := int(math.Round(pct * float64(width-1)))

	return "[" + strings.Repeat("-", marker) + "|" + strings.Repeat("-", width-1-marker) + "]"
}
