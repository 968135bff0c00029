// Package sonify turns labeled data series into navigable tones and spoken descriptions.
package sonify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/raykavin/sonify/pkg/axis"
	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/describe"
	"github.com/raykavin/sonify/pkg/logger"
	"github.com/raykavin/sonify/pkg/metadata"
	"github.com/raykavin/sonify/pkg/navigation"
	"github.com/raykavin/sonify/pkg/scale"
)

// DefaultLog is the default logger instance
var DefaultLog logger.Logger

var (
	ErrAlreadyRunning = errors.New("engine is already running")
	ErrStopped        = errors.New("engine is stopped")
)

const eventBuffer = 64

type event struct {
	command navigation.Command
	focus   bool
}

// Sonify is the sonification engine. All navigation state is owned by the Run goroutine;
// other goroutines talk to it through Send and Focus.
type Sonify struct {
	data      *core.DataSet
	settings  core.Settings
	axes      map[core.AxisName]core.AxisData
	meta      []core.GroupMetadata
	navigator *navigation.Navigator
	summary   string

	renderer  core.ToneRenderer
	announcer core.Announcer
	onPoint   core.PointCallback
	log       logger.Logger
	logLevel  *logger.Level

	noteLength time.Duration
	pitches    []float64

	events  chan event
	done    chan struct{}
	running sync.Once

	mu     sync.RWMutex
	cursor navigation.Cursor

	// owned by Run
	ticker  *time.Ticker
	pending *time.Timer
}

// New classifies the groups, resolves the axes and computes group metadata. The inputs
// are copied; later changes by the caller are not observed.
func New(groups []core.GroupInput, settings core.Settings, renderer core.ToneRenderer,
	announcer core.Announcer, options ...Option) (*Sonify, error) {

	data, err := core.NewDataSet(groups...)
	if err != nil {
		return nil, err
	}

	s := &Sonify{
		data:       data,
		settings:   settings,
		axes:       make(map[core.AxisName]core.AxisData),
		renderer:   renderer,
		announcer:  announcer,
		log:        DefaultLog,
		noteLength: scale.NoteLength,
		pitches:    scale.Hertz,
		events:     make(chan event, eventBuffer),
		done:       make(chan struct{}),
	}

	for _, option := range options {
		option(s)
	}

	if s.log == nil {
		s.log = DefaultLog
	}

	if s.logLevel != nil && s.log != nil {
		s.log = s.log.WithFields(map[string]any{})
		s.log.SetLevel(*s.logLevel)
	}

	if err := s.initializeAxes(); err != nil {
		return nil, err
	}

	s.meta = metadata.Calculate(s.data)

	speeds := settings.Speeds
	speedIndex := settings.SpeedIndex
	if len(speeds) == 0 {
		speeds, speedIndex = scale.DefaultSpeeds, scale.DefaultSpeedIndex
	}

	s.navigator, err = navigation.New(s.meta, speeds, speedIndex)
	if err != nil {
		return nil, err
	}

	s.summary = s.composeSummary()
	s.cursor = s.navigator.Cursor()

	return s, nil
}

// initializeAxes resolves x and y, plus y2 when any point plots against it
func (s *Sonify) initializeAxes() error {
	names := []core.AxisName{core.AxisX, core.AxisY}
	if axis.UsesAxis(s.data, core.AxisY2) {
		names = append(names, core.AxisY2)
	}

	for _, name := range names {
		resolved, err := axis.Initialize(s.data, name, s.settings.Axis(name), axis.AllGroups)
		if err != nil {
			return err
		}
		s.axes[name] = resolved
	}
	return nil
}

func (s *Sonify) composeSummary() string {
	sentences := []string{describe.Chart(describe.ChartOptions{
		Title:      s.settings.Title,
		GroupCount: s.data.Len(),
		Live:       s.settings.Live,
		Hierarchy:  s.settings.Hierarchy,
	})}

	for _, name := range []core.AxisName{core.AxisX, core.AxisY, core.AxisY2} {
		if resolved, ok := s.axes[name]; ok {
			sentences = append(sentences, describe.Axis(name, resolved))
		}
	}

	return strings.Join(sentences, " ")
}

// Summary returns the spoken chart summary
func (s *Sonify) Summary() string { return s.summary }

// Axis returns the resolved axis and whether the chart uses it
func (s *Sonify) Axis(name core.AxisName) (core.AxisData, bool) {
	resolved, ok := s.axes[name]
	return resolved, ok
}

// Metadata returns a copy of the per-group metadata
func (s *Sonify) Metadata() []core.GroupMetadata {
	return append([]core.GroupMetadata(nil), s.meta...)
}

// DataSet returns the classified data
func (s *Sonify) DataSet() *core.DataSet { return s.data }

// Cursor returns the position published by the event loop after its last transition
func (s *Sonify) Cursor() navigation.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Send queues a command for the event loop
func (s *Sonify) Send(cmd navigation.Command) error {
	if !cmd.Valid() {
		return fmt.Errorf("%w: %s", navigation.ErrUnknownCommand, cmd)
	}
	return s.enqueue(event{command: cmd})
}

// Focus queues the announcement of the summary and the keyboard instructions
func (s *Sonify) Focus() error {
	return s.enqueue(event{focus: true})
}

func (s *Sonify) enqueue(e event) error {
	select {
	case <-s.done:
		return ErrStopped
	default:
	}

	select {
	case s.events <- e:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// Run processes commands, autoplay ticks and pending descriptions until ctx is done.
// It may only be called once.
func (s *Sonify) Run(ctx context.Context) error {
	err := ErrAlreadyRunning
	s.running.Do(func() { err = nil })
	if err != nil {
		return err
	}

	defer close(s.done)
	defer s.stopPlayback()
	defer s.cancelDescription()

	s.log.Debugf("engine started with %d groups", s.data.Len())

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("engine stopped")
			return nil

		case e := <-s.events:
			if e.focus {
				s.announce(describe.FilteredJoin([]string{
					s.summary,
					describe.Instructions(describe.InstructionOptions{
						Hierarchy: s.settings.Hierarchy,
						Live:      s.settings.Live,
					}),
				}, " "))
				continue
			}
			s.apply(s.navigator.Handle(e.command))

		case <-tickerC(s.ticker):
			s.apply(s.navigator.Tick())

		case <-timerC(s.pending):
			s.pending = nil
			s.describeCurrent()
		}
	}
}

// apply performs the side effects of a transition
func (s *Sonify) apply(out navigation.Outcome) {
	s.publish(out.Cursor)

	if out.Interrupted || out.Finished {
		s.stopPlayback()
	}

	if out.Rejected {
		s.log.WithField("command", out.Command.String()).Trace("command rejected")
		return
	}

	if out.SpeedChanged {
		s.announce(describe.Speed(s.navigator.Speed()))
	}

	if out.StatChanged {
		s.announce(describe.Stat(s.navigator.Stat()))
	}

	if out.Tone {
		s.playCurrent()
	}

	if out.Describe {
		s.scheduleDescription()
	}

	if out.Playback != nil {
		s.cancelDescription()
		s.ticker = time.NewTicker(out.Playback.Interval)
		s.log.WithFields(map[string]any{
			"direction": int(out.Playback.Direction),
			"interval":  out.Playback.Interval,
		}).Debug("autoplay started")
	}
}

func (s *Sonify) publish(cursor navigation.Cursor) {
	s.mu.Lock()
	s.cursor = cursor
	s.mu.Unlock()
}

func (s *Sonify) stopPlayback() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *Sonify) scheduleDescription() {
	s.cancelDescription()
	s.pending = time.NewTimer(s.noteLength)
}

func (s *Sonify) cancelDescription() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Sonify) current() (core.DataPoint, navigation.Cursor) {
	cursor := s.navigator.Cursor()
	return s.data.Point(cursor.GroupIndex, cursor.PointIndex), cursor
}

// playCurrent emits the tones of the point under the cursor. Multi-valued points sound
// every sub-value unless a statistic is selected. Unplayable values stay silent.
func (s *Sonify) playCurrent() {
	point, cursor := s.current()
	if point == nil {
		return
	}

	yName := core.AxisY
	if point.Shape() == core.ShapeAlternateAxis {
		yName = core.AxisY2
	}
	yAxis := s.axes[yName]
	xAxis := s.axes[core.AxisX]

	pan := scale.Pan(scale.Position(point.GetX(), xAxis.Minimum, xAxis.Maximum))
	bins := len(s.pitches) - 1

	for _, value := range s.values(point) {
		if axis.IsUnplayable(value, yAxis) {
			s.log.WithField("value", value).Trace("value not playable")
			continue
		}

		bin := scale.Clamp(scale.Bin(value, yAxis.Minimum, yAxis.Maximum, bins, yAxis.Type), bins)
		if s.renderer != nil {
			s.renderer.EmitTone(bin, pan, s.noteLength)
		}
		s.log.WithFields(map[string]any{
			"group": cursor.GroupIndex,
			"point": cursor.PointIndex,
			"bin":   bin,
			"pan":   pan,
		}).Trace("tone emitted")
	}

	if s.onPoint != nil {
		s.onPoint(cursor.GroupIndex, cursor.PointIndex, point)
	}
}

// values returns the y values sounded for a point
func (s *Sonify) values(point core.DataPoint) []float64 {
	stat := s.navigator.Stat()

	switch p := point.(type) {
	case core.SimplePoint:
		return []float64{p.Y}
	case core.AlternateAxisPoint:
		return []float64{p.Y2}
	case core.OHLCPoint:
		if value, ok := p.Stat(stat); ok {
			return []float64{value}
		}
		return []float64{p.Open, p.High, p.Low, p.Close}
	case core.HighLowPoint:
		if value, ok := p.Stat(stat); ok {
			return []float64{value}
		}
		return []float64{p.High, p.Low}
	case core.BoxPoint:
		if stat == describe.OutlierStat {
			return append([]float64(nil), p.Outlier...)
		}
		if value, ok := p.Stat(stat); ok {
			return []float64{value}
		}
		return []float64{p.High, p.Q3, p.Median, p.Q1, p.Low}
	}
	return nil
}

// describeCurrent announces the point under the cursor, prefixed by the group label when
// a group change is pending
func (s *Sonify) describeCurrent() {
	point, cursor := s.current()
	if point == nil {
		return
	}

	yName := core.AxisY
	if point.Shape() == core.ShapeAlternateAxis {
		yName = core.AxisY2
	}

	text := describe.Point(point,
		axis.FormatWrapper(s.axes[core.AxisX]),
		axis.FormatWrapper(s.axes[yName]),
		describe.PointOptions{
			Stat:               s.navigator.Stat(),
			AnnounceLabelFirst: s.settings.AnnouncePointLabelFirst,
		},
	)

	if s.navigator.ConsumeGroupAnnouncement() {
		text = describe.WithGroup(s.data.Groups[cursor.GroupIndex].Label, text)
	}

	s.publish(s.navigator.Cursor())
	s.announce(text)
}

func (s *Sonify) announce(text string) {
	if text == "" {
		return
	}
	s.log.WithField("text", text).Debug("announce")
	if s.announcer != nil {
		s.announcer.Announce(text)
	}
}

func tickerC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
