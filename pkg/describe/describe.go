// Package describe composes the spoken text of points, charts and axes.
package describe

import (
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/samber/lo"
)

// OutlierStat selects the outliers of a box point
const OutlierStat = "outlier"

// PointOptions tune how a point is described
type PointOptions struct {
	Stat               string // Named sub-value to describe, empty for the whole point
	Outlier            int    // 1-based outlier to describe, 0 for the point itself
	AnnounceLabelFirst bool
}

// Point composes the description of a point using the x and y formats
func Point(point core.DataPoint, xFormat, yFormat core.FormatFunc, opts PointOptions) string {
	switch p := point.(type) {
	case core.OHLCPoint:
		if value, ok := p.Stat(opts.Stat); ok {
			return fmt.Sprintf("%s, %s", xFormat(p.X), yFormat(value))
		}
		return strings.Join([]string{
			fmt.Sprintf("%s, %s", xFormat(p.X), yFormat(p.Open)),
			yFormat(p.High),
			yFormat(p.Low),
			yFormat(p.Close),
		}, " - ")

	case core.BoxPoint:
		if opts.Outlier > 0 && opts.Outlier <= len(p.Outlier) {
			return fmt.Sprintf("%s, %s, %d of %d",
				xFormat(p.X), yFormat(p.Outlier[opts.Outlier-1]), opts.Outlier, len(p.Outlier))
		}
		if opts.Stat == OutlierStat {
			return outlierDescription(p.X, p.Outlier, xFormat, yFormat)
		}
		if value, ok := p.Stat(opts.Stat); ok {
			return fmt.Sprintf("%s, %s", xFormat(p.X), yFormat(value))
		}
		return rangeDescription(p.X, p.High, p.Low, len(p.Outlier), xFormat, yFormat)

	case core.HighLowPoint:
		if value, ok := p.Stat(opts.Stat); ok {
			return fmt.Sprintf("%s, %s", xFormat(p.X), yFormat(value))
		}
		return rangeDescription(p.X, p.High, p.Low, len(p.Outlier), xFormat, yFormat)

	case core.SimplePoint:
		details := []string{xFormat(p.X), yFormat(p.Y)}
		if p.Label != "" {
			if opts.AnnounceLabelFirst {
				details = append([]string{p.Label}, details...)
			} else {
				details = append(details, p.Label)
			}
		}
		return strings.Join(details, ", ")

	case core.AlternateAxisPoint:
		return fmt.Sprintf("%s, %s", xFormat(p.X), yFormat(p.Y2))
	}

	return ""
}

func outlierDescription(x float64, outliers []float64, xFormat, yFormat core.FormatFunc) string {
	if len(outliers) == 0 {
		return fmt.Sprintf("%s, no outliers", xFormat(x))
	}
	values := lo.Map(outliers, func(v float64, _ int) string { return yFormat(v) })
	return strings.Join(append([]string{xFormat(x)}, values...), ", ")
}

func rangeDescription(x, high, low float64, outliers int, xFormat, yFormat core.FormatFunc) string {
	note := ""
	if outliers > 0 {
		note = fmt.Sprintf(", with %d outliers", outliers)
	}
	return fmt.Sprintf("%s, %s - %s%s", xFormat(x), yFormat(high), yFormat(low), note)
}

// WithGroup prefixes a description with its group label. Empty labels add nothing.
func WithGroup(label, description string) string {
	if label == "" {
		return description
	}
	return fmt.Sprintf("%s, %s", label, description)
}

// ChartOptions describe the chart as a whole
type ChartOptions struct {
	Title      string
	GroupCount int
	Live       bool
	Hierarchy  bool
}

// Chart composes the one sentence chart summary
func Chart(opts ChartOptions) string {
	text := []string{"Sonified"}

	if opts.Live {
		text = append(text, "live")
	}

	if opts.Hierarchy {
		text = append(text, "hierarchical")
	}

	text = append(text, "chart")

	if opts.GroupCount > 1 {
		text = append(text, fmt.Sprintf("with %d groups", opts.GroupCount))
	}

	if opts.Title != "" {
		text = append(text, fmt.Sprintf("titled %q", opts.Title))
	}

	return strings.Join(text, " ") + "."
}

var axisDescriptions = map[core.AxisName]string{
	core.AxisX:  "X",
	core.AxisY:  "Y",
	core.AxisY2: "Alternate Y",
}

// Axis composes the summary of one axis
func Axis(name core.AxisName, axis core.AxisData) string {
	format := axis.Format
	if format == nil {
		format = core.DefaultFormat
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is %q from %s to %s", axisDescriptions[name], axis.Label,
		format(axis.Minimum), format(axis.Maximum))
	if axis.Type == core.ScaleLog10 {
		b.WriteString(" logarithmic")
	}
	if name == core.AxisX && axis.Continuous {
		b.WriteString(" continuously")
	}
	b.WriteString(".")
	return b.String()
}

// InstructionOptions select which hints are part of the instructions
type InstructionOptions struct {
	Hierarchy bool
	Live      bool
	HasNotes  bool
}

// Instructions composes the keyboard hints spoken after the summary
func Instructions(opts InstructionOptions) string {
	keyboard := FilteredJoin([]string{
		"Use arrow keys to navigate.",
		lo.Ternary(opts.Hierarchy, "Use Alt + Up and Down to navigate between levels.", ""),
		lo.Ternary(opts.Live, "Press M to toggle monitor mode.", ""),
		"Press H for more hotkeys.",
	}, " ")

	info := []string{keyboard}
	if opts.HasNotes {
		info = append([]string{"Has notes."}, info...)
	}
	return strings.Join(info, " ")
}

// Speed composes the announcement of a speed change
func Speed(interval time.Duration) string {
	return fmt.Sprintf("Speed, %d", interval.Milliseconds())
}

// Stat composes the announcement of a newly selected statistic
func Stat(name string) string {
	if name == "" {
		return "All values"
	}
	return SentenceCase(name)
}

// SentenceCase upper-cases the first letter and lower-cases the rest
func SentenceCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// FilteredJoin joins the non-empty items
func FilteredJoin(items []string, sep string) string {
	return strings.Join(lo.Compact(items), sep)
}
