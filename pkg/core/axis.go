package core

import "strconv"

// AxisName identifies one of the chart axes
type AxisName string

const (
	AxisX  AxisName = "x"
	AxisY  AxisName = "y"
	AxisY2 AxisName = "y2"
)

// AxisScale is the scale kind used to map values into bins
type AxisScale string

const (
	ScaleLinear AxisScale = "linear"
	ScaleLog10  AxisScale = "log10"
)

// FormatFunc renders an axis value for announcement
type FormatFunc func(value float64) string

// DefaultFormat renders the shortest decimal representation of value
func DefaultFormat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// AxisData is the resolved, immutable description of an axis
type AxisData struct {
	Minimum    float64
	Maximum    float64
	Label      string
	Type       AxisScale
	Format     FormatFunc
	Continuous bool
}

// AxisOverride carries user supplied axis settings. Nil fields fall back to computed values.
type AxisOverride struct {
	Minimum     *float64   `mapstructure:"minimum" json:"minimum,omitempty"`
	Maximum     *float64   `mapstructure:"maximum" json:"maximum,omitempty"`
	Label       *string    `mapstructure:"label" json:"label,omitempty"`
	Type        AxisScale  `mapstructure:"type" json:"type,omitempty"`
	Format      FormatFunc `mapstructure:"-" json:"-"`
	ValueLabels []string   `mapstructure:"value_labels" json:"value_labels,omitempty"`
	Continuous  *bool      `mapstructure:"continuous" json:"continuous,omitempty"`
}
