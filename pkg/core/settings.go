package core

import "time"

// Settings represents the construction-time configuration of an engine
type Settings struct {
	Title      string        // Chart title used in the summary
	X          *AxisOverride // X axis overrides
	Y          *AxisOverride // Y axis overrides
	Y2         *AxisOverride // Alternate Y axis overrides
	Speeds     []time.Duration
	SpeedIndex int // Initial index into Speeds

	Live                    bool // Announce the chart as live
	Hierarchy               bool // Announce the chart as hierarchical
	AnnouncePointLabelFirst bool // Speak point labels before the values
}

// Axis returns the override for the named axis
func (s Settings) Axis(name AxisName) *AxisOverride {
	switch name {
	case AxisX:
		return s.X
	case AxisY:
		return s.Y
	case AxisY2:
		return s.Y2
	}
	return nil
}
