// Package axis computes axis extrema across heterogeneous data points and resolves the
// final axis description from user overrides.
package axis

import (
	"errors"
	"fmt"
	"math"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidLogAxis = errors.New("log10 axis requires positive bounds")
	ErrInvertedAxis   = errors.New("axis minimum is greater than maximum")
)

// AllGroups scans every present group
const AllGroups = -1

// Kind selects which extremum to compute
type Kind int

const (
	Min Kind = iota
	Max
)

func (k Kind) pick(values ...float64) float64 {
	if k == Min {
		return floats.Min(values)
	}
	return floats.Max(values)
}

// Value extracts the scalar a point contributes to the named axis. Points whose shape does
// not support the axis return NaN. Multi-valued points contribute their smallest or largest
// sub-value depending on kind.
func Value(point core.DataPoint, name core.AxisName, kind Kind) float64 {
	if name == core.AxisX {
		if point.Shape() == core.ShapeUnknown {
			return math.NaN()
		}
		return point.GetX()
	}

	switch p := point.(type) {
	case core.SimplePoint:
		if name == core.AxisY {
			return p.Y
		}
	case core.AlternateAxisPoint:
		if name == core.AxisY2 {
			return p.Y2
		}
	case core.OHLCPoint:
		if name == core.AxisY {
			return kind.pick(p.Open, p.High, p.Low, p.Close)
		}
	case core.HighLowPoint:
		if name == core.AxisY {
			return kind.pick(p.High, p.Low)
		}
	case core.BoxPoint:
		if name == core.AxisY {
			return kind.pick(p.High, p.Low)
		}
	}
	return math.NaN()
}

// points returns the points to scan: every present group, or only the filtered one when
// groupFilter is a valid group index
func points(ds *core.DataSet, groupFilter int) []core.DataPoint {
	if groupFilter >= 0 && groupFilter < ds.Len() {
		return ds.Groups[groupFilter].Points
	}
	return lo.FlatMap(ds.Present(), func(g core.Group, _ int) []core.DataPoint {
		return g.Points
	})
}

// Values returns every contributed value of the named axis, NaNs removed
func Values(ds *core.DataSet, name core.AxisName, kind Kind, groupFilter int) []float64 {
	values := lo.Map(points(ds, groupFilter), func(p core.DataPoint, _ int) float64 {
		return Value(p, name, kind)
	})
	return lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v)
	})
}

// Extremum returns the minimum or maximum of the named axis, or NaN when no point
// contributes a value. NaN means undetermined, not zero.
func Extremum(ds *core.DataSet, name core.AxisName, kind Kind, groupFilter int) float64 {
	values := Values(ds, name, kind, groupFilter)
	if len(values) == 0 {
		return math.NaN()
	}
	return kind.pick(values...)
}

// Minimum returns the smallest value of the named axis
func Minimum(ds *core.DataSet, name core.AxisName, groupFilter int) float64 {
	return Extremum(ds, name, Min, groupFilter)
}

// Maximum returns the largest value of the named axis
func Maximum(ds *core.DataSet, name core.AxisName, groupFilter int) float64 {
	return Extremum(ds, name, Max, groupFilter)
}

// UsesAxis reports whether any point of the data set plots against the named axis
func UsesAxis(ds *core.DataSet, name core.AxisName) bool {
	return lo.SomeBy(ds.Present(), func(g core.Group) bool {
		return lo.SomeBy(g.Points, func(p core.DataPoint) bool {
			return !math.IsNaN(Value(p, name, Min))
		})
	})
}

// Initialize merges user overrides with the computed extrema of the named axis.
// Overrides may be nil.
func Initialize(ds *core.DataSet, name core.AxisName, override *core.AxisOverride, groupFilter int) (core.AxisData, error) {
	if override == nil {
		override = &core.AxisOverride{}
	}

	axis := core.AxisData{
		Type:   lo.Ternary(override.Type == "", core.ScaleLinear, override.Type),
		Format: resolveFormat(override),
	}

	if override.Minimum != nil {
		axis.Minimum = *override.Minimum
	} else {
		axis.Minimum = Minimum(ds, name, groupFilter)
	}

	if override.Maximum != nil {
		axis.Maximum = *override.Maximum
	} else {
		axis.Maximum = Maximum(ds, name, groupFilter)
	}

	if override.Label != nil {
		axis.Label = *override.Label
	}

	if override.Continuous != nil {
		axis.Continuous = *override.Continuous
	}

	if err := validate(axis); err != nil {
		return core.AxisData{}, fmt.Errorf("axis %s: %w", name, err)
	}

	return axis, nil
}

func validate(axis core.AxisData) error {
	switch axis.Type {
	case core.ScaleLinear:
	case core.ScaleLog10:
		if !(axis.Minimum > 0) || !(axis.Maximum > 0) {
			return fmt.Errorf("%w: minimum %v, maximum %v", ErrInvalidLogAxis, axis.Minimum, axis.Maximum)
		}
	default:
		return fmt.Errorf("unsupported scale %q", axis.Type)
	}

	if axis.Minimum > axis.Maximum {
		return fmt.Errorf("%w: %v > %v", ErrInvertedAxis, axis.Minimum, axis.Maximum)
	}
	return nil
}

func resolveFormat(override *core.AxisOverride) core.FormatFunc {
	if override.Format != nil {
		return override.Format
	}

	if len(override.ValueLabels) > 0 {
		labels := append([]string(nil), override.ValueLabels...)
		return func(value float64) string {
			index := int(math.Round(value))
			if index < 0 || index >= len(labels) || math.IsNaN(value) {
				return core.DefaultFormat(value)
			}
			return labels[index]
		}
	}

	return core.DefaultFormat
}

// FormatWrapper formats values for announcement, flagging missing and out of range values
func FormatWrapper(axis core.AxisData) core.FormatFunc {
	return func(value float64) string {
		switch {
		case math.IsNaN(value):
			return "missing"
		case value < axis.Minimum:
			return "too low"
		case value > axis.Maximum:
			return "too high"
		}
		return axis.Format(value)
	}
}

// IsUnplayable reports whether a value cannot be rendered as a tone on the axis
func IsUnplayable(value float64, axis core.AxisData) bool {
	return math.IsNaN(value) || value < axis.Minimum || value > axis.Maximum
}
