// Package metadata computes per-group aggregates used for navigation shortcuts and spoken
// summaries.
package metadata

import (
	"math"
	"sort"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats available on multi-valued shapes, in announcement order
var (
	OHLCStats    = []string{"open", "high", "low", "close"}
	BoxStats     = []string{"high", "q3", "median", "q1", "low", "outlier"}
	HighLowStats = []string{"high", "low"}
)

// Absent returns the sentinel record of an absent group
func Absent(index int) core.GroupMetadata {
	return core.GroupMetadata{
		Index:             index,
		MinimumPointIndex: -1,
		MaximumPointIndex: -1,
		MinimumValue:      math.NaN(),
		MaximumValue:      math.NaN(),
		AvailableStats:    []string{},
		StatIndex:         -1,
		InputType:         core.InputNone,
		Size:              0,
	}
}

// PrimaryValues returns the scalar values of a group whose shape has one value per point.
// Multi-valued shapes return nil.
func PrimaryValues(group core.Group) core.Series[float64] {
	switch group.Shape() {
	case core.ShapeSimple:
		return lo.Map(group.Points, func(p core.DataPoint, _ int) float64 {
			if simple, ok := p.(core.SimplePoint); ok {
				return simple.Y
			}
			return math.NaN()
		})
	case core.ShapeAlternateAxis:
		return lo.Map(group.Points, func(p core.DataPoint, _ int) float64 {
			if alternate, ok := p.(core.AlternateAxisPoint); ok {
				return alternate.Y2
			}
			return math.NaN()
		})
	}
	return nil
}

// AvailableStats returns the named sub-values that can be queried for a shape
func AvailableStats(shape core.Shape) []string {
	switch shape {
	case core.ShapeOHLC:
		return append([]string(nil), OHLCStats...)
	case core.ShapeBox:
		return append([]string(nil), BoxStats...)
	case core.ShapeHighLow:
		return append([]string(nil), HighLowStats...)
	}
	return []string{}
}

// ByGroup computes one metadata record per group, preserving order. Minimum and maximum
// indices point at the first occurrence of the extreme value.
func ByGroup(ds *core.DataSet) []core.GroupMetadata {
	result := make([]core.GroupMetadata, 0, ds.Len())
	for index, group := range ds.Groups {
		if group.Absent {
			result = append(result, Absent(index))
			continue
		}
		result = append(result, forGroup(index, group))
	}
	return result
}

func forGroup(index int, group core.Group) core.GroupMetadata {
	values := PrimaryValues(group)
	present := values.Filter(func(v float64) bool { return !math.IsNaN(v) })

	// -1 marks groups with nothing to compare, such as OHLC data
	min, max := -1.0, -1.0
	if len(present) > 0 {
		min, max = floats.Min(present), floats.Max(present)
	}

	inputType := core.InputUnknown
	if group.Len() > 0 {
		inputType = core.InputTypeOf(group.Shape())
	}

	return core.GroupMetadata{
		Index:             index,
		MinimumPointIndex: values.IndexOf(min),
		MaximumPointIndex: values.IndexOf(max),
		MinimumValue:      min,
		MaximumValue:      max,
		Tenths:            int(math.Round(float64(group.Len()) / 10)),
		AvailableStats:    AvailableStats(group.Shape()),
		StatIndex:         -1,
		InputType:         inputType,
		Size:              group.Len(),
	}
}

// CheckNumberInput marks groups that were supplied as bare numbers. This tells
// "no label available" apart from "structured label omitted".
func CheckNumberInput(meta []core.GroupMetadata, ds *core.DataSet) []core.GroupMetadata {
	for i := range meta {
		if i < ds.Len() && !ds.Groups[i].Absent && ds.Groups[i].NumericInput {
			meta[i].InputType = core.InputNumber
		}
	}
	return meta
}

// Calculate runs ByGroup followed by CheckNumberInput
func Calculate(ds *core.DataSet) []core.GroupMetadata {
	return CheckNumberInput(ByGroup(ds), ds)
}

// Summary holds descriptive statistics of a group's primary values
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
}

// Summarize computes descriptive statistics over the primary values of a group.
// Multi-valued groups are summarized over their axis midpoints.
func Summarize(group core.Group) Summary {
	values := PrimaryValues(group)
	if values == nil {
		values = lo.Map(group.Points, func(p core.DataPoint, _ int) float64 {
			return midpoint(p)
		})
	}

	data := values.Filter(func(v float64) bool { return !math.IsNaN(v) })
	if len(data) == 0 {
		return Summary{Mean: math.NaN(), StdDev: math.NaN(), Median: math.NaN()}
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	mean, stdDev := stat.MeanStdDev(sorted, nil)
	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: stdDev,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

func midpoint(p core.DataPoint) float64 {
	switch point := p.(type) {
	case core.OHLCPoint:
		return (point.High + point.Low) / 2
	case core.HighLowPoint:
		return (point.High + point.Low) / 2
	case core.BoxPoint:
		return point.Median
	}
	return math.NaN()
}
