package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoData       = errors.New("no data")
	ErrUnknownShape = errors.New("unknown data point shape")
)

// Shape identifies the structural variant of a data point
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeSimple
	ShapeAlternateAxis
	ShapeOHLC
	ShapeHighLow
	ShapeBox
)

func (s Shape) String() string {
	switch s {
	case ShapeSimple:
		return "simple"
	case ShapeAlternateAxis:
		return "alternate-axis"
	case ShapeOHLC:
		return "ohlc"
	case ShapeHighLow:
		return "high-low"
	case ShapeBox:
		return "box"
	default:
		return "unknown"
	}
}

// InputType is the detected type of the first entry of a group, as reported in GroupMetadata
type InputType string

const (
	InputNone          InputType = ""
	InputNumber        InputType = "number"
	InputSimple        InputType = "SimpleDataPoint"
	InputAlternateAxis InputType = "AlternativeAxisDataPoint"
	InputOHLC          InputType = "OHLCDataPoint"
	InputBox           InputType = "BoxDataPoint"
	InputHighLow       InputType = "HighLowDataPoint"
	InputUnknown       InputType = "unknown"
)

// InputTypeOf maps a shape to the input type reported for it
func InputTypeOf(s Shape) InputType {
	switch s {
	case ShapeSimple:
		return InputSimple
	case ShapeAlternateAxis:
		return InputAlternateAxis
	case ShapeOHLC:
		return InputOHLC
	case ShapeBox:
		return InputBox
	case ShapeHighLow:
		return InputHighLow
	default:
		return InputUnknown
	}
}

// DataPoint is a classified point. The set of implementations is closed.
type DataPoint interface {
	Shape() Shape
	GetX() float64
	isDataPoint()
}

// SimplePoint is a plain x/y pair with an optional label
type SimplePoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// AlternateAxisPoint plots its value against the alternate y axis
type AlternateAxisPoint struct {
	X  float64 `json:"x"`
	Y2 float64 `json:"y2"`
}

// OHLCPoint represents an open/high/low/close bar
type OHLCPoint struct {
	X     float64 `json:"x"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// HighLowPoint represents a range with optional outliers
type HighLowPoint struct {
	X       float64   `json:"x"`
	High    float64   `json:"high"`
	Low     float64   `json:"low"`
	Outlier []float64 `json:"outlier,omitempty"`
}

// BoxPoint represents a box-and-whisker summary
type BoxPoint struct {
	X       float64   `json:"x"`
	High    float64   `json:"high"`
	Q3      float64   `json:"q3"`
	Median  float64   `json:"median"`
	Q1      float64   `json:"q1"`
	Low     float64   `json:"low"`
	Outlier []float64 `json:"outlier"`
}

// UnknownPoint holds a record that matched no shape. It contributes to no axis.
type UnknownPoint struct {
	X float64 `json:"x"`
}

func (SimplePoint) Shape() Shape        { return ShapeSimple }
func (AlternateAxisPoint) Shape() Shape { return ShapeAlternateAxis }
func (OHLCPoint) Shape() Shape          { return ShapeOHLC }
func (HighLowPoint) Shape() Shape       { return ShapeHighLow }
func (BoxPoint) Shape() Shape           { return ShapeBox }
func (UnknownPoint) Shape() Shape       { return ShapeUnknown }

func (p SimplePoint) GetX() float64        { return p.X }
func (p AlternateAxisPoint) GetX() float64 { return p.X }
func (p OHLCPoint) GetX() float64          { return p.X }
func (p HighLowPoint) GetX() float64       { return p.X }
func (p BoxPoint) GetX() float64           { return p.X }
func (p UnknownPoint) GetX() float64       { return p.X }

func (SimplePoint) isDataPoint()        {}
func (AlternateAxisPoint) isDataPoint() {}
func (OHLCPoint) isDataPoint()          {}
func (HighLowPoint) isDataPoint()       {}
func (BoxPoint) isDataPoint()           {}
func (UnknownPoint) isDataPoint()       {}

// Stat returns the named sub-value of a multi-valued point
func (p OHLCPoint) Stat(name string) (float64, bool) {
	switch name {
	case "open":
		return p.Open, true
	case "high":
		return p.High, true
	case "low":
		return p.Low, true
	case "close":
		return p.Close, true
	}
	return math.NaN(), false
}

// Stat returns the named sub-value of a high/low point
func (p HighLowPoint) Stat(name string) (float64, bool) {
	switch name {
	case "high":
		return p.High, true
	case "low":
		return p.Low, true
	}
	return math.NaN(), false
}

// Stat returns the named sub-value of a box point
func (p BoxPoint) Stat(name string) (float64, bool) {
	switch name {
	case "high":
		return p.High, true
	case "q3":
		return p.Q3, true
	case "median":
		return p.Median, true
	case "q1":
		return p.Q1, true
	case "low":
		return p.Low, true
	}
	return math.NaN(), false
}

// RawPoint is an unclassified input record. Nil fields are absent; a nil Outlier is
// absent while an empty one is present. Scalar is set when the input was a bare number.
type RawPoint struct {
	Scalar  *float64  `json:"-"`
	X       *float64  `json:"x,omitempty"`
	Y       *float64  `json:"y,omitempty"`
	Y2      *float64  `json:"y2,omitempty"`
	Open    *float64  `json:"open,omitempty"`
	High    *float64  `json:"high,omitempty"`
	Low     *float64  `json:"low,omitempty"`
	Close   *float64  `json:"close,omitempty"`
	Q1      *float64  `json:"q1,omitempty"`
	Q3      *float64  `json:"q3,omitempty"`
	Median  *float64  `json:"median,omitempty"`
	Outlier []float64 `json:"outlier"`
	Label   *string   `json:"label,omitempty"`
}

// Number builds a scalar raw point
func Number(v float64) RawPoint { return RawPoint{Scalar: &v} }

// Float returns a pointer to v, for building raw points literally
func Float(v float64) *float64 { return &v }

// UnmarshalJSON accepts either a bare number or an object. null leaves an empty record,
// which classifies as unknown.
func (r *RawPoint) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = RawPoint{}
		return nil
	}

	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*r = RawPoint{Scalar: &scalar}
		return nil
	}

	type plain RawPoint
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode data point: %w", err)
	}
	*r = RawPoint(p)
	return nil
}

// MarshalJSON writes scalars back as bare numbers
func (r RawPoint) MarshalJSON() ([]byte, error) {
	if r.Scalar != nil {
		return json.Marshal(*r.Scalar)
	}
	type plain RawPoint
	return json.Marshal(plain(r))
}

func (r RawPoint) has(fields ...*float64) bool {
	for _, f := range fields {
		if f == nil {
			return false
		}
	}
	return true
}

// Classify returns the shape of a raw record. The order of checks matters: OHLC and box
// points also carry high/low, so they are tested before the weaker high/low shape.
func Classify(r RawPoint) Shape {
	if r.Scalar != nil {
		return ShapeSimple
	}
	if r.X == nil {
		return ShapeUnknown
	}

	switch {
	case r.has(r.Open, r.High, r.Low, r.Close):
		return ShapeOHLC
	case r.has(r.High, r.Low, r.Q3, r.Median, r.Q1) && r.Outlier != nil:
		return ShapeBox
	case r.has(r.High, r.Low):
		return ShapeHighLow
	case r.Y2 != nil:
		return ShapeAlternateAxis
	case r.Y != nil:
		return ShapeSimple
	}
	return ShapeUnknown
}

// NewPoint classifies a raw record and returns its typed variant. index is the position of
// the record in its group and becomes x for bare numbers.
func NewPoint(r RawPoint, index int) DataPoint {
	if r.Scalar != nil {
		return SimplePoint{X: float64(index), Y: *r.Scalar}
	}

	switch Classify(r) {
	case ShapeOHLC:
		return OHLCPoint{X: *r.X, Open: *r.Open, High: *r.High, Low: *r.Low, Close: *r.Close}
	case ShapeBox:
		return BoxPoint{
			X: *r.X, High: *r.High, Q3: *r.Q3, Median: *r.Median, Q1: *r.Q1, Low: *r.Low,
			Outlier: append([]float64{}, r.Outlier...),
		}
	case ShapeHighLow:
		return HighLowPoint{X: *r.X, High: *r.High, Low: *r.Low, Outlier: append([]float64(nil), r.Outlier...)}
	case ShapeAlternateAxis:
		return AlternateAxisPoint{X: *r.X, Y2: *r.Y2}
	case ShapeSimple:
		p := SimplePoint{X: *r.X, Y: *r.Y}
		if r.Label != nil {
			p.Label = *r.Label
		}
		return p
	}

	x := math.NaN()
	if r.X != nil {
		x = *r.X
	}
	return UnknownPoint{X: x}
}

// StrictPoint is like NewPoint but reports records that match no shape
func StrictPoint(r RawPoint, index int) (DataPoint, error) {
	p := NewPoint(r, index)
	if p.Shape() == ShapeUnknown {
		return nil, fmt.Errorf("point %d: %w", index, ErrUnknownShape)
	}
	return p, nil
}
