package core

// GroupInput is one labeled series as supplied by the caller. A nil Points slice marks a
// deliberately absent group.
type GroupInput struct {
	Label  string     `json:"label"`
	Points []RawPoint `json:"points"`
}

// Group is an ordered, classified series of points sharing a label
type Group struct {
	Label  string
	Points []DataPoint
	Absent bool

	// NumericInput reports that the group was supplied as bare numbers
	NumericInput bool
}

// Len returns the number of points in the group
func (g Group) Len() int { return len(g.Points) }

// Shape returns the shape of the group's first point
func (g Group) Shape() Shape {
	if len(g.Points) == 0 {
		return ShapeUnknown
	}
	return g.Points[0].Shape()
}

// DataSet is an ordered sequence of groups
type DataSet struct {
	Groups []Group
}

// NewDataSet classifies every group input. Caller records are copied, never retained.
func NewDataSet(inputs ...GroupInput) (*DataSet, error) {
	if len(inputs) == 0 {
		return nil, ErrNoData
	}

	ds := &DataSet{Groups: make([]Group, 0, len(inputs))}
	hasPoints := false
	for _, input := range inputs {
		group := NewGroup(input)
		if group.Len() > 0 {
			hasPoints = true
		}
		ds.Groups = append(ds.Groups, group)
	}

	if !hasPoints {
		return nil, ErrNoData
	}

	return ds, nil
}

// NewGroup classifies a single group input
func NewGroup(input GroupInput) Group {
	if input.Points == nil {
		return Group{Label: input.Label, Absent: true}
	}

	group := Group{
		Label:        input.Label,
		Points:       make([]DataPoint, 0, len(input.Points)),
		NumericInput: len(input.Points) > 0 && input.Points[0].Scalar != nil,
	}
	for i, raw := range input.Points {
		group.Points = append(group.Points, NewPoint(raw, i))
	}
	return group
}

// FromNumbers builds a single unlabeled group out of bare numbers
func FromNumbers(values ...float64) GroupInput {
	points := make([]RawPoint, 0, len(values))
	for _, v := range values {
		points = append(points, Number(v))
	}
	return GroupInput{Points: points}
}

// Len returns the number of groups
func (d *DataSet) Len() int { return len(d.Groups) }

// Labels returns every group label in order
func (d *DataSet) Labels() []string {
	labels := make([]string, 0, len(d.Groups))
	for _, g := range d.Groups {
		labels = append(labels, g.Label)
	}
	return labels
}

// Sizes returns the point count of every group; absent groups report zero
func (d *DataSet) Sizes() []int {
	sizes := make([]int, 0, len(d.Groups))
	for _, g := range d.Groups {
		sizes = append(sizes, g.Len())
	}
	return sizes
}

// Point returns the point at the given position or nil when out of range
func (d *DataSet) Point(group, index int) DataPoint {
	if group < 0 || group >= len(d.Groups) {
		return nil
	}
	points := d.Groups[group].Points
	if index < 0 || index >= len(points) {
		return nil
	}
	return points[index]
}

// Present returns the non-absent groups
func (d *DataSet) Present() []Group {
	groups := make([]Group, 0, len(d.Groups))
	for _, g := range d.Groups {
		if !g.Absent {
			groups = append(groups, g)
		}
	}
	return groups
}
