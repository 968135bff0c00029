package core

// GroupMetadata holds per-group aggregates used for navigation shortcuts and summaries.
// Absent groups carry NaN values, -1 indices and an empty InputType.
type GroupMetadata struct {
	Index             int
	MinimumPointIndex int
	MaximumPointIndex int
	MinimumValue      float64
	MaximumValue      float64
	Tenths            int
	AvailableStats    []string
	StatIndex         int
	InputType         InputType
	Size              int
}

// IsAbsent reports whether the record describes an absent group
func (m GroupMetadata) IsAbsent() bool { return m.InputType == InputNone }
