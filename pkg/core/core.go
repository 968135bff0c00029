package core

import "time"

// ToneRenderer synthesizes a tone for a discrete pitch bin at a stereo position
type ToneRenderer interface {
	EmitTone(bin int, pan float64, duration time.Duration)
}

// Announcer delivers composed text to assistive technology
type Announcer interface {
	Announce(text string)
}

// PointCallback is invoked whenever a point is emitted
type PointCallback func(group, index int, point DataPoint)

// DatasetStorage persists named data sets
type DatasetStorage interface {
	SaveDataset(name string, groups []GroupInput) error
	Dataset(name string) ([]GroupInput, error)
	Datasets() ([]string, error)
	DeleteDataset(name string) error
}
