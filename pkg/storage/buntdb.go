// Package storage keeps a library of named data sets in BuntDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/tidwall/buntdb"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrInvalidName     = errors.New("invalid dataset name")
)

const (
	keyPrefix   = "dataset:"
	updateIndex = "update_index"
)

// Record is the stored form of a data set
type Record struct {
	Name      string            `json:"name"`
	Groups    []core.GroupInput `json:"groups"`
	UpdatedAt int64             `json:"updated_at"`
}

// Points returns the number of points over every group
func (r Record) Points() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Points)
	}
	return total
}

// BuntStorage implements core.DatasetStorage using BuntDB
type BuntStorage struct {
	db  *buntdb.DB
	now func() time.Time
}

var _ core.DatasetStorage = (*BuntStorage)(nil)

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage opens a BuntDB database and indexes data sets by update time
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(updateIndex, keyPrefix+"*", buntdb.IndexJSON("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntStorage{db: db, now: time.Now}, nil
}

func key(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "*?") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return keyPrefix + name, nil
}

// SaveDataset stores groups under name, replacing any previous version
func (b *BuntStorage) SaveDataset(name string, groups []core.GroupInput) error {
	k, err := key(name)
	if err != nil {
		return err
	}

	content, err := json.Marshal(Record{
		Name:      strings.TrimSpace(name),
		Groups:    groups,
		UpdatedAt: b.now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(k, string(content), nil); err != nil {
			return fmt.Errorf("failed to store dataset: %w", err)
		}
		return nil
	})
}

// Record returns the stored record of a data set
func (b *BuntStorage) Record(name string) (Record, error) {
	k, err := key(name)
	if err != nil {
		return Record{}, err
	}

	var record Record
	err = b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(k)
		if errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(value), &record)
	})
	return record, err
}

// Dataset returns the groups stored under name
func (b *BuntStorage) Dataset(name string) ([]core.GroupInput, error) {
	record, err := b.Record(name)
	if err != nil {
		return nil, err
	}
	return record.Groups, nil
}

// Records returns every stored data set, most recently updated first
func (b *BuntStorage) Records() ([]Record, error) {
	records := make([]Record, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.Descend(updateIndex, func(k, value string) bool {
			var record Record
			if err := json.Unmarshal([]byte(value), &record); err != nil {
				decodeErr = fmt.Errorf("failed to unmarshal %s: %w", k, err)
				return false
			}
			records = append(records, record)
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over datasets: %w", err)
		}
		return decodeErr
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}

// Datasets returns the names of every stored data set, most recently updated first
func (b *BuntStorage) Datasets() ([]string, error) {
	records, err := b.Records()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names, nil
}

// DeleteDataset removes a data set
func (b *BuntStorage) DeleteDataset(name string) error {
	k, err := key(name)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(k)
		if errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		return err
	})
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
