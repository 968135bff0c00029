package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/raykavin/sonify/pkg/core"
)

// JSON reads a data set in one of three layouts:
//
//	[1, 2, 3]                              bare numbers, one unlabeled group
//	[{"x": 0, "y": 1}, ...]                points, one unlabeled group
//	{"rain": [...], "snow": null, ...}     labeled groups in document order; null is absent
//
// A list of {"label": ..., "points": [...]} objects, as written by the storage layer, is
// accepted too.
func JSON(r io.Reader) ([]core.GroupInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, core.ErrNoData
	}

	switch data[0] {
	case '{':
		return labeledGroups(data)
	case '[':
		return list(data)
	}
	return nil, fmt.Errorf("%w: expected a JSON array or object", ErrUnsupportedFormat)
}

func list(data []byte) ([]core.GroupInput, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode data set: %w", err)
	}

	if len(items) > 0 && isGroupRecord(items[0]) {
		var groups []core.GroupInput
		if err := json.Unmarshal(data, &groups); err != nil {
			return nil, fmt.Errorf("decode groups: %w", err)
		}
		return groups, nil
	}

	var points []core.RawPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	return []core.GroupInput{{Points: points}}, nil
}

func isGroupRecord(item json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return false
	}
	_, ok := fields["points"]
	return ok
}

// labeledGroups decodes an object token by token so that group order follows the document
func labeledGroups(data []byte) ([]core.GroupInput, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}

	var groups []core.GroupInput
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("decode groups: %w", err)
		}

		label, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("decode groups: unexpected token %v", token)
		}

		var points []core.RawPoint
		if err := decoder.Decode(&points); err != nil {
			return nil, fmt.Errorf("group %q: %w", label, err)
		}
		groups = append(groups, core.GroupInput{Label: label, Points: points})
	}
	return groups, nil
}
