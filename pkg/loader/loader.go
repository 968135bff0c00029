// Package loader reads data sets from CSV and JSON documents into group inputs.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/StudioSol/set"
	"github.com/raykavin/sonify/pkg/core"
	"github.com/samber/lo"
)

var (
	ErrMissingColumn     = errors.New("missing value column")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Column names understood by the CSV reader
const (
	ColumnGroup   = "group"
	ColumnValue   = "value"
	ColumnLabel   = "label"
	ColumnOutlier = "outlier"
)

// OutlierSeparator splits the outliers of one CSV cell
const OutlierSeparator = ";"

// valueColumns are the columns that can carry a y value. At least one is required.
var valueColumns = []string{ColumnValue, "y", "y2", "open", "high"}

// File loads a data set, choosing the format by extension
func File(path string) ([]core.GroupInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV(f)
	case ".json":
		return JSON(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// CSV reads a data set from comma separated values. A header row names the columns
// (group, x, y, y2, open, high, low, close, q1, q3, median, outlier, label, value).
// Rows are grouped by the group column in first-seen order. Files without a header are
// read as bare numbers forming a single unlabeled group.
func CSV(r io.Reader) ([]core.GroupInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	lines = lo.Filter(lines, func(line []string, _ int) bool {
		return len(lo.Compact(line)) > 0
	})
	if len(lines) == 0 {
		return nil, core.ErrNoData
	}

	headers, ok := parseHeaders(lines[0])
	if !ok {
		return numbers(lines)
	}

	hasValue := lo.SomeBy(valueColumns, func(column string) bool {
		_, found := headers[column]
		return found
	})
	if !hasValue {
		return nil, fmt.Errorf("%w: need one of %s", ErrMissingColumn, strings.Join(valueColumns, ", "))
	}

	order := set.NewLinkedHashSetString()
	points := make(map[string][]core.RawPoint)
	for row, line := range lines[1:] {
		point, err := parseLine(line, headers)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row+2, err)
		}

		group := cell(line, headers, ColumnGroup)
		order.Add(group)
		points[group] = append(points[group], point)
	}

	if len(points) == 0 {
		return nil, core.ErrNoData
	}

	groups := make([]core.GroupInput, 0, len(points))
	for label := range order.Iter() {
		groups = append(groups, core.GroupInput{Label: label, Points: points[label]})
	}
	return groups, nil
}

// parseHeaders maps column names to indices. The first row is not a header when its
// first cell is a number.
func parseHeaders(row []string) (map[string]int, bool) {
	if _, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err == nil {
		return nil, false
	}

	names := lo.Map(row, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
	headers := make(map[string]int, len(names))
	for index, name := range names {
		headers[name] = index
	}
	return headers, true
}

func cell(line []string, headers map[string]int, column string) string {
	index, ok := headers[column]
	if !ok || index >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[index])
}

func parseFloat(line []string, headers map[string]int, column string) (*float64, error) {
	raw := cell(line, headers, column)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", column, err)
	}
	return &value, nil
}

func parseLine(line []string, headers map[string]int) (core.RawPoint, error) {
	if _, ok := headers[ColumnValue]; ok {
		value, err := parseFloat(line, headers, ColumnValue)
		if err != nil {
			return core.RawPoint{}, err
		}
		if value != nil {
			return core.Number(*value), nil
		}
	}

	var point core.RawPoint
	fields := map[string]**float64{
		"x": &point.X, "y": &point.Y, "y2": &point.Y2,
		"open": &point.Open, "high": &point.High, "low": &point.Low, "close": &point.Close,
		"q1": &point.Q1, "q3": &point.Q3, "median": &point.Median,
	}
	for column, field := range fields {
		value, err := parseFloat(line, headers, column)
		if err != nil {
			return core.RawPoint{}, err
		}
		*field = value
	}

	if _, ok := headers[ColumnOutlier]; ok {
		outliers, err := parseOutliers(cell(line, headers, ColumnOutlier))
		if err != nil {
			return core.RawPoint{}, err
		}
		point.Outlier = outliers
	}

	if label := cell(line, headers, ColumnLabel); label != "" {
		point.Label = &label
	}

	return point, nil
}

// parseOutliers reads a separated list. An empty cell is an empty, present list.
func parseOutliers(raw string) ([]float64, error) {
	parts := lo.Compact(lo.Map(strings.Split(raw, OutlierSeparator), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))

	outliers := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", ColumnOutlier, err)
		}
		outliers = append(outliers, value)
	}
	return outliers, nil
}

func numbers(lines [][]string) ([]core.GroupInput, error) {
	values := make([]float64, 0, len(lines))
	for row, line := range lines {
		for _, raw := range lo.Compact(line) {
			value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", row+1, err)
			}
			values = append(values, value)
		}
	}
	return []core.GroupInput{core.FromNumbers(values...)}, nil
}
