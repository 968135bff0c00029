package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	t.Run("groups in first-seen order", func(t *testing.T) {
		groups, err := CSV(strings.NewReader(`group,x,y,label
snow,0,5,
rain,0,1,dry
snow,1,6,
rain,1,3,
`))
		require.NoError(t, err)
		require.Len(t, groups, 2)

		assert.Equal(t, "snow", groups[0].Label)
		assert.Equal(t, "rain", groups[1].Label)
		require.Len(t, groups[1].Points, 2)
		assert.Equal(t, 3.0, *groups[1].Points[1].Y)
		assert.Equal(t, "dry", *groups[1].Points[0].Label)
		assert.Nil(t, groups[0].Points[0].Label)

		ds, err := core.NewDataSet(groups...)
		require.NoError(t, err)
		assert.Equal(t, core.SimplePoint{X: 1, Y: 6}, ds.Point(0, 1))
	})

	t.Run("box plots", func(t *testing.T) {
		groups, err := CSV(strings.NewReader(`x,high,q3,median,q1,low,outlier
0,9,7,5,3,1,12;15
1,8,6,4,2,1,
`))
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "", groups[0].Label)

		first := core.NewPoint(groups[0].Points[0], 0)
		assert.Equal(t, core.ShapeBox, first.Shape())
		assert.Equal(t, []float64{12, 15}, first.(core.BoxPoint).Outlier)

		second := core.NewPoint(groups[0].Points[1], 1)
		assert.Equal(t, core.ShapeBox, second.Shape())
		assert.Empty(t, second.(core.BoxPoint).Outlier)
	})

	t.Run("ohlc", func(t *testing.T) {
		groups, err := CSV(strings.NewReader("X,Open,High,Low,Close\n0,2,4,1,3\n"))
		require.NoError(t, err)
		assert.Equal(t, core.OHLCPoint{X: 0, Open: 2, High: 4, Low: 1, Close: 3},
			core.NewPoint(groups[0].Points[0], 0))
	})

	t.Run("value column", func(t *testing.T) {
		groups, err := CSV(strings.NewReader("value\n4\n8\n"))
		require.NoError(t, err)
		assert.Equal(t, core.SimplePoint{X: 1, Y: 8}, core.NewPoint(groups[0].Points[1], 1))
	})

	t.Run("headerless numbers", func(t *testing.T) {
		groups, err := CSV(strings.NewReader("1,2\n3\n\n"))
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Points, 3)
		assert.Equal(t, 3.0, *groups[0].Points[2].Scalar)
	})

	t.Run("missing value column", func(t *testing.T) {
		_, err := CSV(strings.NewReader("group,x\na,1\n"))
		require.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := CSV(strings.NewReader("x,y\n0,abc\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := CSV(strings.NewReader(""))
		require.ErrorIs(t, err, core.ErrNoData)

		_, err = CSV(strings.NewReader("x,y\n"))
		require.ErrorIs(t, err, core.ErrNoData)
	})
}

func TestJSON(t *testing.T) {
	t.Run("numbers", func(t *testing.T) {
		groups, err := JSON(strings.NewReader(`[3, 1, 2]`))
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, 1.0, *groups[0].Points[1].Scalar)
	})

	t.Run("null points are unknown", func(t *testing.T) {
		groups, err := JSON(strings.NewReader(`[1, null, 3]`))
		require.NoError(t, err)
		require.Len(t, groups[0].Points, 3)
		assert.Nil(t, groups[0].Points[1].Scalar)

		ds, err := core.NewDataSet(groups...)
		require.NoError(t, err)
		assert.Equal(t, core.ShapeUnknown, ds.Groups[0].Points[1].Shape())
		assert.Equal(t, core.SimplePoint{X: 2, Y: 3}, ds.Groups[0].Points[2])
	})

	t.Run("points", func(t *testing.T) {
		groups, err := JSON(strings.NewReader(`[{"x": 0, "y2": 4}, {"x": 1, "y2": 5}]`))
		require.NoError(t, err)
		assert.Equal(t, core.AlternateAxisPoint{X: 1, Y2: 5}, core.NewPoint(groups[0].Points[1], 1))
	})

	t.Run("labeled groups keep document order", func(t *testing.T) {
		groups, err := JSON(strings.NewReader(`{"zeta": [1, 2], "gone": null, "alpha": []}`))
		require.NoError(t, err)
		require.Len(t, groups, 3)

		assert.Equal(t, []string{"zeta", "gone", "alpha"}, []string{groups[0].Label, groups[1].Label, groups[2].Label})
		assert.Nil(t, groups[1].Points)
		assert.NotNil(t, groups[2].Points)
		assert.Empty(t, groups[2].Points)
	})

	t.Run("group records", func(t *testing.T) {
		groups, err := JSON(strings.NewReader(`[{"label": "a", "points": [1]}, {"label": "b", "points": null}]`))
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "b", groups[1].Label)
		assert.Nil(t, groups[1].Points)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := JSON(strings.NewReader(`"text"`))
		require.ErrorIs(t, err, ErrUnsupportedFormat)

		_, err = JSON(strings.NewReader(`  `))
		require.ErrorIs(t, err, core.ErrNoData)
	})
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y\n0,1\n"), 0o600))
	groups, err := File(csvPath)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	jsonPath := filepath.Join(dir, "data.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte("[1]"), 0o600))
	_, err = File(jsonPath)
	require.NoError(t, err)

	txtPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("1"), 0o600))
	_, err = File(txtPath)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
