package table

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TabularLoader/internal/domain"
)

func newTestTable(t *testing.T, records [][]string) *Table {
	t.Helper()

	df := dataframe.LoadRecords(records, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	tbl, err := New("test", df)
	require.NoError(t, err)
	return tbl
}

func TestSummary(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"months", "precip"},
		{"Jan", "0.70"},
		{"Feb", "NaN"},
		{"Mar", "1.50"},
	})

	summary := tbl.Summary()
	assert.Equal(t, "test", summary.Name)
	assert.Equal(t, 3, summary.Rows)
	require.Len(t, summary.Columns, 2)

	assert.Equal(t, domain.ColumnSummary{Index: 0, Name: "months", NonAbsent: 3, Type: "string"}, summary.Columns[0])
	assert.Equal(t, domain.ColumnSummary{Index: 1, Name: "precip", NonAbsent: 2, Type: "float"}, summary.Columns[1])
}

func TestPointsSkipAbsentRows(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"year", "value"},
		{"1973", "NaN"},
		{"1974", "12.3"},
		{"NaN", "4"},
		{"1976", "7.5"},
	})

	points, err := tbl.Points("year", "value")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, domain.Point{Row: 1, X: 1974, XLabel: "1974", Y: 12.3}, points[0])
	assert.Equal(t, domain.Point{Row: 3, X: 1976, XLabel: "1976", Y: 7.5}, points[1])
}

func TestPointsCategoricalX(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"months", "precip"},
		{"Jan", "0.70"},
		{"Feb", "NaN"},
		{"Mar", "1.5"},
	})

	points, err := tbl.Points("months", "precip")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, 0.0, points[0].X)
	assert.Equal(t, "Jan", points[0].XLabel)
	assert.Equal(t, 1.0, points[1].X)
	assert.Equal(t, "Mar", points[1].XLabel)
	assert.Equal(t, 2, points[1].Row)
}

func TestPointsErrors(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"months", "precip"},
		{"Jan", "0.70"},
	})

	_, err := tbl.Points("months", "missing")
	assert.True(t, errors.Is(err, domain.ErrUnknownColumn))

	_, err = tbl.Points("precip", "months")
	assert.Error(t, err)
}

func TestCellAccessors(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"site_code", "year", "value"},
		{"BRW", "1973", "NaN"},
		{"BRW", "1974", "12.3"},
	})

	absent, err := tbl.IsAbsent(0, "value")
	require.NoError(t, err)
	assert.True(t, absent)

	v, present, err := tbl.Float(1, "value")
	require.NoError(t, err)
	assert.True(t, present)
	assert.InDelta(t, 12.3, v, 1e-9)

	_, present, err = tbl.Float(0, "value")
	require.NoError(t, err)
	assert.False(t, present)

	s, present, err := tbl.String(0, "site_code")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "BRW", s)

	year, err := tbl.Value(1, "year")
	require.NoError(t, err)
	assert.Equal(t, 1974, year)

	missing, err := tbl.Value(0, "value")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = tbl.IsAbsent(5, "value")
	assert.Error(t, err)
}

func TestRenameAndSelect(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"Date", "Value", "Anomaly"},
		{"189512", "75.2", "-1.3"},
	})

	require.NoError(t, tbl.Rename("Value", "tmax"))
	require.NoError(t, tbl.Select("Date", "tmax"))
	assert.Equal(t, []string{"Date", "tmax"}, tbl.Names())
	assert.Equal(t, 2, tbl.Ncol())

	err := tbl.Rename("Anomaly", "x")
	assert.True(t, errors.Is(err, domain.ErrUnknownColumn))
}

func TestRenameRejectsTakenName(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"a", "b"},
		{"1", "2"},
	})

	err := tbl.Rename("a", "b")
	assert.True(t, errors.Is(err, domain.ErrDuplicateColumn), "got %v", err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())

	require.NoError(t, tbl.Rename("a", "a"))
	require.NoError(t, tbl.Rename("a", "c"))
	assert.Equal(t, []string{"c", "b"}, tbl.Names())
}

func TestPointsAllAbsentY(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [][]string{
		{"year", "value"},
		{"1973", "NaN"},
		{"1974", "NaN"},
	})

	points, err := tbl.Points("year", "value")
	require.NoError(t, err)
	assert.Empty(t, points)
}
