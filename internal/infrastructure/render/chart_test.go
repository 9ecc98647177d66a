package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/table"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTable(t *testing.T, name string, records [][]string) *table.Table {
	t.Helper()

	df := dataframe.LoadRecords(records, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	tbl, err := table.New(name, df)
	require.NoError(t, err)
	return tbl
}

func TestDrawLineAndBar(t *testing.T) {
	t.Parallel()

	points := []domain.Point{
		{Row: 0, X: 1973, XLabel: "1973", Y: 330.1},
		{Row: 1, X: 1974, XLabel: "1974", Y: 331.4},
		{Row: 2, X: 1975, XLabel: "1975", Y: 332.0},
	}
	r := NewChartRenderer(t.TempDir(), 0, 0, nil)

	for _, kind := range []domain.PlotKind{domain.PlotLine, domain.PlotBar} {
		var buf bytes.Buffer
		err := r.Draw(&buf, points, domain.PlotSpec{X: "year", Y: "value", Kind: kind, Color: "purple"})
		require.NoError(t, err, kind)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature), kind)
	}

	var buf bytes.Buffer
	err := r.Draw(&buf, points, domain.PlotSpec{X: "year", Y: "value", Kind: "pie"})
	assert.Error(t, err)

	err = r.Draw(&buf, points, domain.PlotSpec{X: "year", Y: "value", Color: "not-a-color"})
	assert.Error(t, err)
}

func TestRenderWritesChart(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, "precip", [][]string{
		{"months", "precip"},
		{"Jan", "0.70"},
		{"Feb", "NaN"},
		{"Mar", "1.85"},
		{"Apr", "2.93"},
	})

	dir := t.TempDir()
	r := NewChartRenderer(dir, 640, 360, nil)

	path, err := r.Render(context.Background(), tbl, domain.PlotSpec{
		X:     "months",
		Y:     "precip",
		Kind:  domain.PlotBar,
		Color: "#1f77b4",
		Title: "Average monthly precipitation",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "precip.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestRenderNothingToPlot(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, "empty", [][]string{
		{"year", "value"},
		{"1973", "NaN"},
		{"1974", "NaN"},
	})

	r := NewChartRenderer(t.TempDir(), 0, 0, nil)
	_, err := r.Render(context.Background(), tbl, domain.PlotSpec{X: "year", Y: "value"})
	assert.True(t, errors.Is(err, domain.ErrNothingToPlot), "got %v", err)

	_, err = r.Render(context.Background(), tbl, domain.PlotSpec{X: "year", Y: "missing"})
	assert.True(t, errors.Is(err, domain.ErrUnknownColumn), "got %v", err)
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		r, g, b uint8
		wantErr bool
	}{
		{in: "", r: 0x1f, g: 0x77, b: 0xb4},
		{in: "purple", r: 0x80, g: 0x00, b: 0x80},
		{in: " Red ", r: 0xff},
		{in: "#00ff00", g: 0xff},
		{in: "4682b4", r: 0x46, g: 0x82, b: 0xb4},
		{in: "#fff", r: 0xff, g: 0xff, b: 0xff},
		{in: "chartreuse-ish", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}

	for _, tc := range tests {
		c, err := ParseColor(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, [3]uint8{tc.r, tc.g, tc.b}, [3]uint8{c.R, c.G, c.B}, tc.in)
		assert.Equal(t, uint8(255), c.A, tc.in)
	}
}

func TestCategoryTicks(t *testing.T) {
	t.Parallel()

	points := make([]domain.Point, 60)
	for i := range points {
		points[i] = domain.Point{Row: i, X: float64(i), XLabel: "m" + string(rune('a'+i%26)), Y: 1}
	}

	assert.True(t, categorical(points))
	ticks := categoryTicks(points)
	assert.LessOrEqual(t, len(ticks), maxTicks)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "ma", ticks[0].Label)

	numeric := []domain.Point{{X: 1.5, XLabel: "1.5"}, {X: 2, XLabel: "2"}}
	assert.False(t, categorical(numeric))
}
