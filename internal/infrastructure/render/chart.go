package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"TabularLoader/internal/config"
	"TabularLoader/internal/domain"
	"TabularLoader/internal/ports"
	"TabularLoader/internal/table"
)

const (
	defaultWidth  = 1024
	defaultHeight = 512
	barWidth      = 24
	barSpacing    = 8
	barMargin     = 160
	maxTicks      = 24
)

// ChartRenderer draws line and bar charts to PNG files.
type ChartRenderer struct {
	outputDir string
	width     int
	height    int
	logger    *slog.Logger
}

var _ ports.Renderer = (*ChartRenderer)(nil)

// NewChartRenderer writes charts into outputDir; non-positive sizes fall back to 1024x512.
func NewChartRenderer(outputDir string, width, height int, logger *slog.Logger) *ChartRenderer {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &ChartRenderer{outputDir: outputDir, width: width, height: height, logger: logger}
}

// Render plots spec.Y against spec.X and writes <outputDir>/<dataset>.png.
// Rows with an absent x or y contribute nothing to the chart.
func (r *ChartRenderer) Render(_ context.Context, tbl *table.Table, spec domain.PlotSpec) (string, error) {
	points, err := tbl.Points(spec.X, spec.Y)
	if err != nil {
		return "", fmt.Errorf("plot %s: %w", tbl.Name(), err)
	}
	if len(points) == 0 {
		return "", fmt.Errorf("plot %s: %w (x=%s, y=%s)", tbl.Name(), domain.ErrNothingToPlot, spec.X, spec.Y)
	}

	var buf bytes.Buffer
	if err := r.Draw(&buf, points, spec); err != nil {
		return "", fmt.Errorf("plot %s: %w", tbl.Name(), err)
	}

	path := config.ResolveOutputPath(r.outputDir, tbl.Name()+".png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("plot %s: create directory: %w", tbl.Name(), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("plot %s: write chart: %w", tbl.Name(), err)
	}

	if r.logger != nil {
		r.logger.Debug("chart rendered",
			slog.String("dataset", tbl.Name()),
			slog.String("kind", string(spec.Kind)),
			slog.Int("points", len(points)),
			slog.Int("skipped", tbl.Nrow()-len(points)),
			slog.String("path", path))
	}
	return path, nil
}

// Draw renders the points as a PNG into w.
func (r *ChartRenderer) Draw(w io.Writer, points []domain.Point, spec domain.PlotSpec) error {
	color, err := ParseColor(spec.Color)
	if err != nil {
		return err
	}

	switch spec.Kind {
	case domain.PlotLine, "":
		return r.drawLine(w, points, spec, color)
	case domain.PlotBar:
		return r.drawBar(w, points, spec, color)
	default:
		return fmt.Errorf("unsupported plot kind %q", spec.Kind)
	}
}

func (r *ChartRenderer) drawLine(w io.Writer, points []domain.Point, spec domain.PlotSpec, color drawing.Color) error {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	xAxis := chart.XAxis{Name: orDefault(spec.XLabel, spec.X)}
	if categorical(points) {
		xAxis.Ticks = categoryTicks(points)
	} else {
		xAxis.ValueFormatter = numberFormatter(xs)
	}
	if lo, hi := bounds(xs); lo == hi {
		xAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	yAxis := chart.YAxis{Name: orDefault(spec.YLabel, spec.Y)}
	if lo, hi := bounds(ys); lo == hi {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	graph := chart.Chart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    spec.Y,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}

func (r *ChartRenderer) drawBar(w io.Writer, points []domain.Point, spec domain.PlotSpec, color drawing.Color) error {
	style := chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1}
	bars := make([]chart.Value, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		bars = append(bars, chart.Value{Value: p.Y, Label: p.XLabel, Style: style})
		ys = append(ys, p.Y)
	}

	width := r.width
	if need := len(bars)*(barWidth+barSpacing) + barMargin; need > width {
		width = need
	}

	lo, hi := bounds(ys)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if lo == hi {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:        spec.Title,
		Width:        width,
		Height:       r.height,
		Background:   chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Name:  orDefault(spec.YLabel, spec.Y),
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

// categorical reports whether x positions are ordinals standing in for text labels.
func categorical(points []domain.Point) bool {
	for _, p := range points {
		if _, err := strconv.ParseFloat(p.XLabel, 64); err != nil {
			return true
		}
	}
	return false
}

func categoryTicks(points []domain.Point) []chart.Tick {
	step := 1
	if len(points) > maxTicks {
		step = int(math.Ceil(float64(len(points)) / maxTicks))
	}

	ticks := make([]chart.Tick, 0, len(points)/step+1)
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: points[i].X, Label: points[i].XLabel})
	}
	return ticks
}

func numberFormatter(values []float64) chart.ValueFormatter {
	integral := true
	for _, v := range values {
		if v != math.Trunc(v) {
			integral = false
			break
		}
	}

	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprint(v)
		}
		if integral {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
