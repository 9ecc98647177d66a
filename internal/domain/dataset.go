package domain

import (
	"fmt"
	"strings"
)

// Delimiter names the field separator of a delimited text resource.
type Delimiter string

const (
	DelimiterComma      Delimiter = "comma"
	DelimiterTab        Delimiter = "tab"
	DelimiterSpace      Delimiter = "space"
	DelimiterWhitespace Delimiter = "whitespace"
	DelimiterSemicolon  Delimiter = "semicolon"
	DelimiterPipe       Delimiter = "pipe"
)

// Rune returns the single-character separator; whitespace has none.
func (d Delimiter) Rune() (rune, bool) {
	switch d {
	case "", DelimiterComma:
		return ',', true
	case DelimiterTab:
		return '\t', true
	case DelimiterSpace:
		return ' ', true
	case DelimiterSemicolon:
		return ';', true
	case DelimiterPipe:
		return '|', true
	default:
		return 0, false
	}
}

// PlotKind enumerates supported chart types.
type PlotKind string

const (
	PlotLine PlotKind = "line"
	PlotBar  PlotKind = "bar"
)

// ParsePlotKind maps a config string onto the closed set of kinds; empty means line.
func ParsePlotKind(value string) (PlotKind, error) {
	switch PlotKind(strings.ToLower(strings.TrimSpace(value))) {
	case "", PlotLine:
		return PlotLine, nil
	case PlotBar:
		return PlotBar, nil
	default:
		return "", fmt.Errorf("unsupported plot kind %q", value)
	}
}

// ParseOptions controls how raw text becomes a table.
// A line whose first non-blank character is Comment is ignored for every
// delimiter; a zero Comment disables comment lines.
type ParseOptions struct {
	SkipRows      int
	MissingValues []string
	Delimiter     Delimiter
	Comment       rune
}

// PlotSpec selects two columns and the presentation of the chart.
type PlotSpec struct {
	X      string
	Y      string
	Kind   PlotKind
	Color  string
	Title  string
	XLabel string
	YLabel string
}

// Dataset is one unit of work: fetch, clean, inspect, optionally export and plot.
type Dataset struct {
	Name   string
	URL    string
	Format ParseOptions
	Rename map[string]string
	Select []string
	Plot   *PlotSpec
	SaveAs string
	Export string
}

// Point is a single plottable row.
type Point struct {
	Row    int
	X      float64
	XLabel string
	Y      float64
}
