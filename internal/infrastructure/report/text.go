package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/ports"
)

// TextReporter prints an info block per table: entries, columns, present counts, types.
type TextReporter struct {
	out    io.Writer
	logger *slog.Logger
}

var _ ports.Reporter = (*TextReporter)(nil)

// NewTextReporter writes to out, or stdout when out is nil.
func NewTextReporter(out io.Writer, logger *slog.Logger) *TextReporter {
	if out == nil {
		out = os.Stdout
	}
	return &TextReporter{out: out, logger: logger}
}

// Report renders the summary and writes it in one piece.
func (r *TextReporter) Report(_ context.Context, summary domain.TableSummary) error {
	if _, err := io.WriteString(r.out, Format(summary)); err != nil {
		return fmt.Errorf("write summary for %s: %w", summary.Name, err)
	}

	if r.logger != nil {
		r.logger.Info("table summary",
			slog.String("dataset", summary.Name),
			slog.Int("rows", summary.Rows),
			slog.Int("columns", len(summary.Columns)))
	}
	return nil
}

// Format lays the summary out as aligned text.
func Format(summary domain.TableSummary) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Dataset: %s\n", summary.Name)
	if summary.Rows > 0 {
		fmt.Fprintf(&buf, "Index: %d entries, 0 to %d\n", summary.Rows, summary.Rows-1)
	} else {
		fmt.Fprintf(&buf, "Index: 0 entries\n")
	}
	fmt.Fprintf(&buf, "Data columns (total %d columns):\n", len(summary.Columns))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype")
	fmt.Fprintln(tw, " ---\t------\t--------------\t-----")
	for _, col := range summary.Columns {
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\n", col.Index, col.Name, col.NonAbsent, col.Type)
	}
	_ = tw.Flush()

	fmt.Fprintf(&buf, "dtypes: %s\n\n", dtypeCounts(summary.Columns))
	return buf.String()
}

func dtypeCounts(columns []domain.ColumnSummary) string {
	counts := map[string]int{}
	for _, col := range columns {
		counts[col.Type]++
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s(%d)", t, counts[t]))
	}
	return strings.Join(parts, ", ")
}
