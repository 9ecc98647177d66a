package table

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TabularLoader/internal/domain"
)

// Table is a parsed tabular resource: named columns, typed values, absent markers.
type Table struct {
	name string
	df   dataframe.DataFrame
}

// New wraps a DataFrame, surfacing any error gota accumulated while building it.
func New(name string, df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("build table %s: %w", name, df.Err)
	}
	return &Table{name: name, df: df}, nil
}

// Name identifies the dataset the table was loaded from.
func (t *Table) Name() string {
	return t.name
}

// Frame exposes the underlying DataFrame for writers that speak gota.
func (t *Table) Frame() dataframe.DataFrame {
	return t.df
}

// Names returns the column names in header order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Nrow returns the number of data rows.
func (t *Table) Nrow() int {
	return t.df.Nrow()
}

// Ncol returns the number of columns.
func (t *Table) Ncol() int {
	return t.df.Ncol()
}

// IsAbsent reports whether the cell holds the missing-value marker.
func (t *Table) IsAbsent(row int, col string) (bool, error) {
	s, err := t.column(col)
	if err != nil {
		return false, err
	}
	if err := t.checkRow(row); err != nil {
		return false, err
	}
	return s.Elem(row).IsNA(), nil
}

// Float returns a numeric cell; present is false for absent cells.
func (t *Table) Float(row int, col string) (value float64, present bool, err error) {
	s, err := t.column(col)
	if err != nil {
		return 0, false, err
	}
	if err := t.checkRow(row); err != nil {
		return 0, false, err
	}
	if !isNumeric(s) {
		return 0, false, fmt.Errorf("column %s is %s, not numeric", col, s.Type())
	}
	elem := s.Elem(row)
	if elem.IsNA() {
		return 0, false, nil
	}
	return elem.Float(), true, nil
}

// String returns the textual form of a cell; present is false for absent cells.
func (t *Table) String(row int, col string) (value string, present bool, err error) {
	s, err := t.column(col)
	if err != nil {
		return "", false, err
	}
	if err := t.checkRow(row); err != nil {
		return "", false, err
	}
	elem := s.Elem(row)
	if elem.IsNA() {
		return "", false, nil
	}
	return formatElement(s, elem), true, nil
}

// Value returns a typed cell (int, float64, bool or string), or nil when absent.
func (t *Table) Value(row int, col string) (any, error) {
	s, err := t.column(col)
	if err != nil {
		return nil, err
	}
	if err := t.checkRow(row); err != nil {
		return nil, err
	}
	elem := s.Elem(row)
	if elem.IsNA() {
		return nil, nil
	}

	switch s.Type() {
	case series.Int:
		return elem.Int()
	case series.Float:
		return elem.Float(), nil
	case series.Bool:
		return elem.Bool()
	default:
		return elem.String(), nil
	}
}

// Rename changes a column name in place; the new name must not already be taken.
func (t *Table) Rename(oldName, newName string) error {
	if _, err := t.column(oldName); err != nil {
		return err
	}
	if newName == oldName {
		return nil
	}
	if _, err := t.column(newName); err == nil {
		return fmt.Errorf("%w: cannot rename %s to %s (table %s)", domain.ErrDuplicateColumn, oldName, newName, t.name)
	}
	renamed := t.df.Rename(newName, oldName)
	if renamed.Err != nil {
		return fmt.Errorf("rename %s to %s: %w", oldName, newName, renamed.Err)
	}
	t.df = renamed
	return nil
}

// Select keeps only the given columns, in the given order.
func (t *Table) Select(cols ...string) error {
	for _, col := range cols {
		if _, err := t.column(col); err != nil {
			return err
		}
	}
	selected := t.df.Select(cols)
	if selected.Err != nil {
		return fmt.Errorf("select columns: %w", selected.Err)
	}
	t.df = selected
	return nil
}

// Summary reports column names, per-column present counts and inferred types.
func (t *Table) Summary() domain.TableSummary {
	names := t.df.Names()
	types := t.df.Types()

	columns := make([]domain.ColumnSummary, 0, len(names))
	for i, name := range names {
		columns = append(columns, domain.ColumnSummary{
			Index:     i,
			Name:      name,
			NonAbsent: countPresent(t.df.Col(name)),
			Type:      string(types[i]),
		})
	}

	return domain.TableSummary{
		Name:    t.name,
		Rows:    t.df.Nrow(),
		Columns: columns,
	}
}

// Points pairs x and y per row, skipping rows where either is absent.
// Non-numeric x values are placed at their ordinal position and kept as labels.
func (t *Table) Points(x, y string) ([]domain.Point, error) {
	xs, err := t.column(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.column(y)
	if err != nil {
		return nil, err
	}
	if countPresent(ys) == 0 {
		return nil, nil
	}
	if !isNumeric(ys) {
		return nil, fmt.Errorf("column %s is %s, not numeric", y, ys.Type())
	}

	xNumeric := isNumeric(xs)
	points := make([]domain.Point, 0, t.df.Nrow())
	for i := 0; i < t.df.Nrow(); i++ {
		xe, ye := xs.Elem(i), ys.Elem(i)
		if xe.IsNA() || ye.IsNA() {
			continue
		}

		p := domain.Point{
			Row:    i,
			Y:      ye.Float(),
			XLabel: formatElement(xs, xe),
		}
		if xNumeric {
			p.X = xe.Float()
		} else {
			p.X = float64(len(points))
		}
		points = append(points, p)
	}

	return points, nil
}

func (t *Table) column(name string) (series.Series, error) {
	for _, n := range t.df.Names() {
		if n == name {
			return t.df.Col(name), nil
		}
	}
	return series.Series{}, fmt.Errorf("%w: %s (table %s)", domain.ErrUnknownColumn, name, t.name)
}

func (t *Table) checkRow(row int) error {
	if row < 0 || row >= t.df.Nrow() {
		return fmt.Errorf("row %d out of range [0,%d)", row, t.df.Nrow())
	}
	return nil
}

func isNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}

func countPresent(s series.Series) int {
	n := 0
	for _, absent := range s.IsNaN() {
		if !absent {
			n++
		}
	}
	return n
}

func formatElement(s series.Series, elem series.Element) string {
	if s.Type() == series.Float {
		return strconv.FormatFloat(elem.Float(), 'f', -1, 64)
	}
	return elem.String()
}
