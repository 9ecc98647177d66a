package domain

// ColumnSummary describes one column of a parsed table.
type ColumnSummary struct {
	Index     int
	Name      string
	NonAbsent int
	Type      string
}

// TableSummary is the structural report produced by inspection.
type TableSummary struct {
	Name    string
	Rows    int
	Columns []ColumnSummary
}
