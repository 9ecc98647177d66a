package ports

import (
	"context"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/table"
)

// TableSource fetches and parses a dataset's resource into a table.
type TableSource interface {
	Load(ctx context.Context, ds domain.Dataset) (*table.Table, error)
}

// Reporter publishes the structural summary of a table.
type Reporter interface {
	Report(ctx context.Context, summary domain.TableSummary) error
}

// Exporter writes a cleaned table to a local file; the extension picks the format.
type Exporter interface {
	Export(ctx context.Context, tbl *table.Table, path string) (string, error)
}

// Renderer draws a chart of two columns and returns where it was written.
type Renderer interface {
	Render(ctx context.Context, tbl *table.Table, spec domain.PlotSpec) (string, error)
}
