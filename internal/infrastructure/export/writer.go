package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"TabularLoader/internal/config"
	"TabularLoader/internal/ports"
	"TabularLoader/internal/table"
)

const sheetName = "data"

// Writer saves cleaned tables as CSV or XLSX under an output directory.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

var _ ports.Exporter = (*Writer)(nil)

// NewWriter resolves relative export paths against outputDir.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger}
}

// Export writes tbl to path; the extension selects the format.
func (w *Writer) Export(_ context.Context, tbl *table.Table, path string) (string, error) {
	target := config.ResolveOutputPath(w.outputDir, path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("export %s: create directory: %w", tbl.Name(), err)
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(target)); ext {
	case ".csv":
		err = writeCSV(tbl, target)
	case ".xlsx":
		err = writeXLSX(tbl, target)
	default:
		err = fmt.Errorf("unsupported export format %q", ext)
	}
	if err != nil {
		return "", fmt.Errorf("export %s: %w", tbl.Name(), err)
	}

	w.debug("table exported",
		slog.String("dataset", tbl.Name()),
		slog.Int("rows", tbl.Nrow()),
		slog.String("path", target))
	return target, nil
}

func writeCSV(tbl *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := tbl.Frame().WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}

// writeXLSX puts the header in row 1 and leaves absent cells empty.
func writeXLSX(tbl *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	names := tbl.Names()
	for c, name := range names {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header %s: %w", name, err)
		}
	}

	for row := 0; row < tbl.Nrow(); row++ {
		for c, name := range names {
			value, err := tbl.Value(row, name)
			if err != nil {
				return err
			}
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func (w *Writer) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
