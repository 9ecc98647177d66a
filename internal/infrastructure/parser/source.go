package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"TabularLoader/internal/config"
	"TabularLoader/internal/domain"
	"TabularLoader/internal/fetcher"
	"TabularLoader/internal/ports"
	"TabularLoader/internal/table"
)

// StrategySource implements TableSource by picking a fetcher per locator scheme.
type StrategySource struct {
	registry  *fetcher.Registry
	outputDir string
	logger    *slog.Logger
}

var _ ports.TableSource = (*StrategySource)(nil)

// NewStrategySource wires the fetcher registry with the directory raw downloads are saved to.
func NewStrategySource(reg *fetcher.Registry, outputDir string, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:  reg,
		outputDir: outputDir,
		logger:    log,
	}
}

// Load fetches the dataset's resource, saves the raw bytes when asked to, and parses them.
func (s *StrategySource) Load(ctx context.Context, ds domain.Dataset) (*table.Table, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("fetcher registry is not configured")
	}

	s.debug("load dataset", "dataset", ds.Name, "url", ds.URL, "skip_rows", ds.Format.SkipRows)
	strategy, err := s.registry.Resolve(ds.URL)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}

	raw, err := fetchAll(ctx, strategy, ds.URL)
	if err != nil {
		return nil, err
	}
	s.debug("fetched resource", "dataset", ds.Name, "bytes", len(raw))

	if ds.SaveAs != "" {
		path, err := s.save(ds.SaveAs, raw)
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", ds.Name, err)
		}
		s.debug("saved raw resource", "dataset", ds.Name, "path", path)
	}

	tbl, err := Parse(bytes.NewReader(raw), ds.Name, ds.Format)
	if err != nil {
		return nil, err
	}

	s.debug("parsed dataset", "dataset", ds.Name, "rows", tbl.Nrow(), "columns", tbl.Ncol())
	return tbl, nil
}

func fetchAll(ctx context.Context, f fetcher.Fetcher, locator string) ([]byte, error) {
	body, err := f.Fetch(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", locator, err)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("fetch %s: %w: read body: %v", locator, domain.ErrResourceUnreachable, err)
	}

	if err := body.Close(); err != nil {
		return nil, fmt.Errorf("fetch %s: close body: %w", locator, err)
	}

	return raw, nil
}

func (s *StrategySource) save(name string, raw []byte) (string, error) {
	path := config.ResolveOutputPath(s.outputDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
