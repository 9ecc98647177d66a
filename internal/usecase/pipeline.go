package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/ports"
	"TabularLoader/internal/table"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source   ports.TableSource
	Reporter ports.Reporter
	Exporter ports.Exporter
	Renderer ports.Renderer
	Logger   *slog.Logger
}

// Pipeline implements the fetch, inspect and render workflow.
type Pipeline struct {
	source   ports.TableSource
	reporter ports.Reporter
	exporter ports.Exporter
	renderer ports.Renderer
	logger   *slog.Logger
}

// Result records what one dataset produced.
type Result struct {
	Dataset    string
	Summary    domain.TableSummary
	ExportPath string
	ChartPath  string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:   deps.Source,
		reporter: deps.Reporter,
		exporter: deps.Exporter,
		renderer: deps.Renderer,
		logger:   deps.Logger,
	}
}

// Run processes datasets one after another and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context, datasets []domain.Dataset) ([]Result, error) {
	results := make([]Result, 0, len(datasets))
	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := p.Process(ctx, ds)
		if err != nil {
			return results, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		results = append(results, res)
	}

	p.info("pipeline finished", slog.Int("datasets", len(results)))
	return results, nil
}

// Process loads one dataset, applies its column transformations, then reports, exports and plots it.
func (p *Pipeline) Process(ctx context.Context, ds domain.Dataset) (Result, error) {
	if p.source == nil {
		return Result{}, errors.New("no table source configured")
	}

	p.info("loading dataset", slog.String("dataset", ds.Name), slog.String("url", ds.URL))
	tbl, err := p.source.Load(ctx, ds)
	if err != nil {
		return Result{}, fmt.Errorf("load: %w", err)
	}

	if err := transform(tbl, ds); err != nil {
		return Result{}, err
	}

	res := Result{Dataset: ds.Name, Summary: tbl.Summary()}
	p.info("dataset loaded",
		slog.String("dataset", ds.Name),
		slog.Int("rows", res.Summary.Rows),
		slog.Int("columns", len(res.Summary.Columns)))

	if p.reporter != nil {
		if err := p.reporter.Report(ctx, res.Summary); err != nil {
			return Result{}, fmt.Errorf("report: %w", err)
		}
	}

	if ds.Export != "" && p.exporter != nil {
		res.ExportPath, err = p.exporter.Export(ctx, tbl, ds.Export)
		if err != nil {
			return Result{}, fmt.Errorf("export: %w", err)
		}
		p.info("table exported", slog.String("dataset", ds.Name), slog.String("path", res.ExportPath))
	}

	if ds.Plot != nil && p.renderer != nil {
		res.ChartPath, err = p.renderer.Render(ctx, tbl, *ds.Plot)
		if err != nil {
			return Result{}, fmt.Errorf("render: %w", err)
		}
		p.info("chart written", slog.String("dataset", ds.Name), slog.String("path", res.ChartPath))
	}

	return res, nil
}

// transform applies renames first so Select can refer to the new names.
func transform(tbl *table.Table, ds domain.Dataset) error {
	for _, old := range sortedKeys(ds.Rename) {
		if err := tbl.Rename(old, ds.Rename[old]); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
	}
	if len(ds.Select) > 0 {
		if err := tbl.Select(ds.Select...); err != nil {
			return fmt.Errorf("select: %w", err)
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
