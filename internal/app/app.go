package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"TabularLoader/internal/config"
	"TabularLoader/internal/fetcher"
	"TabularLoader/internal/infrastructure/export"
	"TabularLoader/internal/infrastructure/fetch"
	"TabularLoader/internal/infrastructure/parser"
	"TabularLoader/internal/infrastructure/render"
	"TabularLoader/internal/infrastructure/report"
	"TabularLoader/internal/logging"
	"TabularLoader/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	registry := fetcher.NewRegistry()
	registry.Register(fetch.NewHTTPFetcher(
		&http.Client{Timeout: cfg.HTTP.Timeout},
		cfg.HTTP.UserAgent,
		baseLogger.With("component", "fetch.http"),
	))
	registry.Register(fetch.NewFTPFetcher(cfg.HTTP.Timeout))
	registry.Register(fetch.FileFetcher{})

	outputDir := cfg.Output.Dir
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   parser.NewStrategySource(registry, outputDir, baseLogger.With("component", "source")),
		Reporter: report.NewTextReporter(nil, baseLogger.With("component", "report")),
		Exporter: export.NewWriter(outputDir, baseLogger.With("component", "export")),
		Renderer: render.NewChartRenderer(outputDir, cfg.Chart.Width, cfg.Chart.Height, baseLogger.With("component", "render")),
		Logger:   baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}
}

// Run processes every configured dataset once, in order.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	datasets, err := a.cfg.DomainDatasets()
	if err != nil {
		return err
	}

	results, err := a.pipeline.Run(ctx, datasets)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	for _, res := range results {
		a.logger.Debug("dataset done",
			slog.String("dataset", res.Dataset),
			slog.String("chart", res.ChartPath),
			slog.String("export", res.ExportPath))
	}
	return nil
}
