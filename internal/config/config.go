package config

import (
	"fmt"
	"log"
	"os"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"TabularLoader/internal/domain"
)

const (
	configPathEnv    = "TABULAR_CONFIG"
	envPrefix        = "TABULAR"
	defaultOutputDir = "output"
	defaultUserAgent = "TabularLoader/1.0"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig   `yaml:"logging"`
	Output   OutputConfig    `yaml:"output"`
	HTTP     HTTPConfig      `yaml:"http"`
	Chart    ChartConfig     `yaml:"chart"`
	Datasets []DatasetConfig `yaml:"datasets" validate:"required,min=1,unique=Name,dive"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// OutputConfig is where downloads, exports and charts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// HTTPConfig tunes the HTTP fetcher. A zero timeout waits indefinitely.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	UserAgent string        `yaml:"userAgent"`
}

// ChartConfig sets the PNG canvas size.
type ChartConfig struct {
	Width  int `yaml:"width" validate:"gte=0"`
	Height int `yaml:"height" validate:"gte=0"`
}

// DatasetConfig describes one resource to fetch, clean and plot.
type DatasetConfig struct {
	Name          string            `yaml:"name" validate:"required,excludesall=/\\"`
	URL           string            `yaml:"url" validate:"required"`
	SkipRows      int               `yaml:"skipRows" validate:"gte=0"`
	MissingValues []string          `yaml:"missingValues"`
	Delimiter     string            `yaml:"delimiter" validate:"omitempty,oneof=comma tab space whitespace semicolon pipe"`
	Comment       string            `yaml:"comment" validate:"omitempty,len=1"`
	Rename        map[string]string `yaml:"rename"`
	Select        []string          `yaml:"select"`
	SaveAs        string            `yaml:"saveAs"`
	Export        string            `yaml:"export" validate:"omitempty,endswith=.csv|endswith=.xlsx"`
	Plot          *PlotConfig       `yaml:"plot"`
}

// PlotConfig mirrors domain.PlotSpec.
type PlotConfig struct {
	X      string `yaml:"x" validate:"required"`
	Y      string `yaml:"y" validate:"required"`
	Kind   string `yaml:"kind" validate:"omitempty,oneof=line bar"`
	Color  string `yaml:"color" validate:"omitempty,hexcolor|alpha"`
	Title  string `yaml:"title"`
	XLabel string `yaml:"xLabel"`
	YLabel string `yaml:"yLabel"`
}

type envOverrides struct {
	LogLevel    string        `envconfig:"LOG_LEVEL"`
	LogFormat   string        `envconfig:"LOG_FORMAT"`
	OutputDir   string        `envconfig:"OUTPUT_DIR"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT"`
	UserAgent   string        `envconfig:"USER_AGENT"`
}

// Load reads YAML configuration (if present), applies environment overrides and validates the result.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags on the whole configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}

	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Logging.Format = env.LogFormat
	}
	if env.OutputDir != "" {
		c.Output.Dir = env.OutputDir
	}
	if env.HTTPTimeout != 0 {
		c.HTTP.Timeout = env.HTTPTimeout
	}
	if env.UserAgent != "" {
		c.HTTP.UserAgent = env.UserAgent
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}

	if override.HTTP.Timeout != 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	if override.Chart.Width != 0 {
		base.Chart.Width = override.Chart.Width
	}
	if override.Chart.Height != 0 {
		base.Chart.Height = override.Chart.Height
	}

	if len(override.Datasets) > 0 {
		base.Datasets = override.Datasets
	}

	return base
}

// DomainDatasets converts every configured dataset, in order.
func (c Config) DomainDatasets() ([]domain.Dataset, error) {
	out := make([]domain.Dataset, 0, len(c.Datasets))
	for _, dc := range c.Datasets {
		ds, err := dc.Dataset()
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// Dataset converts the YAML shape into the domain type.
func (dc DatasetConfig) Dataset() (domain.Dataset, error) {
	ds := domain.Dataset{
		Name: dc.Name,
		URL:  dc.URL,
		Format: domain.ParseOptions{
			SkipRows:      dc.SkipRows,
			MissingValues: dc.MissingValues,
			Delimiter:     domain.Delimiter(dc.Delimiter),
		},
		Rename: dc.Rename,
		Select: dc.Select,
		SaveAs: dc.SaveAs,
		Export: dc.Export,
	}

	if dc.Comment != "" {
		r, _ := utf8.DecodeRuneInString(dc.Comment)
		ds.Format.Comment = r
	}
	if _, ok := ds.Format.Delimiter.Rune(); !ok && ds.Format.Delimiter != domain.DelimiterWhitespace {
		return domain.Dataset{}, fmt.Errorf("config: dataset %s: unsupported delimiter %q", dc.Name, dc.Delimiter)
	}

	if dc.Plot != nil {
		kind, err := domain.ParsePlotKind(dc.Plot.Kind)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("config: dataset %s: %w", dc.Name, err)
		}
		ds.Plot = &domain.PlotSpec{
			X:      dc.Plot.X,
			Y:      dc.Plot.Y,
			Kind:   kind,
			Color:  dc.Plot.Color,
			Title:  dc.Plot.Title,
			XLabel: dc.Plot.XLabel,
			YLabel: dc.Plot.YLabel,
		}
	}
	return ds, nil
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Output:  OutputConfig{Dir: defaultOutputDir},
		HTTP:    HTTPConfig{UserAgent: defaultUserAgent},
		Chart:   ChartConfig{Width: 1024, Height: 512},
		Datasets: []DatasetConfig{
			{
				Name: "avg-monthly-precip",
				URL:  "https://ndownloader.figshare.com/files/12710618",
				Plot: &PlotConfig{
					X:      "months",
					Y:      "precip",
					Kind:   "line",
					Color:  "purple",
					Title:  "Precipitation (mm) for One Year",
					XLabel: "Month",
					YLabel: "Precipitation (mm)",
				},
			},
			{
				Name:          "miami-tmax",
				URL:           "https://www.ncdc.noaa.gov/cag/city/time-series/USW00012839-tmax-12-12-1895-2020.csv",
				SkipRows:      3,
				MissingValues: []string{"-99"},
				Plot: &PlotConfig{
					X:      "Date",
					Y:      "Value",
					Kind:   "line",
					Title:  "Miami, FL maximum temperature (December)",
					XLabel: "Date",
					YLabel: "Temperature (F)",
				},
			},
			{
				Name:          "seattle-tmax",
				URL:           "https://www.ncdc.noaa.gov/cag/city/time-series/USW00013895-tmax-1-5-1895-2020.csv",
				SkipRows:      3,
				MissingValues: []string{"-99"},
				Plot: &PlotConfig{
					X:      "Date",
					Y:      "Value",
					Kind:   "line",
					Title:  "Seattle, WA maximum temperature (January-May)",
					XLabel: "Date",
					YLabel: "Temperature (F)",
				},
			},
		},
	}
}
