// Package config loads sweeper settings from an optional YAML file and
// SWEEPER_* environment variables through viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nconklindev/sweeper/internal/converter"
)

// EnvPrefix is prepended to every environment override, e.g. SWEEPER_LOG_LEVEL.
const EnvPrefix = "SWEEPER"

type Config struct {
	Log     LogConfig
	Output  OutputConfig
	Preview PreviewConfig
	JSON    JSONConfig
	PDF     PDFConfig
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File receives log output in the interactive UI. Empty discards it.
	File string `mapstructure:"file"`
}

type OutputConfig struct {
	// Dir is where converted files go. Empty writes next to the source.
	Dir string `mapstructure:"dir"`
}

type PreviewConfig struct {
	Rows int `mapstructure:"rows"`
}

type JSONConfig struct {
	Indent int `mapstructure:"indent"`
}

type PDFConfig struct {
	ColumnWidth    float64 `mapstructure:"column_width"`
	RowHeight      float64 `mapstructure:"row_height"`
	FontSize       float64 `mapstructure:"font_size"`
	StrictEncoding bool    `mapstructure:"strict_encoding"`
}

// SetDefaults registers every key with its default so env overrides and
// Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	defaults := converter.DefaultExportOptions()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("output.dir", "")
	v.SetDefault("preview.rows", 5)
	v.SetDefault("json.indent", defaults.JSONIndent)
	v.SetDefault("pdf.column_width", defaults.PDF.ColumnWidth)
	v.SetDefault("pdf.row_height", defaults.PDF.RowHeight)
	v.SetDefault("pdf.font_size", defaults.PDF.FontSize)
	v.SetDefault("pdf.strict_encoding", defaults.PDF.StrictEncoding)
}

// Load reads the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Preview.Rows <= 0 {
		return fmt.Errorf("preview.rows must be positive, got %d", c.Preview.Rows)
	}
	if c.JSON.Indent < 0 {
		return fmt.Errorf("json.indent must not be negative, got %d", c.JSON.Indent)
	}
	if c.PDF.ColumnWidth <= 0 || c.PDF.RowHeight <= 0 || c.PDF.FontSize <= 0 {
		return fmt.Errorf("pdf sizes must be positive (column_width=%v row_height=%v font_size=%v)",
			c.PDF.ColumnWidth, c.PDF.RowHeight, c.PDF.FontSize)
	}
	return nil
}

// ExportOptions maps the configuration onto the exporter's options.
func (c *Config) ExportOptions() converter.ExportOptions {
	return converter.ExportOptions{
		JSONIndent: c.JSON.Indent,
		PDF: converter.PDFOptions{
			ColumnWidth:    c.PDF.ColumnWidth,
			RowHeight:      c.PDF.RowHeight,
			FontSize:       c.PDF.FontSize,
			StrictEncoding: c.PDF.StrictEncoding,
		},
	}
}
