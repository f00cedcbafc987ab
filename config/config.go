// Package config holds the settings of the ecunet tool itself. The vehicle
// network documents are read by the loader package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// LokiConfig configures log shipping to Grafana Loki.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Tenant  string            `yaml:"tenant,omitempty"`
	Labels  map[string]string `yaml:"labels"`
	// Level is the lowest level shipped to Loki. Defaults to warn, which
	// carries major and fatal findings.
	Level string `yaml:"level,omitempty"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig configures runtime telemetry exporters.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
	// Listen is the address serving /metrics while watching. Empty disables
	// the endpoint.
	Listen string `yaml:"listen,omitempty"`
}

// PolicyConfig decides when a validation run counts as failed.
type PolicyConfig struct {
	FailWhen string `yaml:"fail_when,omitempty"`
}

// ExportConfig configures the Neo4j graph export.
type ExportConfig struct {
	Enabled  bool     `yaml:"enabled"`
	URI      string   `yaml:"uri"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Database string   `yaml:"database,omitempty"`
	Timeout  Duration `yaml:"timeout,omitempty"`
}

// Config is the root tool configuration.
type Config struct {
	// Input is the document file or directory to validate.
	Input     string          `yaml:"input,omitempty"`
	HotReload bool            `yaml:"hot_reload"`
	Interval  Duration        `yaml:"interval,omitempty"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Policy    PolicyConfig    `yaml:"policy"`
	Export    ExportConfig    `yaml:"export"`

	// Source is the absolute path of the loaded file. Empty for defaults.
	Source string `yaml:"-"`
}

const (
	defaultInterval      = time.Second
	defaultExportTimeout = 30 * time.Second
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and decodes the configuration file from disk. An empty path
// yields the defaults. Relative input paths are resolved against the
// directory of the file.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", abs, err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config %s: %w", abs, err)
	}
	cfg.Source = abs
	if cfg.Input != "" && !filepath.IsAbs(cfg.Input) {
		cfg.Input = filepath.Join(filepath.Dir(abs), cfg.Input)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Interval.Duration <= 0 {
		c.Interval.Duration = defaultInterval
	}
	if c.Export.Timeout.Duration <= 0 {
		c.Export.Timeout.Duration = defaultExportTimeout
	}
	if c.Export.Database == "" {
		c.Export.Database = "neo4j"
	}
}

// Validate checks the settings that cannot be verified by decoding alone.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging: unsupported format %q", c.Logging.Format))
	}
	if c.Logging.Loki.Enabled && strings.TrimSpace(c.Logging.Loki.URL) == "" {
		errs = append(errs, errors.New("logging: loki url is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.Telemetry.Provider)) {
	case "", "prometheus":
	default:
		errs = append(errs, fmt.Errorf("telemetry: unsupported provider %q", c.Telemetry.Provider))
	}
	if c.Export.Enabled && strings.TrimSpace(c.Export.URI) == "" {
		errs = append(errs, errors.New("export: uri is required"))
	}
	return errors.Join(errs...)
}

// SourceFiles returns the configuration file itself, if any.
func SourceFiles(cfg *Config) []string {
	if cfg == nil || cfg.Source == "" {
		return nil
	}
	return []string{cfg.Source}
}
