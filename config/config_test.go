package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecunet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, time.Second, cfg.Interval.Duration)
	require.Equal(t, 30*time.Second, cfg.Export.Timeout.Duration)
	require.Equal(t, "neo4j", cfg.Export.Database)
	require.Empty(t, cfg.Source)
	require.Nil(t, SourceFiles(cfg))
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `input: vehicle
hot_reload: true
interval: 250ms
logging:
  level: debug
  format: text
  loki:
    enabled: true
    url: http://loki:3100/loki/api/v1/push
    tenant: vehicles
    level: error
    labels:
      team: network
telemetry:
  enabled: true
  listen: ":9102"
policy:
  fail_when: "major > 3 || codes['duplicate_name'] > 0"
export:
  enabled: true
  uri: neo4j://localhost:7687
  username: neo4j
  password: secret
  timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(filepath.Dir(path), "vehicle"), cfg.Input)
	require.True(t, cfg.HotReload)
	require.Equal(t, 250*time.Millisecond, cfg.Interval.Duration)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, map[string]string{"team": "network"}, cfg.Logging.Loki.Labels)
	require.Equal(t, "vehicles", cfg.Logging.Loki.Tenant)
	require.Equal(t, "error", cfg.Logging.Loki.Level)
	require.Equal(t, ":9102", cfg.Telemetry.Listen)
	require.Equal(t, "major > 3 || codes['duplicate_name'] > 0", cfg.Policy.FailWhen)
	require.Equal(t, 5*time.Second, cfg.Export.Timeout.Duration)
	require.Equal(t, "neo4j", cfg.Export.Database)
	require.Equal(t, []string{path}, SourceFiles(cfg))
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	_, err := Load(writeConfig(t, "colour: red\n"))
	require.ErrorContains(t, err, "decode config")

	_, err = Load(writeConfig(t, "interval: soon\n"))
	require.ErrorContains(t, err, "parse duration")

	_, err = Load(writeConfig(t, "logging: {format: xml}\ntelemetry: {provider: statsd}\nexport: {enabled: true}\n"))
	require.ErrorContains(t, err, `unsupported format "xml"`)
	require.ErrorContains(t, err, `unsupported provider "statsd"`)
	require.ErrorContains(t, err, "export: uri is required")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestDurationMarshalsAsString(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Timeout Duration `yaml:"timeout"`
	}{Duration{90 * time.Second}})
	require.NoError(t, err)
	require.Equal(t, "timeout: 1m30s\n", string(out))
}
