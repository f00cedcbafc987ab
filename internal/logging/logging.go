// Package logging builds the zerolog logger used by the tool and optionally
// ships log lines to Grafana Loki.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grafana/loki-client-go/loki"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog"

	"github.com/timzifer/ecunet/config"
)

// Setup creates a zerolog logger according to the provided configuration.
// The returned cleanup flushes pending Loki batches.
func Setup(cfg config.LoggingConfig) (zerolog.Logger, func(), error) {
	return setup(cfg, os.Stdout)
}

func setup(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, func(), error) {
	level, err := parseLevel(cfg.Level, zerolog.InfoLevel)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
	}

	console := out
	if strings.EqualFold(cfg.Format, "text") {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	writers := []io.Writer{console}
	cleanup := func() {}

	if cfg.Loki.Enabled {
		sink, err := newLokiSink(cfg.Loki)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		writers = append(writers, sink)
		cleanup = sink.stop
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger().Level(level)
	return logger, cleanup, nil
}

func parseLevel(s string, def zerolog.Level) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	return zerolog.ParseLevel(s)
}

type lokiHandler interface {
	Handle(ls model.LabelSet, t time.Time, s string) error
}

// lokiSink pushes every line at or above minLevel into a stream labelled
// with its level.
type lokiSink struct {
	handler  lokiHandler
	labels   model.LabelSet
	minLevel zerolog.Level
	stop     func()
}

func newLokiSink(cfg config.LokiConfig) (*lokiSink, error) {
	if cfg.URL == "" {
		return nil, errors.New("loki url is required")
	}
	minLevel, err := parseLevel(cfg.Level, zerolog.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("parse loki level: %w", err)
	}
	lokiCfg, err := loki.NewDefaultConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("prepare loki config: %w", err)
	}
	lokiCfg.TenantID = cfg.Tenant
	client, err := loki.New(lokiCfg)
	if err != nil {
		return nil, fmt.Errorf("create loki client: %w", err)
	}
	return &lokiSink{handler: client, labels: labelSet(cfg.Labels), minLevel: minLevel, stop: client.Stop}, nil
}

// labelSet returns the configured labels. The app label is always present.
func labelSet(labels map[string]string) model.LabelSet {
	set := model.LabelSet{"app": "ecunet"}
	for k, v := range labels {
		set[model.LabelName(k)] = model.LabelValue(v)
	}
	return set
}

func (s *lokiSink) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

func (s *lokiSink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < s.minLevel {
		return len(p), nil
	}
	entry := strings.TrimSpace(string(p))
	if entry == "" {
		return len(p), nil
	}
	labels := s.labels
	if name := level.String(); name != "" {
		labels = labels.Merge(model.LabelSet{"level": model.LabelValue(name)})
	}
	return len(p), s.handler.Handle(labels, time.Now(), entry)
}
