package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/timzifer/ecunet/config"
	"github.com/timzifer/ecunet/graphexport"
	"github.com/timzifer/ecunet/internal/logging"
	"github.com/timzifer/ecunet/internal/reload"
	"github.com/timzifer/ecunet/policy"
	"github.com/timzifer/ecunet/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "Path to the tool configuration file")
	input := flag.String("input", "", "Document file or directory to validate (overrides the configuration)")
	check := flag.Bool("check", false, "Validate once and exit with the policy result")
	watch := flag.Bool("watch", false, "Re-validate whenever a source file changes")
	export := flag.Bool("export", false, "Export the resolved graph to Neo4j after a passing run")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *export {
		cfg.Export.Enabled = true
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup logger")
	}
	log.Logger = logger

	code := run(cfg, *cfgPath, logger, *check, *watch)
	cleanup()
	os.Exit(code)
}

func run(cfg *config.Config, cfgPath string, logger zerolog.Logger, check, watch bool) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	collector, err := newTelemetryCollector(cfg.Telemetry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
		collector = telemetry.Noop()
	}

	a, err := newApp(cfg, logger, collector, os.Stdout)
	if err != nil {
		logger.Error().Err(err).Msg("invalid policy")
		return exitError
	}
	if cfg.Export.Enabled {
		runner, err := openExport(ctx, cfg.Export)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open graph export")
			return exitError
		}
		defer runner.Close(context.Background())
		a.withExporter(graphexport.New(runner, logger))
	}

	if check || !(watch || cfg.HotReload) {
		rep, err := a.validate(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("validation failed")
		}
		return exitCode(rep, err)
	}

	stopMetrics := serveMetrics(cfg.Telemetry, logger)
	defer stopMetrics()
	if err := runWithHotReload(ctx, cfgPath, a, collector); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("watch stopped")
		return exitError
	}
	return exitOK
}

func openExport(ctx context.Context, cfg config.ExportConfig) (*graphexport.Neo4jRunner, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout.Duration)
	defer cancel()
	return graphexport.Open(ctx, cfg)
}

// runWithHotReload validates on start and again whenever the document or the
// tool configuration changes. A changed configuration replaces the policy and
// input; logging and export settings stay as started.
func runWithHotReload(ctx context.Context, cfgPath string, a *app, collector telemetry.Collector) error {
	rep, err := a.validate(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("validation failed")
	}
	watcher, err := reload.NewWatcher(watchPaths(a, cfgPath, rep)...)
	if err != nil {
		return fmt.Errorf("create document watcher: %w", err)
	}
	ticker := time.NewTicker(a.cfg.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		changed, err := watcher.Check()
		if err != nil {
			a.logger.Error().Err(err).Msg("failed to check document changes")
			continue
		}
		if len(changed) == 0 {
			continue
		}
		for _, file := range changed {
			collector.IncHotReload(file)
		}
		a.logger.Info().Strs("files", changed).Msg("sources changed")

		if cfgPath != "" {
			if err := a.reloadConfig(cfgPath); err != nil {
				a.logger.Error().Err(err).Msg("failed to reload configuration")
			}
		}
		rep, err = a.validate(ctx)
		if err != nil {
			a.logger.Error().Err(err).Msg("validation failed")
		}
		if err := watcher.Update(watchPaths(a, cfgPath, rep)...); err != nil {
			a.logger.Error().Err(err).Msg("failed to update watcher state")
		}
	}
}

// reloadConfig applies a changed tool configuration to a.
func (a *app) reloadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	gate, err := policy.New(cfg.Policy.FailWhen)
	if err != nil {
		return err
	}
	a.cfg.Input = cfg.Input
	a.cfg.Policy = cfg.Policy
	a.policy = gate
	return nil
}

func watchPaths(a *app, cfgPath string, rep *report) []string {
	paths := []string{a.cfg.Input}
	paths = append(paths, config.SourceFiles(a.cfg)...)
	if cfgPath != "" {
		paths = append(paths, cfgPath)
	}
	if rep != nil {
		paths = append(paths, rep.Files...)
	}
	return paths
}

func newTelemetryCollector(cfg config.TelemetryConfig) (telemetry.Collector, error) {
	if !cfg.Enabled {
		return telemetry.Noop(), nil
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "prometheus":
		collector, err := telemetry.NewPrometheusCollector(nil)
		if err != nil {
			return nil, err
		}
		return collector, nil
	default:
		return telemetry.Noop(), fmt.Errorf("unsupported telemetry provider %q", cfg.Provider)
	}
}

// serveMetrics exposes the default Prometheus registry while watching.
func serveMetrics(cfg config.TelemetryConfig, logger zerolog.Logger) func() {
	if !cfg.Enabled || cfg.Listen == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("listen", cfg.Listen).Msg("metrics endpoint stopped")
		}
	}()
	logger.Info().Str("listen", cfg.Listen).Msg("metrics endpoint started")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
