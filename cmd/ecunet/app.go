package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/timzifer/ecunet/config"
	"github.com/timzifer/ecunet/engine"
	"github.com/timzifer/ecunet/graphexport"
	"github.com/timzifer/ecunet/loader"
	"github.com/timzifer/ecunet/policy"
	"github.com/timzifer/ecunet/session"
	"github.com/timzifer/ecunet/telemetry"
	"github.com/timzifer/ecunet/validation"
)

// Exit codes of the tool.
const (
	exitOK     = 0
	exitFailed = 1
	exitError  = 2
)

// app wires one validation pipeline: load, validate, gate and export.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	engine    *engine.Engine
	policy    *policy.Policy
	telemetry telemetry.Collector
	exporter  *graphexport.Exporter
	sess      *session.Session
	out       io.Writer
}

// report is the outcome of one pass.
type report struct {
	Result   *engine.Result
	Findings validation.Findings
	Files    []string
	Failed   bool
}

func newApp(cfg *config.Config, logger zerolog.Logger, collector telemetry.Collector, out io.Writer) (*app, error) {
	gate, err := policy.New(cfg.Policy.FailWhen)
	if err != nil {
		return nil, err
	}
	if collector == nil {
		collector = telemetry.Noop()
	}
	return &app{
		cfg:       cfg,
		logger:    logger,
		engine:    engine.New(engine.WithLogger(logger), engine.WithTelemetry(collector)),
		policy:    gate,
		telemetry: collector,
		sess:      session.New(),
		out:       out,
	}, nil
}

// withExporter enables the graph export after successful passes.
func (a *app) withExporter(exp *graphexport.Exporter) *app {
	a.exporter = exp
	return a
}

// validate runs one pass over the configured input. The returned error is
// reserved for failures outside the document itself.
func (a *app) validate(ctx context.Context) (*report, error) {
	if strings.TrimSpace(a.cfg.Input) == "" {
		return nil, errors.New("no input document configured")
	}
	doc, err := loader.Load(a.cfg.Input)
	if err != nil {
		return nil, err
	}
	a.sess.Reset()
	res, err := a.engine.Validate(a.sess, doc.Root)
	rep := &report{Result: res, Files: doc.Files}
	if err != nil {
		fs, ok := validation.AsFindings(err)
		if !ok {
			return nil, err
		}
		rep.Findings, rep.Failed = fs, true
		a.print(rep)
		return rep, nil
	}
	rep.Findings = res.Findings
	rep.Failed, err = a.policy.Fails(res.Findings)
	if err != nil {
		return nil, err
	}
	a.print(rep)
	if rep.Failed || a.exporter == nil {
		return rep, nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Export.Timeout.Duration)
	defer cancel()
	if _, err := a.exporter.Export(ctx, res.System, res.SessionID); err != nil {
		return rep, err
	}
	return rep, nil
}

func (a *app) print(rep *report) {
	for i := range rep.Findings {
		f := &rep.Findings[i]
		fmt.Fprintf(a.out, "%-5s %-22s %s: %s\n", f.Severity, f.Code, f.Path.String(), f.Message())
	}
	status := "passed"
	if rep.Failed {
		status = "failed"
	}
	fmt.Fprintf(a.out, "%s: %d fatal, %d major, %d minor (policy %q)\n",
		status,
		len(rep.Findings.Fatal()),
		rep.Findings.Count(validation.SeverityMajor),
		rep.Findings.Count(validation.SeverityMinor),
		a.policy.String())
}

// exitCode maps the outcome of a pass to the process exit code.
func exitCode(rep *report, err error) int {
	switch {
	case err != nil:
		return exitError
	case rep == nil || rep.Failed:
		return exitFailed
	default:
		return exitOK
	}
}
