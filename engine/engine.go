// Package engine runs a complete validation of a configuration tree.
//
// A run is a fixed sequence of units: root structure, general datatypes,
// every ECU, system metadata, system topology and the global pass. Each unit
// collects findings; a unit that produced a fatal finding aborts the run
// without a partial graph.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/decode"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/registry"
	"github.com/timzifer/ecunet/resolve"
	"github.com/timzifer/ecunet/session"
	"github.com/timzifer/ecunet/telemetry"
	"github.com/timzifer/ecunet/validation"
)

// Option configures the engine during construction.
type Option func(*Engine)

// WithLogger provides a custom logger instance for the engine.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTelemetry injects a collector receiving finding and run metrics.
func WithTelemetry(collector telemetry.Collector) Option {
	return func(e *Engine) {
		if collector == nil {
			collector = telemetry.Noop()
		}
		e.telemetry = collector
	}
}

// Engine validates configuration trees. An engine holds no per-run state and
// may be reused; every run works on the session it is given.
type Engine struct {
	logger    zerolog.Logger
	telemetry telemetry.Collector
}

// New constructs an engine with the supplied options.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zerolog.Nop(), telemetry: telemetry.Noop()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.logger = e.logger.With().Str("component", "engine").Logger()
	return e
}

// Result is the outcome of a successful run.
type Result struct {
	System    *model.System
	Findings  validation.Findings
	SessionID string
	Duration  time.Duration
}

// run carries the state of one Validate call.
type run struct {
	sess     *session.Session
	logger   zerolog.Logger
	findings validation.Findings
	ecuIndex map[*model.ECU]int
}

// Validate checks the configuration tree rooted at root. A nil session is
// replaced by a fresh one. The returned error is a validation.Findings value
// when the run was aborted by a fatal finding.
func (e *Engine) Validate(sess *session.Session, root *yaml.Node) (*Result, error) {
	if sess == nil {
		sess = session.New()
	}
	start := time.Now()
	r := &run{
		sess:     sess,
		logger:   e.logger.With().Str("session", sess.ID()).Logger(),
		ecuIndex: make(map[*model.ECU]int),
	}
	r.logger.Debug().Msg("validation started")

	sys, err := r.validate(root)
	elapsed := time.Since(start)
	r.findings = validation.Dedupe(r.findings)
	for _, f := range r.findings {
		e.telemetry.IncFinding(string(f.Severity), string(f.Code))
	}
	if err != nil {
		e.telemetry.ObserveRun(telemetry.OutcomeInvalid, elapsed)
		r.logger.Error().Err(err).Int("findings", len(r.findings)).Dur("duration", elapsed).Msg("validation aborted")
		if _, ok := validation.AsFindings(err); ok {
			return nil, r.findings
		}
		return nil, err
	}
	e.telemetry.ObserveRun(telemetry.OutcomeValid, elapsed)
	r.logger.Info().
		Strs("ecus", sess.Names.List(registry.KindECU)).
		Int("major", r.findings.Count(validation.SeverityMajor)).
		Int("minor", r.findings.Count(validation.SeverityMinor)).
		Dur("duration", elapsed).
		Msg("validation finished")
	return &Result{System: sys, Findings: r.findings, SessionID: sess.ID(), Duration: elapsed}, nil
}

// ValidateValue encodes v into a configuration tree and validates it.
func (e *Engine) ValidateValue(sess *session.Session, v any) (*Result, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return e.Validate(sess, &node)
}

func (r *run) validate(root *yaml.Node) (*model.System, error) {
	doc, err := step(r, "root", nil, func(c *validation.Collector) (decode.Document, error) {
		return decode.Root(root, c), nil
	})
	if err != nil {
		return nil, err
	}
	sys := &model.System{}

	if doc.General != nil {
		sys.General, err = step(r, "general", validation.Path{"general"}, func(c *validation.Collector) (model.General, error) {
			return r.general(doc.General, c), nil
		})
		if err != nil {
			return nil, err
		}
	}
	r.sess.Datatypes.Seal()
	// Datatypes whose name was taken stay out of the graph.
	sys.General.Datatypes = r.sess.Datatypes.Values()

	for i, n := range doc.ECUs {
		ecu, err := step(r, "ecu", validation.Path{"ecus", i}, func(c *validation.Collector) (*model.ECU, error) {
			return r.ecu(n, c), nil
		})
		if err != nil {
			return nil, err
		}
		if ecu != nil {
			r.ecuIndex[ecu] = i
		}
	}
	r.sess.ECUs.Seal()
	sys.ECUs = r.sess.ECUs.Values()
	r.sess.ECUPorts.Seal()

	sys.Metadata, err = step(r, "metadata", validation.Path{"metadata"}, func(c *validation.Collector) (model.SystemMetadata, error) {
		return decode.SystemMetadata(doc.Metadata, c), nil
	})
	if err != nil {
		return nil, err
	}

	sys.Topology, err = step(r, "topology", validation.Path{"topology"}, func(c *validation.Collector) (model.Topology, error) {
		return r.systemTopology(doc.Topology, c), nil
	})
	if err != nil {
		return nil, err
	}

	_, err = step(r, "global", nil, func(c *validation.Collector) (struct{}, error) {
		r.uniqueIPs(c)
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}
	return sys, nil
}

// step executes one unit and records its findings on the run.
func step[T any](r *run, name string, path validation.Path, fn func(c *validation.Collector) (T, error)) (T, error) {
	u := &Unit[T]{Name: name, Path: path, Run: fn}
	logger := r.logger.With().Str("unit", name).Str("path", path.String()).Logger()
	logger.Debug().Msg("unit started")
	v, fs, err := u.Execute()
	r.findings = append(r.findings, fs...)
	for i := range fs {
		f := &fs[i]
		var ev *zerolog.Event
		switch {
		case f.IsFatal():
			ev = logger.Error()
		case f.Severity == validation.SeverityMajor:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev.Str("severity", string(f.Severity)).Str("code", string(f.Code)).Str("at", f.Path.String()).Msg(f.Message())
	}
	logger.Debug().Str("state", u.State().String()).Int("findings", len(fs)).Msg("unit finished")
	return v, err
}

func (r *run) ecu(n *yaml.Node, c *validation.Collector) *model.ECU {
	e := decode.ECU(n, c)
	if e == nil || c.HasFatal() {
		return nil
	}
	if !r.register(e, c) {
		return nil
	}
	checkECU(e, c)

	scope := r.sess.Scope(e.Name)
	scope.Seal()
	resolver := resolve.New(scope, r.logger)
	connections := c.Key("topology").Key("connections")
	for i, conn := range e.Topology.Connections {
		resolver.Connection(conn, connections.Index(i))
	}
	return e
}

func (r *run) systemTopology(n *yaml.Node, c *validation.Collector) model.Topology {
	t := decode.Topology(n, c)
	if c.HasFatal() {
		return t
	}
	connections := c.Key("system_topology").Key("connections")
	for i, link := range t.System.Connections {
		resolve.External(r.sess, link, connections.Index(i), r.logger)
	}
	return t
}

// uniqueIPs reports every address that was already assigned earlier in the
// system, including repeats inside the same ECU.
func (r *run) uniqueIPs(c *validation.Collector) {
	owners := make(map[string]string)
	for _, e := range r.sess.ECUs.Values() {
		at := c.Key("ecus").Index(r.ecuIndex[e])
		for _, ip := range e.IPs() {
			key := ip.String()
			if first, ok := owners[key]; ok {
				at.Add(validation.Major(validation.CodeDuplicateValue,
					"IP {ip} in ECU {ecu} is already assigned in ECU {first}",
					validation.Context{"ip": key, "ecu": e.Name, "first": first}))
				continue
			}
			owners[key] = e.Name
		}
	}
}
