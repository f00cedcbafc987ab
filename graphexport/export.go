// Package graphexport writes a resolved system graph to Neo4j.
package graphexport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/timzifer/ecunet/config"
	"github.com/timzifer/ecunet/model"
)

// Runner executes a batch of statements in one write transaction.
type Runner interface {
	Write(ctx context.Context, stmts []Statement) error
}

// Stats summarises an export.
type Stats struct {
	Statements int
	Nodes      int
	Edges      int
	Duration   time.Duration
}

// Exporter pushes systems through a Runner.
type Exporter struct {
	runner Runner
	logger zerolog.Logger
}

// New returns an exporter writing through runner.
func New(runner Runner, logger zerolog.Logger) *Exporter {
	return &Exporter{runner: runner, logger: logger.With().Str("component", "graphexport").Logger()}
}

// Export writes sys tagged with sessionID. Every node and relationship is
// merged, so exporting the same system twice leaves the graph unchanged.
func (e *Exporter) Export(ctx context.Context, sys *model.System, sessionID string) (Stats, error) {
	if e.runner == nil {
		return Stats{}, errors.New("graphexport: no runner configured")
	}
	start := time.Now()
	b := &builder{session: sessionID}
	b.build(sys)
	stats := Stats{Statements: len(b.stmts), Nodes: b.nodes, Edges: b.edges}
	if len(b.stmts) == 0 {
		return stats, nil
	}
	if err := e.runner.Write(ctx, b.stmts); err != nil {
		return stats, fmt.Errorf("graphexport: write: %w", err)
	}
	stats.Duration = time.Since(start)
	e.logger.Info().
		Str("session", sessionID).
		Int("nodes", stats.Nodes).
		Int("edges", stats.Edges).
		Dur("duration", stats.Duration).
		Msg("graph exported")
	return stats, nil
}

// Neo4jRunner runs statements on a Neo4j database.
type Neo4jRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jRunner wraps driver. An empty database selects the server default.
func NewNeo4jRunner(driver neo4j.DriverWithContext, database string) *Neo4jRunner {
	return &Neo4jRunner{driver: driver, database: database}
}

// Open connects to the database described by cfg and verifies connectivity.
func Open(ctx context.Context, cfg config.ExportConfig) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graphexport: create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graphexport: connect %s: %w", cfg.URI, err)
	}
	return NewNeo4jRunner(driver, cfg.Database), nil
}

// Write runs stmts in a single managed write transaction.
func (r *Neo4jRunner) Write(ctx context.Context, stmts []Statement) error {
	sess := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, s := range stmts {
			if _, err := tx.Run(ctx, s.Cypher, s.Params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Close releases the driver.
func (r *Neo4jRunner) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}
