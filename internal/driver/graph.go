// Package driver persists query runs and interaction networks to a
// Bolt-speaking graph database such as Memgraph or Neo4j.
package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	// EnsureSchema creates the indexes and constraints exports rely on. It is
	// safe to call on every start.
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

// schemaStatements are Memgraph DDL; each may fail if it already exists.
var schemaStatements = []string{
	"CREATE INDEX ON :Gene(symbol);",
	"CREATE INDEX ON :QueryRun(uuid);",
	"CREATE CONSTRAINT ON (g:Gene) ASSERT g.symbol IS UNIQUE;",
}
