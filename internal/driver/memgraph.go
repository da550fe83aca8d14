package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	logger *zap.Logger
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string, logger *zap.Logger) (*MemgraphDriver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	logger.Info("Connected to Memgraph", zap.String("uri", uri))
	return &MemgraphDriver{Driver: driver, logger: logger.Named("memgraph")}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// EnsureSchema tolerates statements that fail because the index or
// constraint already exists, but reports an error when none succeed.
func (d *MemgraphDriver) EnsureSchema(ctx context.Context) error {
	return ensureSchema(ctx, d, schemaStatements, d.logger)
}

type queryExecutor interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
}

func ensureSchema(ctx context.Context, exec queryExecutor, statements []string, logger *zap.Logger) error {
	var (
		failed  int
		lastErr error
	)
	for _, q := range statements {
		if _, err := exec.ExecuteQuery(ctx, q, nil); err != nil {
			failed++
			lastErr = err
			logger.Debug("Schema statement skipped", zap.String("query", q), zap.Error(err))
		}
	}
	if len(statements) > 0 && failed == len(statements) {
		return fmt.Errorf("all %d schema statements failed: %w", failed, lastErr)
	}
	logger.Info("Schema ensured", zap.Int("statements", len(statements)), zap.Int("skipped", failed))
	return nil
}
