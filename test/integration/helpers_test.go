//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core"
	"github.com/agenthands/genepath/internal/server"
)

// loadConfig reads the repository config and .env like the server does.
func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadOrDefault("../../config/config.toml")
	require.NoError(t, err)
	return cfg
}

func buildPathway(t *testing.T, cfg *config.Config) *core.Pathway {
	t.Helper()
	p, cleanup := server.BuildPathway(context.Background(), cfg, zaptest.NewLogger(t), nil)
	t.Cleanup(cleanup)
	return p
}
