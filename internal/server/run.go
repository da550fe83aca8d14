package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// ListenAndServe wires the pipeline from cfg and serves until ctx is done.
func ListenAndServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	metrics := observability.NewCollector("genepath")
	pathway, cleanup := BuildPathway(ctx, cfg, logger, metrics)
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           NewServer(pathway, logger, metrics).SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
