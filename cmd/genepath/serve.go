package main

import (
	"github.com/spf13/cobra"

	"github.com/agenthands/genepath/internal/observability"
	"github.com/agenthands/genepath/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface and JSON API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port := a.v.GetString("server.port"); port != "" {
				a.cfg.Server.Port = port
			}
			return server.ListenAndServe(cmd.Context(), a.cfg, observability.GetLogger())
		},
	}
	cmd.Flags().StringP("port", "p", "", "listen port (defaults to the configured port)")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}
