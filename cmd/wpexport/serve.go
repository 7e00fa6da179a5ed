package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/exportlog"
	mcpserver "github.com/gnana997/wpexport/pkg/mcp"
	"github.com/gnana997/wpexport/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			svc, closeLog, err := a.service()
			if err != nil {
				return err
			}
			defer closeLog()

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(svc, server.Config{
				Addr:        addr,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Logger:      a.logger,
			})

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	var callLog string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdin/stdout",
		Long: `Start the MCP server on stdin/stdout. Logs go to stderr; use
"wpexport setup" to register the server with an AI agent.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, closeLog, err := a.service()
			if err != nil {
				return err
			}
			defer closeLog()

			calls, err := exportlog.NewLogger(callLog)
			if err != nil {
				return err
			}
			defer calls.Close()

			a.logger.Info("MCP server starting", "version", version)
			return mcpserver.NewServer(svc, calls).ServeStdio()
		},
	}
	cmd.Flags().StringVar(&callLog, "call-log", "", "append one JSONL line per tool call to this file")
	return cmd
}
