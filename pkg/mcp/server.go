// Package mcp exposes the exporters as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/exportlog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for wpexport, exposing export,
// validation and inspection tools.
type Server struct {
	mcpServer *server.MCPServer
	svc       *export.Service
	logger    *exportlog.Logger // may be nil
}

// NewServer creates a new MCP server backed by svc. When logger is non-nil
// every tool call is appended to it.
func NewServer(svc *export.Service, logger *exportlog.Logger) *Server {
	s := &Server{svc: svc, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("wpexport", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listTargetsTool(), Handler: s.handleListTargets},
		server.ServerTool{Tool: exportPageTool(), Handler: s.handleExportPage},
		server.ServerTool{Tool: validatePageTool(), Handler: s.handleValidatePage},
		server.ServerTool{Tool: inspectPageTool(), Handler: s.handleInspectPage},
		server.ServerTool{Tool: detectWidgetsTool(), Handler: s.handleDetectWidgets},
		server.ServerTool{Tool: linkTokensTool(), Handler: s.handleLinkTokens},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
