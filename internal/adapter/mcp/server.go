// Package mcp exposes runs and artifacts to AI agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/strandwork/overseer/internal/service"
)

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Addr    string
	Name    string
	Version string
}

// Server wraps an MCP server exposing the run surface as tools.
type Server struct {
	cfg       ServerConfig
	mcpServer *mcpserver.MCPServer
	httpSrv   *mcpserver.StreamableHTTPServer
	sessions  *service.SessionManager
}

// NewServer creates an MCP server with all Overseer tools registered.
func NewServer(cfg ServerConfig, sessions *service.SessionManager) *Server {
	s := &Server{
		cfg: cfg,
		mcpServer: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
		),
		sessions: sessions,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server, mainly for tests.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Start serves MCP over streamable HTTP. Blocks until Stop or failure.
func (s *Server) Start() error {
	s.httpSrv = mcpserver.NewStreamableHTTPServer(s.mcpServer)
	slog.Info("mcp server starting", "addr", s.cfg.Addr)
	if err := s.httpSrv.Start(s.cfg.Addr); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the MCP server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// toolResultJSON wraps a JSON payload as a text tool result.
func toolResultJSON(data string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(data)
}
