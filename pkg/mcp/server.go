package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/neatc0der/bacnet/pkg/bacnet/schema"
	"github.com/neatc0der/bacnet/pkg/engine"
)

// Server wraps the MCP server with the console's browse and write tools
type Server struct {
	mcpServer *server.MCPServer
	sync      *engine.Engine
	validator *schema.Validator
}

// NewServer creates a new MCP server for BACnet device control
func NewServer(sync *engine.Engine, validator *schema.Validator) *Server {
	s := &Server{
		sync:      sync,
		validator: validator,
	}

	s.mcpServer = server.NewMCPServer(
		"bacnet-console",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
