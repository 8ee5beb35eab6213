// Package mcp exposes the assistant to MCP clients over stdio: querying an
// ingested document, listing documents, and reading index stats.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"docchat/internal/catalog"
	"docchat/internal/engine"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing document query tools.
type Server struct {
	engine  *engine.Engine
	catalog *catalog.Catalog
	mcp     *server.MCPServer
}

// NewServer creates an MCP server over the given engine. catalog may be nil.
func NewServer(eng *engine.Engine, cat *catalog.Catalog) *Server {
	s := &Server{engine: eng, catalog: cat}

	s.mcp = server.NewMCPServer(
		"docchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(queryDocumentTool, s.handleQueryDocument)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
	s.mcp.AddTool(indexStatsTool, s.handleIndexStats)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
