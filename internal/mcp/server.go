// Package mcp exposes the knowledge base to MCP clients: semantic search,
// grounded question answering, and the per-tenant document inventory.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/cisohq/reasond/internal/manifest"
	"github.com/cisohq/reasond/internal/reason"
	"github.com/cisohq/reasond/internal/retrieval"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server speaking stdio.
type Server struct {
	retriever *retrieval.Retriever
	engine    *reason.Engine
	manifest  *manifest.Manifest
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server. manifest may be nil when no local
// ingest state exists; the list_documents tool then reports that.
func NewServer(retriever *retrieval.Retriever, engine *reason.Engine, man *manifest.Manifest) *Server {
	s := &Server{
		retriever: retriever,
		engine:    engine,
		manifest:  man,
	}

	s.mcp = server.NewMCPServer(
		"reasond",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(askTool, s.handleAsk)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
