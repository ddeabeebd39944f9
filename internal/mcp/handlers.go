package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cisohq/reasond/internal/reason"
	"github.com/cisohq/reasond/internal/retrieval"
)

// handleSearchKnowledge performs semantic search over the knowledge store.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	org := request.GetString("org", "default")
	limit := request.GetInt("limit", retrieval.DefaultTopK)
	if limit <= 0 {
		limit = retrieval.DefaultTopK
	}

	if !s.retriever.Available() {
		return mcp.NewToolResultError("no knowledge store is configured"), nil
	}

	chunks := s.retriever.Retrieve(ctx, org, query, limit)
	if len(chunks) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may be empty; run `reasond ingest` to add documents."), nil
	}

	return mcp.NewToolResultText(formatChunks(chunks)), nil
}

// handleAsk runs a full grounded reasoning turn and returns answer plus citations.
func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	org := request.GetString("org", "default")

	resp, err := s.engine.Respond(ctx, reason.Request{
		Channel: "text",
		Org:     org,
		Text:    question,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}

	var sb strings.Builder
	for _, m := range resp.Messages {
		sb.WriteString(m.Text)
		sb.WriteString("\n")
	}
	if len(resp.Citations) > 0 {
		sb.WriteString("\nSources:\n")
		for i, c := range resp.Citations {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, c.Title))
			if c.URL != "" {
				sb.WriteString(" (" + c.URL + ")")
			}
			sb.WriteString("\n")
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// handleListDocuments returns the per-tenant ingest inventory.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	org := request.GetString("org", "default")

	if s.manifest == nil {
		return mcp.NewToolResultError("no local ingest state is available"), nil
	}

	docs, err := s.manifest.List(org)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documents ingested for %q.", org)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d document(s) for %q:\n", len(docs), org))
	for _, d := range docs {
		sb.WriteString(fmt.Sprintf("- %s (%d chunks, updated %s)\n",
			d.RelPath, d.ChunkCount, d.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatChunks converts retrieved chunks into a rich text format optimized
// for AI agent consumption.
func formatChunks(chunks []retrieval.Chunk) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(chunks)))

	for i, c := range chunks {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", c.Title()))
		if path := c.Meta["path"]; path != "" {
			sb.WriteString(fmt.Sprintf("Document: %s#%d\n", path, c.N))
		}
		sb.WriteString("\n")
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
