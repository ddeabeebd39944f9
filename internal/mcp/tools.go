package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the security knowledge base semantically. Returns the most relevant document chunks."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("org",
		mcp.Description("Tenant to search (default \"default\")"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of chunks to return (default 6)"),
	),
)

// askTool defines the ask MCP tool.
var askTool = mcp.NewTool("ask",
	mcp.WithDescription("Ask a question and get an answer grounded in the knowledge base, with citations."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithString("org",
		mcp.Description("Tenant whose knowledge to use (default \"default\")"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List the documents ingested for a tenant."),
	mcp.WithString("org",
		mcp.Description("Tenant to list (default \"default\")"),
	),
)
