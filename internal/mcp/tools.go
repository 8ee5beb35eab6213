package mcp

import "github.com/mark3labs/mcp-go/mcp"

// queryDocumentTool defines the query_document MCP tool.
var queryDocumentTool = mcp.NewTool("query_document",
	mcp.WithDescription("Retrieve the passages of an ingested document most relevant to a question. Returns page-attributed excerpts."),
	mcp.WithString("document_id",
		mcp.Required(),
		mcp.Description("ID of the ingested document to query"),
	),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question about the document"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of excerpts to return (default 5)"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List the ingested documents with page and chunk counts."),
)

// indexStatsTool defines the index_stats MCP tool.
var indexStatsTool = mcp.NewTool("index_stats",
	mcp.WithDescription("Report how many chunks are indexed and for which document ids."),
)
