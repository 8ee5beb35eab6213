package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleQueryDocument retrieves the most relevant excerpts for a question.
func (s *Server) handleQueryDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: document_id"), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	res := s.engine.Query(ctx, docID, question)
	excerpts := res.Excerpts
	if len(excerpts) > limit {
		excerpts = excerpts[:limit]
	}

	if len(excerpts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No relevant passages found in %q. The document may not be ingested yet; run `docchat ingest` first.",
			docID,
		)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d excerpt(s)", len(excerpts)))
	if res.Fallback {
		sb.WriteString(" (keyword match; embeddings unavailable)")
	}
	sb.WriteString(":\n")
	for i, e := range excerpts {
		sb.WriteString(fmt.Sprintf("\n--- Excerpt %d (page %d", i+1, e.Page))
		if e.Score > 0 {
			sb.WriteString(fmt.Sprintf(", score %.3f", e.Score))
		}
		sb.WriteString(") ---\n")
		sb.WriteString(e.Text)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListDocuments lists ingested documents, preferring the persistent
// catalog when one is attached.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder

	if s.catalog != nil {
		entries, err := s.catalog.List()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing documents: %v", err)), nil
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("No documents ingested yet."), nil
		}
		sb.WriteString(fmt.Sprintf("%d document(s):\n", len(entries)))
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("\n- %s (%q): %d pages, %d chunks", e.ID, e.Title, e.Pages, e.Chunks))
			if e.OCRPages > 0 {
				sb.WriteString(fmt.Sprintf(", %d OCR pages", e.OCRPages))
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	docs := s.engine.Documents()
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents ingested yet."), nil
	}
	sb.WriteString(fmt.Sprintf("%d document(s):\n", len(docs)))
	for _, d := range docs {
		sb.WriteString(fmt.Sprintf("\n- %s (%q): %d pages", d.ID, d.Title, len(d.Pages)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleIndexStats reports index contents.
func (s *Server) handleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.engine.IndexStats()
	if stats.EntryCount == 0 {
		return mcp.NewToolResultText("The index is empty."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%d chunks indexed across %d document(s): %s",
		stats.EntryCount, len(stats.DocumentIDs), strings.Join(stats.DocumentIDs, ", "),
	)), nil
}
