package mcp

import (
	"context"

	"github.com/claude/weeklog/internal/export"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) schedule(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := h.ds.Export(ctx, export.FormatText)
	if err != nil {
		h.log.Warn("schedule resource: export failed", "error", err)
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}
