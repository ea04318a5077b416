package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rendis/cwlviz/internal/diagram"
	"github.com/rendis/cwlviz/internal/logging"
	"github.com/rendis/cwlviz/internal/viewer"
)

var renderFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// newSession builds a viewer session for a tool call, with correlation IDs
// on the context.
func (s *CwlvizServer) newSession(ctx context.Context, workflowPath string) (context.Context, *viewer.Viewer, error) {
	ctx = logging.WithDocument(ctx, workflowPath)
	ctx = logging.WithSessionID(ctx, uuid.New().String())

	v, err := viewer.New(ctx, workflowPath, s.converter, viewer.Options{
		Style:  s.style,
		Logger: s.logger,
	})
	if err != nil {
		return ctx, nil, err
	}
	return ctx, v, nil
}

// handleDot emits the DOT serialization of a workflow diagram.
func (s *CwlvizServer) handleDot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowPath, err := req.RequireString("workflow")
	if err != nil {
		return mcp.NewToolResultError("workflow is required"), nil
	}

	ctx, v, err := s.newSession(ctx, workflowPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("viewer construction failed: %v", err)), nil
	}

	s.logger.InfoContext(ctx, "dot emitted", slog.String("root", v.Root()))
	return mcp.NewToolResultText(v.DOT()), nil
}

// handleRender renders the workflow diagram and returns base64 image data.
func (s *CwlvizServer) handleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowPath, err := req.RequireString("workflow")
	if err != nil {
		return mcp.NewToolResultError("workflow is required"), nil
	}
	layout := req.GetString("layout", diagram.DefaultLayout)
	formatName := req.GetString("format", "png")

	format, ok := renderFormats[formatName]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", formatName)), nil
	}

	ctx, v, err := s.newSession(ctx, workflowPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("viewer construction failed: %v", err)), nil
	}

	data, err := diagram.Render(ctx, v.Graph(), layout, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}

	s.logger.InfoContext(ctx, "image rendered",
		slog.String("layout", layout),
		slog.String("format", formatName),
		slog.Int("bytes", len(data)))

	return marshalResult(map[string]any{
		"format": formatName,
		"layout": layout,
		"data":   base64.StdEncoding.EncodeToString(data),
	})
}

// handleRoot resolves the top-level workflow and reports diagram size.
func (s *CwlvizServer) handleRoot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowPath, err := req.RequireString("workflow")
	if err != nil {
		return mcp.NewToolResultError("workflow is required"), nil
	}

	_, v, err := s.newSession(ctx, workflowPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("viewer construction failed: %v", err)), nil
	}

	return marshalResult(map[string]any{
		"root":  v.Root(),
		"nodes": len(v.Graph().Nodes()),
		"edges": len(v.Graph().Edges()),
	})
}

// marshalResult serializes a value as an indented JSON tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
