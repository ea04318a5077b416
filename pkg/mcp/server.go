// Package mcp exposes the workflow viewer over the Model Context Protocol
// so agents can request DOT text or rendered images for a workflow
// document.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rendis/cwlviz/internal/convert"
	"github.com/rendis/cwlviz/internal/diagram"
)

// CwlvizServerDeps holds the dependencies for creating a CwlvizServer.
type CwlvizServerDeps struct {
	Converter convert.Converter
	Style     diagram.Style
	Logger    *slog.Logger
}

// CwlvizServer wraps an MCP server with viewer tool handlers. Each tool
// call builds one independent viewer session.
type CwlvizServer struct {
	converter convert.Converter
	style     diagram.Style
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewCwlvizServer creates a CwlvizServer with all 3 tools registered.
func NewCwlvizServer(deps CwlvizServerDeps) *CwlvizServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	style := deps.Style
	if style == (diagram.Style{}) {
		style = diagram.DefaultStyle()
	}

	s := &CwlvizServer{
		converter: deps.Converter,
		style:     style,
		logger:    logger,
	}

	mcpSrv := server.NewMCPServer(
		"cwlviz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("cwlviz renders CWL workflow diagrams. Use cwlviz.dot for the Graphviz DOT text, cwlviz.render for an encoded image, and cwlviz.root to inspect the top-level workflow."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or
// stdin closes.
func (s *CwlvizServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom
// transports.
func (s *CwlvizServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the 3 registered MCP tools as ServerTool entries.
func (s *CwlvizServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: dotTool(), Handler: s.handleDot},
		{Tool: renderTool(), Handler: s.handleRender},
		{Tool: rootTool(), Handler: s.handleRoot},
	}
}

// --- Tool definitions ---

func dotTool() mcp.Tool {
	return mcp.NewTool("cwlviz.dot",
		mcp.WithDescription("Emit the Graphviz DOT text for a CWL workflow document"),
		mcp.WithString("workflow", mcp.Required(), mcp.Description("Path to the workflow document")),
	)
}

func renderTool() mcp.Tool {
	return mcp.NewTool("cwlviz.render",
		mcp.WithDescription("Render a CWL workflow diagram and return the image as base64"),
		mcp.WithString("workflow", mcp.Required(), mcp.Description("Path to the workflow document")),
		mcp.WithString("layout",
			mcp.Enum("dot", "neato", "fdp", "sfdp", "twopi", "circo", "osage", "patchwork"),
			mcp.Description("Graphviz layout engine (default: dot)"),
		),
		mcp.WithString("format",
			mcp.Enum("png", "svg", "jpg"),
			mcp.Description("Image format (default: png)"),
		),
	)
}

func rootTool() mcp.Tool {
	return mcp.NewTool("cwlviz.root",
		mcp.WithDescription("Resolve the top-level workflow of a document and report diagram size"),
		mcp.WithString("workflow", mcp.Required(), mcp.Description("Path to the workflow document")),
	)
}
