package main

import (
	"github.com/spf13/cobra"

	"github.com/rendis/cwlviz/internal/config"
	"github.com/rendis/cwlviz/pkg/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the viewer tools over MCP on stdio",
	Long: `Serve the viewer tools over the Model Context Protocol on stdio,
exposing cwlviz.dot, cwlviz.render and cwlviz.root.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	style, err := config.LoadStyle(stylePath)
	if err != nil {
		return err
	}

	conv, closer, err := newConverter(logger)
	if err != nil {
		return err
	}
	defer closer()

	srv := mcp.NewCwlvizServer(mcp.CwlvizServerDeps{
		Converter: conv,
		Style:     style,
		Logger:    logger,
	})
	return srv.Serve(cmd.Context())
}
