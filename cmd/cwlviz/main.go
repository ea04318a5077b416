// Package main provides the cwlviz CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rendis/cwlviz/internal/config"
	"github.com/rendis/cwlviz/internal/convert"
	"github.com/rendis/cwlviz/internal/logging"
	"github.com/rendis/cwlviz/internal/viewer"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	cwltoolBin string
	stylePath  string
	cachePath  string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cwlviz",
	Short: "Visualize CWL workflows",
	Long: `cwlviz renders Common Workflow Language workflows as diagrams.

It converts the workflow to an RDF fact graph with cwltool, assembles a
Graphviz diagram of the steps, their data links and the workflow-level
inputs and outputs, and emits DOT text or a rendered image.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&cwltoolBin, "cwltool", "", "cwltool binary to use for conversion (default: cwltool on PATH)")
	rootCmd.PersistentFlags().StringVar(&stylePath, "style", "", "JSON style override file")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "conversion cache database path (disabled when empty)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// newLogger builds the process logger with session correlation.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(logging.NewCorrelationHandler(inner))
}

// newConverter wires the cwltool converter, fronted by the cache when one
// is configured. The returned closer releases the cache store.
func newConverter(logger *slog.Logger) (convert.Converter, func(), error) {
	base := convert.NewCwltoolConverter(cwltoolBin, logger)
	if cachePath == "" {
		return base, func() {}, nil
	}

	store, err := convert.OpenCacheStore("file:" + cachePath)
	if err != nil {
		return nil, nil, err
	}
	return convert.NewCachedConverter(base, store, logger), func() { _ = store.Close() }, nil
}

// newViewer runs the full pipeline for one document.
func newViewer(ctx context.Context, documentPath string, logger *slog.Logger) (*viewer.Viewer, func(), error) {
	style, err := config.LoadStyle(stylePath)
	if err != nil {
		return nil, nil, err
	}

	conv, closer, err := newConverter(logger)
	if err != nil {
		return nil, nil, err
	}

	ctx = logging.WithDocument(ctx, documentPath)
	ctx = logging.WithSessionID(ctx, uuid.New().String())

	v, err := viewer.New(ctx, documentPath, conv, viewer.Options{Style: style, Logger: logger})
	if err != nil {
		closer()
		return nil, nil, err
	}
	return v, closer, nil
}
