// Package convert turns a workflow document into a serialized fact graph
// by delegating to an external conversion tool, optionally fronted by a
// content-addressed cache.
package convert

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/rendis/cwlviz/pkg/cwl"
)

// DefaultCwltoolBin is the conversion tool looked up on PATH when no
// explicit binary is configured.
const DefaultCwltoolBin = "cwltool"

// Converter produces a fact-graph serialization (Turtle) for a workflow
// document. The core depends on nothing else about the tool.
type Converter interface {
	Convert(ctx context.Context, documentPath string) ([]byte, error)
}

// CwltoolConverter shells out to cwltool --print-rdf. Failures surface the
// tool's stderr verbatim; there are no retries.
type CwltoolConverter struct {
	Bin    string
	Logger *slog.Logger
}

// NewCwltoolConverter returns a converter using the given binary, or
// cwltool from PATH when bin is empty.
func NewCwltoolConverter(bin string, logger *slog.Logger) *CwltoolConverter {
	if bin == "" {
		bin = DefaultCwltoolBin
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CwltoolConverter{Bin: bin, Logger: logger}
}

// Convert runs the tool and returns its stdout, the Turtle serialization
// of the document's fact graph.
func (c *CwltoolConverter) Convert(ctx context.Context, documentPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Bin, "--quiet", "--print-rdf", documentPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.Logger.Debug("converting workflow document",
		slog.String("bin", c.Bin),
		slog.String("document", documentPath))

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "conversion tool failed"
		}
		return nil, cwl.NewError(cwl.ErrCodeConversion, msg).WithCause(err)
	}
	return stdout.Bytes(), nil
}
