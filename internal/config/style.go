// Package config loads the optional diagram style file: a JSON document of
// partial overrides applied on top of the default cwlviewer styling,
// validated against an embedded JSON Schema.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rendis/cwlviz/internal/diagram"
	"github.com/rendis/cwlviz/pkg/cwl"
)

// styleSchemaJSON validates style files. Embedded as a constant to avoid
// filesystem dependencies.
const styleSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://cwlviz.dev/schemas/style.json",
  "type": "object",
  "properties": {
    "background":    { "type": "string", "minLength": 1 },
    "label_justify": { "type": "string", "enum": ["l", "r", "c"] },
    "cluster_rank":  { "type": "string", "enum": ["local", "global", "none"] },
    "node_shape":    { "type": "string", "minLength": 1 },
    "step_fill":     { "type": "string", "minLength": 1 },
    "boundary_fill": { "type": "string", "minLength": 1 },
    "inputs_title":  { "type": "string" },
    "outputs_title": { "type": "string" }
  },
  "additionalProperties": false
}`

var styleSchema = mustCompileStyleSchema()

func mustCompileStyleSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(styleSchemaJSON))
	if err != nil {
		panic(fmt.Errorf("unmarshal style schema: %w", err))
	}
	if err := c.AddResource("https://cwlviz.dev/schemas/style.json", doc); err != nil {
		panic(fmt.Errorf("add style schema resource: %w", err))
	}
	s, err := c.Compile("https://cwlviz.dev/schemas/style.json")
	if err != nil {
		panic(fmt.Errorf("compile style schema: %w", err))
	}
	return s
}

// LoadStyle reads a style override file and applies it on top of the
// defaults. An empty path returns the defaults unchanged.
func LoadStyle(path string) (diagram.Style, error) {
	style := diagram.DefaultStyle()
	if path == "" {
		return style, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return style, cwl.NewErrorf(cwl.ErrCodeConfig, "read style file %s", path).WithCause(err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return style, cwl.NewErrorf(cwl.ErrCodeConfig, "style file %s is not valid JSON", path).WithCause(err)
	}
	if err := styleSchema.Validate(doc); err != nil {
		return style, toConfigError(err)
	}

	if err := json.Unmarshal(data, &style); err != nil {
		return style, cwl.NewErrorf(cwl.ErrCodeConfig, "decode style file %s", path).WithCause(err)
	}
	return style, nil
}

// toConfigError converts a jsonschema.ValidationError into a CONFIG_ERROR
// listing the leaf violations.
func toConfigError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return cwl.NewError(cwl.ErrCodeConfig, err.Error())
	}
	violations := collectViolations(verr)
	return cwl.NewErrorf(cwl.ErrCodeConfig, "invalid style file: %s", strings.Join(violations, "; "))
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
