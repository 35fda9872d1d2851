// Package linterjson reads validation output produced by the analysis tool,
// in either the canonical messages shape or the linter's bucketed shape.
package linterjson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/addonhub/devhub/internal/domain"
)

const canonicalSchema = `{
  "type": "object",
  "required": ["messages"],
  "properties": {
    "messages": {"type": "array", "items": {"type": "object"}},
    "errors": {"type": "integer"},
    "warnings": {"type": "integer"},
    "notices": {"type": "integer"},
    "metadata": {"type": "object"}
  }
}`

const linterSchema = `{
  "type": "object",
  "required": ["errors", "warnings", "notices"],
  "properties": {
    "errors": {"type": "array", "items": {"type": "object"}},
    "warnings": {"type": "array", "items": {"type": "object"}},
    "notices": {"type": "array", "items": {"type": "object"}},
    "summary": {"type": "object"},
    "metadata": {"type": "object"}
  }
}`

var (
	canonical = jsonschema.MustCompileString("canonical.json", canonicalSchema)
	linter    = jsonschema.MustCompileString("linter.json", linterSchema)
)

// Shape names the layout of a decoded document.
type Shape string

const (
	ShapeCanonical Shape = "canonical"
	ShapeLinter    Shape = "linter"
)

// Detect reports which layout data uses. It only probes for the messages key;
// Decode does the actual validation.
func Detect(data []byte) Shape {
	if gjson.GetBytes(data, "messages").Exists() {
		return ShapeCanonical
	}
	return ShapeLinter
}

// Decode parses and validates a validation document. Errors wrap
// domain.ErrMalformedLinterOutput.
func Decode(data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", domain.ErrMalformedLinterOutput)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", domain.ErrMalformedLinterOutput)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedLinterOutput, err)
	}

	shape := Detect(data)
	schema := linter
	if shape == ShapeCanonical {
		schema = canonical
	}
	if err := schema.Validate(any(doc)); err != nil {
		return nil, fmt.Errorf("%w: %s output: %v", domain.ErrMalformedLinterOutput, shape, err)
	}
	return doc, nil
}

// ReadFile reads and decodes the validation document at path.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
