package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/render-examples/create-demo/internal/output"
)

// Marshal renders doc as YAML (indent 2) or JSON. A nil document renders
// to nil.
func Marshal(doc *Document, format output.Format) ([]byte, error) {
	if doc == nil {
		return nil, nil
	}

	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling blueprint to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case output.FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("marshaling blueprint to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling blueprint to YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported blueprint format %q", format)
	}
}

// Parse decodes a render.yaml in either shape.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing blueprint: %w", err)
	}
	return &doc, nil
}
