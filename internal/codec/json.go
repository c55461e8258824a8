package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"topoedit/internal/domain"
)

// JSONCodec reads and writes topology snapshots as JSON
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a topology from a JSON snapshot. Session and animation
// state are ignored by importers; link geometry is recomputed from the
// node positions.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Graph, error) {
	var graph domain.Graph
	if err := json.NewDecoder(r).Decode(&graph); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := normalize(&graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

// Export writes the full snapshot, including session and animations
func (c *JSONCodec) Export(graph *domain.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
