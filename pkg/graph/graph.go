package graph

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// =============================================================================
// Streaming Layout API
// =============================================================================

// WriteLayout writes a Layout as indented JSON to an io.Writer.
// Use MarshalLayout for in-memory serialization or WriteLayoutFile for files.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return nil
}

// ReadLayout decodes and validates a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
