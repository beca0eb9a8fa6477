package graph

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// =============================================================================
// Layout - Serialized Tree Layout
// =============================================================================

// Layout is the serialization format for a laid-out tree.
//
// The layout parameters (Strategy, Unit, LevelGap, OriginX/Y) are recorded so
// a renderer can size circles and margins consistently with how the
// positions were produced. Nodes are in pre-order; Edges follow the same
// order and list the left child before the right one.
type Layout struct {
	Strategy string  `json:"strategy" bson:"strategy"`
	Unit     float64 `json:"unit" bson:"unit"`
	LevelGap float64 `json:"level_gap" bson:"level_gap"`
	OriginX  float64 `json:"origin_x" bson:"origin_x"`
	OriginY  float64 `json:"origin_y" bson:"origin_y"`
	Bounds   Bounds  `json:"bounds" bson:"bounds"`

	// Tree summary
	Root       string `json:"root,omitempty" bson:"root,omitempty"`
	Size       int    `json:"size" bson:"size"`
	TreeHeight int    `json:"tree_height" bson:"tree_height"`
	Rotations  int    `json:"rotations,omitempty" bson:"rotations,omitempty"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// IsEmpty reports whether the layout has no nodes.
func (l *Layout) IsEmpty() bool { return len(l.Nodes) == 0 }

// Node returns the node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children indexes the edges by parent ID.
func (l *Layout) Children() map[string]Children {
	out := make(map[string]Children, len(l.Nodes))
	for _, e := range l.Edges {
		c := out[e.From]
		if e.Side == SideLeft {
			c.Left = e.To
		} else {
			c.Right = e.To
		}
		out[e.From] = c
	}
	return out
}

// Validate checks structural consistency: unique node IDs, a root that is
// the first node, edges between known nodes, and one parent per child.
func (l *Layout) Validate() error {
	if l.Size != len(l.Nodes) {
		return errors.New(errors.ErrCodeInvalidFormat, "layout size %d does not match %d nodes", l.Size, len(l.Nodes))
	}
	if len(l.Nodes) == 0 {
		if len(l.Edges) != 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "empty layout has %d edges", len(l.Edges))
		}
		return nil
	}
	if l.Root != l.Nodes[0].ID {
		return errors.New(errors.ErrCodeInvalidFormat, "root %q is not the first node", l.Root)
	}
	if len(l.Edges) != len(l.Nodes)-1 {
		return errors.New(errors.ErrCodeInvalidFormat, "%d nodes need %d edges, got %d", len(l.Nodes), len(l.Nodes)-1, len(l.Edges))
	}

	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate node %q", n.ID)
		}
		ids[n.ID] = true
	}

	type slot struct {
		parent, side string
	}
	seen := make(map[slot]bool, len(l.Edges))
	hasParent := make(map[string]bool, len(l.Edges))
	for _, e := range l.Edges {
		if !ids[e.From] || !ids[e.To] {
			return errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s references unknown node", e.From, e.To)
		}
		if e.Side != SideLeft && e.Side != SideRight {
			return errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s has side %q", e.From, e.To, e.Side)
		}
		if e.To == l.Root || hasParent[e.To] {
			return errors.New(errors.ErrCodeInvalidFormat, "node %q has more than one parent", e.To)
		}
		s := slot{e.From, e.Side}
		if seen[s] {
			return errors.New(errors.ErrCodeInvalidFormat, "node %q has two %s children", e.From, e.Side)
		}
		seen[s] = true
		hasParent[e.To] = true
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
