package workflow

import (
	"encoding/json"
	"time"
)

// Workflow represents a persisted automation workflow with its graph definition.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Definition returns the workflow's graph as a standalone Definition.
func (w *Workflow) Definition() Definition {
	return Definition{Nodes: w.Nodes, Edges: w.Edges}
}

// Node represents a single step in a workflow graph. Type is the step-type
// tag (e.g. "timer_trigger", "jupiter_swap"); Position is a layout
// coordinate with no meaning to the graph algorithms.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Position holds x/y coordinates for rendering the node on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData holds the display label and step-specific configuration for a node.
type NodeData struct {
	Label  string         `json:"label"`
	Config map[string]any `json:"config,omitempty"`
}

// Edge represents a directed connection between two nodes: the target may
// run after the source completes. Presentational fields are round-tripped
// for the frontend untouched.
type Edge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Label      string         `json:"label,omitempty"`
	Type       string         `json:"type,omitempty"`
	Animated   bool           `json:"animated,omitempty"`
	Style      map[string]any `json:"style,omitempty"`
	LabelStyle map[string]any `json:"labelStyle,omitempty"`
}

// Definition is the portable graph shape exchanged with the execution
// backend: just nodes and edges. No structural invariant is enforced at
// this layer; the Store's mutation operations maintain them incrementally.
type Definition struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// UnmarshalJSON decodes a definition leniently: a missing or malformed
// "nodes" or "edges" field degrades to an empty slice instead of failing,
// so a damaged persisted definition still opens as an editable graph.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	d.Nodes = []Node{}
	d.Edges = []Edge{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if len(raw.Nodes) > 0 {
		var nodes []Node
		if err := json.Unmarshal(raw.Nodes, &nodes); err == nil && nodes != nil {
			d.Nodes = nodes
		}
	}
	if len(raw.Edges) > 0 {
		var edges []Edge
		if err := json.Unmarshal(raw.Edges, &edges); err == nil && edges != nil {
			d.Edges = edges
		}
	}
	return nil
}
