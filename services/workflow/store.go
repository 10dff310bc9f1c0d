package workflow

import (
	"autoflow/api/pkg/ident"
)

// Store holds the authoritative node/edge lists for one workflow being
// edited and exposes structure-preserving mutations. It is exclusively
// owned by a single editor session: all operations run synchronously and
// none suspend. Invalid input (unknown node or edge id, self-loop,
// duplicate id) makes an operation a no-op rather than an error, so the
// editor stays interactive even when a gesture races a delete.
type Store struct {
	nodes []Node
	edges []Edge
	ids   ident.Generator

	// onChange, when set, receives a snapshot of the definition after
	// every mutation that changed the graph. The containing collaborator
	// stages the snapshot for persistence.
	onChange func(Definition)
}

// NewStore seeds a store from a persisted definition. A nil generator
// falls back to the default UUID generator.
func NewStore(def Definition, ids ident.Generator) *Store {
	if ids == nil {
		ids = ident.NewGenerator()
	}
	s := &Store{ids: ids}
	s.nodes = append(s.nodes, def.Nodes...)
	s.edges = append(s.edges, def.Edges...)
	return s
}

// OnChange registers the definition-changed callback.
func (s *Store) OnChange(fn func(Definition)) {
	s.onChange = fn
}

// Definition returns a snapshot of the current graph. Node and edge
// structs are copied; the caller must not rely on sharing.
func (s *Store) Definition() Definition {
	def := Definition{Nodes: make([]Node, len(s.nodes)), Edges: make([]Edge, len(s.edges))}
	copy(def.Nodes, s.nodes)
	copy(def.Edges, s.edges)
	return def
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.Definition())
	}
}

func (s *Store) nodeIndex(id string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) edgeIndex(id string) int {
	for i := range s.edges {
		if s.edges[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) edgeIndexByPair(source, target string) int {
	for i := range s.edges {
		if s.edges[i].Source == source && s.edges[i].Target == target {
			return i
		}
	}
	return -1
}

// SetNodeField merges patch into the target node's configuration. A
// "label" key updates the display label; everything else lands in
// Data.Config. No-op if the node id is unknown.
func (s *Store) SetNodeField(nodeID string, patch map[string]any) {
	i := s.nodeIndex(nodeID)
	if i < 0 || len(patch) == 0 {
		return
	}
	node := &s.nodes[i]
	for k, v := range patch {
		if k == "label" {
			if label, ok := v.(string); ok {
				node.Data.Label = label
				continue
			}
		}
		if node.Data.Config == nil {
			node.Data.Config = make(map[string]any, len(patch))
		}
		node.Data.Config[k] = v
	}
	s.notify()
}

// AddNode appends a node. The id must be unique within the workflow; a
// colliding id is rejected as a no-op so it cannot silently shadow
// lookups. Reports whether the node was added.
func (s *Store) AddNode(node Node) bool {
	if node.ID == "" || s.nodeIndex(node.ID) >= 0 {
		return false
	}
	s.nodes = append(s.nodes, node)
	s.notify()
	return true
}

// DeleteNode removes the node and every edge touching it in the same
// operation, so no edge endpoint ever dangles. No-op if the id is unknown.
func (s *Store) DeleteNode(nodeID string) {
	i := s.nodeIndex(nodeID)
	if i < 0 {
		return
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source != nodeID && e.Target != nodeID {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	s.notify()
}

// ConnectOrToggle adds an edge source→target, or removes it if one
// already exists, making the connect gesture double as disconnect.
// Self-loops and unknown endpoints are rejected.
func (s *Store) ConnectOrToggle(source, target string) {
	if source == target {
		return
	}
	if s.nodeIndex(source) < 0 || s.nodeIndex(target) < 0 {
		return
	}
	if i := s.edgeIndexByPair(source, target); i >= 0 {
		s.edges = append(s.edges[:i], s.edges[i+1:]...)
		s.notify()
		return
	}
	s.edges = append(s.edges, Edge{ID: s.ids.EdgeID(), Source: source, Target: target})
	s.notify()
}

// ReconnectEdge re-points an existing edge's endpoint(s); an empty
// newSource or newTarget keeps that endpoint. Dropping the edge over
// empty canvas (both arguments empty) deletes it. If the re-pointed pair
// collides with a different edge, both edges are removed rather than
// leaving a duplicate. A re-point that would form a self-loop is rejected.
func (s *Store) ReconnectEdge(edgeID, newSource, newTarget string) {
	i := s.edgeIndex(edgeID)
	if i < 0 {
		return
	}
	if newSource == "" && newTarget == "" {
		s.edges = append(s.edges[:i], s.edges[i+1:]...)
		s.notify()
		return
	}
	source, target := s.edges[i].Source, s.edges[i].Target
	if newSource != "" {
		if s.nodeIndex(newSource) < 0 {
			return
		}
		source = newSource
	}
	if newTarget != "" {
		if s.nodeIndex(newTarget) < 0 {
			return
		}
		target = newTarget
	}
	if source == target {
		return
	}
	if j := s.edgeIndexByPair(source, target); j >= 0 && j != i {
		// Merge by deletion: drop both the dragged edge and the
		// colliding edge.
		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		s.edges = append(s.edges[:hi], s.edges[hi+1:]...)
		s.edges = append(s.edges[:lo], s.edges[lo+1:]...)
		s.notify()
		return
	}
	s.edges[i].Source = source
	s.edges[i].Target = target
	s.notify()
}

// InsertNodeOnEdge splices a new node into an existing edge: the edge is
// removed and replaced by source→node and node→target. No-op if the edge
// id is unknown or the node id collides with an existing node.
func (s *Store) InsertNodeOnEdge(edgeID string, node Node) bool {
	i := s.edgeIndex(edgeID)
	if i < 0 || node.ID == "" || s.nodeIndex(node.ID) >= 0 {
		return false
	}
	source, target := s.edges[i].Source, s.edges[i].Target
	s.edges = append(s.edges[:i], s.edges[i+1:]...)
	s.nodes = append(s.nodes, node)
	s.edges = append(s.edges,
		Edge{ID: s.ids.EdgeID(), Source: source, Target: node.ID},
		Edge{ID: s.ids.EdgeID(), Source: node.ID, Target: target},
	)
	s.notify()
	return true
}

// ShiftNodesBelow moves every node at or below the anchor's y coordinate
// by deltaY. Layout only; topology is untouched. No-op if the anchor id
// is unknown.
func (s *Store) ShiftNodesBelow(anchorNodeID string, deltaY float64) {
	i := s.nodeIndex(anchorNodeID)
	if i < 0 || deltaY == 0 {
		return
	}
	anchorY := s.nodes[i].Position.Y
	for j := range s.nodes {
		if s.nodes[j].Position.Y >= anchorY {
			s.nodes[j].Position.Y += deltaY
		}
	}
	s.notify()
}
