package workflow

import "sort"

// Reachable computes the set of node ids reachable forward from the
// trigger node. When the graph has no trigger-category node, every node
// is treated as reachable so the editor never filters a graph it cannot
// orient. Visited-set BFS, so cyclic graphs terminate.
func Reachable(def Definition) map[string]bool {
	reachable := make(map[string]bool, len(def.Nodes))

	trigger := findTrigger(def.Nodes)
	if trigger == nil {
		for _, n := range def.Nodes {
			reachable[n.ID] = true
		}
		return reachable
	}

	forward := buildAdjacency(def.Edges)
	queue := []string{trigger.ID}
	reachable[trigger.ID] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range forward[current] {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachable
}

// Terminals returns the trigger-reachable nodes with no outgoing edge
// inside the reachable subgraph, ordered by ascending y then ascending x
// so the ordering is deterministic under recomputation. The last element
// is the anchor for the trailing "add next step" affordance.
func Terminals(def Definition) []Node {
	reachable := Reachable(def)

	outdegree := make(map[string]int)
	for _, e := range def.Edges {
		if reachable[e.Source] && reachable[e.Target] {
			outdegree[e.Source]++
		}
	}

	var terminals []Node
	for _, n := range def.Nodes {
		if reachable[n.ID] && outdegree[n.ID] == 0 {
			terminals = append(terminals, n)
		}
	}
	sort.SliceStable(terminals, func(i, j int) bool {
		if terminals[i].Position.Y != terminals[j].Position.Y {
			return terminals[i].Position.Y < terminals[j].Position.Y
		}
		return terminals[i].Position.X < terminals[j].Position.X
	})
	return terminals
}

// LastTerminal returns the node the trailing "+" affordance attaches to:
// the last terminal in y-then-x order. ok is false for an empty graph.
// Earlier terminals exist but are deliberately not surfaced; a single
// insertion point is the contract.
func LastTerminal(def Definition) (Node, bool) {
	terminals := Terminals(def)
	if len(terminals) == 0 {
		return Node{}, false
	}
	return terminals[len(terminals)-1], true
}

// Ancestors computes the ids a node's configuration may legally
// reference: every node backward-reachable from target, in BFS traversal
// order, excluding the target itself. This is the graph-level guarantee
// that a referenced step runs before the referencing one; branch
// semantics are the execution backend's concern.
func Ancestors(def Definition, targetID string) []string {
	backward := make(map[string][]string, len(def.Edges))
	for _, e := range def.Edges {
		backward[e.Target] = append(backward[e.Target], e.Source)
	}

	seen := map[string]bool{targetID: true}
	var order []string
	queue := []string{targetID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, prev := range backward[current] {
			if !seen[prev] {
				seen[prev] = true
				order = append(order, prev)
				queue = append(queue, prev)
			}
		}
	}
	return order
}

func findTrigger(nodes []Node) *Node {
	for i := range nodes {
		if IsTrigger(nodes[i].Type) {
			return &nodes[i]
		}
	}
	return nil
}

func buildAdjacency(edges []Edge) map[string][]string {
	m := make(map[string][]string, len(edges))
	for _, e := range edges {
		m[e.Source] = append(m[e.Source], e.Target)
	}
	return m
}
