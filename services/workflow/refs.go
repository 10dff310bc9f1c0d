package workflow

import "fmt"

// ReferenceOption is one selectable output-reference expression offered
// when configuring a step. Field is empty for the whole-output option.
type ReferenceOption struct {
	NodeID     string `json:"nodeId"`
	NodeLabel  string `json:"nodeLabel"`
	Field      string `json:"field,omitempty"`
	Expression string `json:"expression"`
}

// ReferenceOptions lists the expressions a node's configuration may
// reference, built from its ancestor set and the output schema registry.
// For each ancestor, in resolver traversal order: the full-output
// expression first, then one per documented field of the ancestor's step
// type. An empty result means no candidates exist and the caller must
// fall back to free-text entry.
func ReferenceOptions(def Definition, targetID string) []ReferenceOption {
	byID := make(map[string]*Node, len(def.Nodes))
	for i := range def.Nodes {
		byID[def.Nodes[i].ID] = &def.Nodes[i]
	}

	var options []ReferenceOption
	for _, id := range Ancestors(def, targetID) {
		node, ok := byID[id]
		if !ok {
			continue
		}
		options = append(options, ReferenceOption{
			NodeID:     id,
			NodeLabel:  node.Data.Label,
			Expression: fmt.Sprintf("nodes.%s.output", id),
		})
		for _, field := range OutputFields(node.Type) {
			options = append(options, ReferenceOption{
				NodeID:     id,
				NodeLabel:  node.Data.Label,
				Field:      field,
				Expression: fmt.Sprintf("nodes.%s.output.%s", id, field),
			})
		}
	}
	return options
}

// WrapExpression adds the double-brace delimiter used when an expression
// is inserted into a text field.
func WrapExpression(expr string) string {
	return "{{" + expr + "}}"
}
