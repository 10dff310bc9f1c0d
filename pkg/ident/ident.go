// Package ident generates unique node and edge identifiers for workflow
// graphs. The graph store does not mint ids itself; it is handed a
// Generator so tests can substitute a deterministic one.
package ident

import "github.com/google/uuid"

// Generator produces fresh node and edge ids.
type Generator interface {
	NodeID() string
	EdgeID() string
}

// UUIDGenerator issues "node-<uuid>" / "edge-<uuid>" ids.
type UUIDGenerator struct{}

// NewGenerator returns the default UUID-backed generator.
func NewGenerator() Generator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NodeID() string {
	return "node-" + uuid.New().String()
}

func (UUIDGenerator) EdgeID() string {
	return "edge-" + uuid.New().String()
}
