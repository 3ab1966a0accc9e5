package model

import (
	"encoding/json"
	"fmt"
)

// RiskTier is the three-level classification of a continuous risk score.
type RiskTier string

const (
	TierLow    RiskTier = "LOW"
	TierMedium RiskTier = "MEDIUM"
	TierHigh   RiskTier = "HIGH"
)

// String returns the string representation of the tier.
func (t RiskTier) String() string {
	return string(t)
}

// IsValid checks whether the tier is one of the three known values.
func (t RiskTier) IsValid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	}
	return false
}

// GraphNode is a styled lead ready for force-directed rendering.
type GraphNode struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	ColorTier RiskTier `json:"color_tier"`
	Color     string   `json:"color"`
	Size      float64  `json:"size"`
	Tooltip   string   `json:"tooltip"`
}

// GraphEdge is an undirected connection between two lead ids.
// It encodes as a two-element JSON array.
type GraphEdge struct {
	Source string
	Target string
}

// MarshalJSON encodes the edge as [source, target].
func (e GraphEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Source, e.Target})
}

// UnmarshalJSON decodes an edge from [source, target].
func (e *GraphEdge) UnmarshalJSON(data []byte) error {
	var pair []LeadID
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("edge must have exactly 2 endpoints, got %d", len(pair))
	}
	e.Source, e.Target = string(pair[0]), string(pair[1])
	return nil
}

// Connects reports whether the edge joins a and b in either direction.
func (e GraphEdge) Connects(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}

// GraphStats holds aggregate counts about a built graph. The last three
// fields surface data-quality conditions that the builder tolerates.
type GraphStats struct {
	NodeCount           int `json:"node_count"`
	EdgeCount           int `json:"edge_count"`
	ComponentCount      int `json:"component_count"`
	SelfLoops           int `json:"self_loops"`
	DanglingConnections int `json:"dangling_connections"`
	DuplicateIDs        int `json:"duplicate_ids"`
}

// Graph is the derived, ephemeral relationship graph for a lead collection.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats GraphStats  `json:"stats"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// HasEdge reports whether an edge joins a and b.
func (g *Graph) HasEdge(a, b string) bool {
	for _, e := range g.Edges {
		if e.Connects(a, b) {
			return true
		}
	}
	return false
}
