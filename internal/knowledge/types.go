package knowledge

import (
	"fmt"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Lookup result sources.
const (
	SourceCache = "cache"
	SourceNeo4j = "neo4j"
)

// NodeSpec is a logical node in a graph write payload. The ID is caller
// assigned and only meaningful within the payload; the store assigns the
// durable identifier at creation time.
type NodeSpec struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// RelationshipSpec is a logical edge referencing two NodeSpec IDs from the
// same payload.
type RelationshipSpec struct {
	Type        string         `json:"type"`
	StartNodeID string         `json:"start_node_id"`
	EndNodeID   string         `json:"end_node_id"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// GraphPayload is a batch of nodes and relationships written atomically in
// submission order: all nodes first, then all relationships.
type GraphPayload struct {
	Nodes         []NodeSpec         `json:"nodes"`
	Relationships []RelationshipSpec `json:"relationships,omitempty"`
}

// Validate checks structural integrity of the payload. Relationship endpoint
// resolution is checked at write time against the actual id mapping.
func (p *GraphPayload) Validate() error {
	if len(p.Nodes) == 0 && len(p.Relationships) == 0 {
		return types.NewError(ErrCodeInvalidPayload, "payload has no nodes or relationships")
	}

	seen := make(map[string]struct{}, len(p.Nodes))
	for i, node := range p.Nodes {
		if node.ID == "" {
			return types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("node %d has no logical id", i))
		}
		if !types.ValidLabel(node.Label) {
			return types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("node %q has unknown label %q", node.ID, node.Label))
		}
		if _, dup := seen[node.ID]; dup {
			return types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("duplicate logical node id %q", node.ID))
		}
		seen[node.ID] = struct{}{}
	}

	for i, rel := range p.Relationships {
		if !types.ValidRelationshipType(rel.Type) {
			return types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("relationship %d has unknown type %q", i, rel.Type))
		}
		if rel.StartNodeID == "" || rel.EndNodeID == "" {
			return types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("relationship %d is missing an endpoint id", i))
		}
	}
	return nil
}

// QueryExistingRequest asks whether an entity with this name already exists
// under the given label.
type QueryExistingRequest struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Validate checks the request fields.
func (r *QueryExistingRequest) Validate() error {
	if r.Name == "" {
		return types.NewError(ErrCodeInvalidRequest, "name cannot be empty")
	}
	if !types.ValidLabel(r.Label) {
		return types.NewError(ErrCodeInvalidRequest,
			fmt.Sprintf("unknown label %q", r.Label))
	}
	return nil
}

// LookupResult is the outcome of QueryExisting. Source records whether the
// answer came from the semantic cache or the authoritative graph store.
type LookupResult struct {
	Nodes  []types.NodeSummary `json:"nodes"`
	Source string              `json:"source"`
}

// WriteResult reports what a WriteGraph call created.
type WriteResult struct {
	RunID                string `json:"run_id"`
	NodesCreated         int    `json:"nodes_created"`
	RelationshipsCreated int    `json:"relationships_created"`
}

// GraphStats is an aggregate snapshot of the graph store.
type GraphStats struct {
	TotalNodes         int64            `json:"total_nodes"`
	TotalRelationships int64            `json:"total_relationships"`
	NodesByLabel       map[string]int64 `json:"nodes_by_label"`
}
