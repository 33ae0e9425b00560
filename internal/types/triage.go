package types

import "time"

// Node labels of the triage knowledge graph.
const (
	LabelSymptom = "Symptom"
	LabelCause   = "Cause"
	LabelAction  = "Action"
)

// Relationship types of the triage knowledge graph.
const (
	RelCauses   = "CAUSES"   // cause -> symptom
	RelFixes    = "FIXES"    // action -> cause
	RelRelates  = "RELATES"  // symptom -> symptom
	RelTriggers = "TRIGGERS" // cause -> action
)

// ValidLabel reports whether label is one of the three triage node labels.
func ValidLabel(label string) bool {
	switch label {
	case LabelSymptom, LabelCause, LabelAction:
		return true
	}
	return false
}

// ValidRelationshipType reports whether relType is a known edge type.
func ValidRelationshipType(relType string) bool {
	switch relType {
	case RelCauses, RelFixes, RelRelates, RelTriggers:
		return true
	}
	return false
}

// NodeSummary is the compact view of a graph node exchanged between the
// lookup service and the semantic cache. It is what gets serialized into
// cache payloads, so field changes affect stored entries.
type NodeSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	TimesSeen int64     `json:"times_seen,omitempty"`
}
