package classifier

import (
	"github.com/rkorrapolu/sye-agent/internal/database"
	"github.com/rkorrapolu/sye-agent/internal/knowledge"
	"github.com/rkorrapolu/sye-agent/internal/logparse"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Opinion is one model's independent take on a classification.
type Opinion struct {
	Symptom string `json:"symptom"`
	Cause   string `json:"cause"`
	Action  string `json:"action"`
}

// Placeholder text used when an opinion stage fails outright. The pipeline
// keeps going; a degraded opinion is still input for the arbiter.
var fallbackOpinion = Opinion{
	Symptom: "Unable to classify symptom",
	Cause:   "Unable to determine cause",
	Action:  "Unable to suggest action",
}

// FinalDecision is the arbiter's resolved classification with per-field
// confidence.
type FinalDecision struct {
	Symptom           string  `json:"symptom"`
	Cause             string  `json:"cause"`
	Action            string  `json:"action"`
	SymptomConfidence float64 `json:"symptom_confidence"`
	CauseConfidence   float64 `json:"cause_confidence"`
	ActionConfidence  float64 `json:"action_confidence"`
}

// category returns the text and confidence for one of the three legs.
func (d FinalDecision) category(label string) (string, float64) {
	switch label {
	case types.LabelSymptom:
		return d.Symptom, d.SymptomConfidence
	case types.LabelCause:
		return d.Cause, d.CauseConfidence
	default:
		return d.Action, d.ActionConfidence
	}
}

// Result is the full outcome of one pipeline run.
type Result struct {
	ClassificationID string                         `json:"classification_id"`
	Record           database.ClassificationRecord  `json:"record"`
	ParsedLog        *logparse.Analysis             `json:"parsed_log,omitempty"`
	FirstOpinion     Opinion                        `json:"first_opinion"`
	SecondOpinion    Opinion                        `json:"second_opinion"`
	Final            FinalDecision                  `json:"final"`
	GraphWrite       *knowledge.WriteResult         `json:"graph_write,omitempty"`
	SemanticMatches  map[string][]types.NodeSummary `json:"semantic_matches,omitempty"`
}
