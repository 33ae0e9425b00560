// Package classifier runs the multi-model triage pipeline: two independent
// classification opinions, an arbiter that resolves them, then persistence
// into the knowledge graph, the semantic cache, and the classification store.
package classifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rkorrapolu/sye-agent/internal/database"
	"github.com/rkorrapolu/sye-agent/internal/knowledge"
	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/logparse"
	"github.com/rkorrapolu/sye-agent/internal/semcache"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

const defaultConfidence = 0.85

// Pipeline orchestrates classification. The first and second providers give
// independent opinions; the arbiter resolves them into the final decision.
type Pipeline struct {
	first   llm.Provider
	second  llm.Provider
	arbiter llm.Provider

	knowledge knowledge.Service
	cache     *semcache.Cache
	store     *database.ClassificationDAO
	logger    *slog.Logger
}

// Config wires the pipeline's collaborators. Knowledge, cache, and store are
// optional: a missing collaborator disables that persistence step, never the
// classification itself.
type Config struct {
	First   llm.Provider
	Second  llm.Provider
	Arbiter llm.Provider

	Knowledge knowledge.Service
	Cache     *semcache.Cache
	Store     *database.ClassificationDAO
	Logger    *slog.Logger
}

// New creates a pipeline. All three providers are required.
func New(cfg Config) (*Pipeline, error) {
	if cfg.First == nil || cfg.Second == nil || cfg.Arbiter == nil {
		return nil, types.NewError(types.CLASSIFICATION_FAILED,
			"pipeline requires first, second, and arbiter providers")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		first:     cfg.First,
		second:    cfg.Second,
		arbiter:   cfg.Arbiter,
		knowledge: cfg.Knowledge,
		cache:     cfg.Cache,
		store:     cfg.Store,
		logger:    logger.With("component", "classifier"),
	}, nil
}

// Classify runs the full pipeline over a raw symptom description or log
// excerpt and returns the classification result.
func (p *Pipeline) Classify(ctx context.Context, input string) (*Result, error) {
	result := &Result{ClassificationID: uuid.NewString()}

	enriched := input
	if logparse.IsLogFormat(input) {
		analysis := logparse.Analyze(input)
		result.ParsedLog = &analysis
		enriched = enrichInput(input, analysis)
		p.logger.Info("detected log format",
			"severity", analysis.Severity,
			"components", len(analysis.Components))
	}

	result.FirstOpinion = p.opinion(ctx, p.first, firstOpinionPrompt(enriched))
	result.SecondOpinion = p.opinion(ctx, p.second, secondOpinionPrompt(enriched))
	result.Final = p.arbitrate(ctx, enriched, result.FirstOpinion, result.SecondOpinion)

	result.SemanticMatches = p.gatherSemanticMatches(ctx, result.Final)
	result.GraphWrite = p.persistToGraph(ctx, result.ClassificationID, result.Final)
	p.storeFinalNodesInCache(ctx, result.Final)

	record := p.buildRecord(input, result)
	result.Record = record
	if p.store != nil {
		if err := p.store.Store(ctx, record); err != nil {
			return nil, types.WrapError(types.CLASSIFICATION_FAILED,
				"failed to persist classification record", err)
		}
	}

	p.logger.Info("classification complete",
		"classification_id", result.ClassificationID,
		"symptom", result.Final.Symptom)
	return result, nil
}

// opinion runs one opinion stage. Any failure (completion, extraction,
// parse) degrades to placeholder text so the arbiter still has two inputs.
func (p *Pipeline) opinion(ctx context.Context, provider llm.Provider, prompt string) Opinion {
	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage(classifierSystemPrompt),
			llm.NewUserMessage(prompt),
		},
	})
	if err != nil {
		p.logger.Warn("opinion stage failed", "provider", provider.Name(), "error", err)
		return fallbackOpinion
	}

	raw, err := llm.ExtractJSON(resp.Content())
	if err != nil {
		p.logger.Warn("opinion stage returned no JSON", "provider", provider.Name(), "error", err)
		return fallbackOpinion
	}

	var opinion Opinion
	if err := json.Unmarshal([]byte(raw), &opinion); err != nil {
		p.logger.Warn("opinion stage returned malformed JSON", "provider", provider.Name(), "error", err)
		return fallbackOpinion
	}
	return opinion
}

// arbitrate resolves the two opinions. When the arbiter fails, the first
// opinion becomes the final decision at half confidence.
func (p *Pipeline) arbitrate(ctx context.Context, input string, first, second Opinion) FinalDecision {
	fallback := FinalDecision{
		Symptom:           first.Symptom,
		Cause:             first.Cause,
		Action:            first.Action,
		SymptomConfidence: 0.5,
		CauseConfidence:   0.5,
		ActionConfidence:  0.5,
	}

	resp, err := p.arbiter.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage(arbiterPrompt(input, first, second))},
	})
	if err != nil {
		p.logger.Warn("arbiter stage failed, using first opinion", "error", err)
		return fallback
	}

	raw, err := llm.ExtractJSON(resp.Content())
	if err != nil {
		p.logger.Warn("arbiter returned no JSON, using first opinion", "error", err)
		return fallback
	}

	var final FinalDecision
	if err := json.Unmarshal([]byte(raw), &final); err != nil {
		p.logger.Warn("arbiter returned malformed JSON, using first opinion", "error", err)
		return fallback
	}

	if final.SymptomConfidence == 0 {
		final.SymptomConfidence = defaultConfidence
	}
	if final.CauseConfidence == 0 {
		final.CauseConfidence = defaultConfidence
	}
	if final.ActionConfidence == 0 {
		final.ActionConfidence = defaultConfidence
	}
	return final
}

// persistToGraph writes the triple into the knowledge graph: three nodes
// plus CAUSES (cause to symptom) and FIXES (action to cause) edges. Write
// failure is reported in the result, not fatal to the classification.
func (p *Pipeline) persistToGraph(ctx context.Context, classificationID string, final FinalDecision) *knowledge.WriteResult {
	if p.knowledge == nil {
		return nil
	}

	payload := knowledge.GraphPayload{
		Nodes: []knowledge.NodeSpec{
			graphNode(classificationID, "symptom", types.LabelSymptom, final),
			graphNode(classificationID, "cause", types.LabelCause, final),
			graphNode(classificationID, "action", types.LabelAction, final),
		},
		Relationships: []knowledge.RelationshipSpec{
			{
				Type:        types.RelCauses,
				StartNodeID: classificationID + ":cause",
				EndNodeID:   classificationID + ":symptom",
				Properties:  map[string]any{"confidence": final.CauseConfidence},
			},
			{
				Type:        types.RelFixes,
				StartNodeID: classificationID + ":action",
				EndNodeID:   classificationID + ":cause",
				Properties:  map[string]any{"confidence": final.ActionConfidence},
			},
		},
	}

	write, err := p.knowledge.WriteGraph(ctx, payload)
	if err != nil {
		p.logger.Warn("graph write failed", "classification_id", classificationID, "error", err)
		return nil
	}
	return write
}

func graphNode(classificationID, key, label string, final FinalDecision) knowledge.NodeSpec {
	text, confidence := final.category(label)
	return knowledge.NodeSpec{
		ID:    classificationID + ":" + key,
		Label: label,
		Properties: map[string]any{
			"name":              text,
			"description":       text,
			"confidence":        confidence,
			"classification_id": classificationID,
		},
	}
}

// gatherSemanticMatches collects prior similar entities per category. Cache
// failures are logged and skipped.
func (p *Pipeline) gatherSemanticMatches(ctx context.Context, final FinalDecision) map[string][]types.NodeSummary {
	if p.cache == nil {
		return nil
	}

	matches := make(map[string][]types.NodeSummary)
	for _, label := range []string{types.LabelSymptom, types.LabelCause, types.LabelAction} {
		text, _ := final.category(label)
		nodes, ok, err := p.cache.Check(ctx, text, label)
		if err != nil {
			p.logger.Warn("semantic match lookup failed", "label", label, "error", err)
			continue
		}
		if ok && len(nodes) > 0 {
			matches[label] = nodes
		}
	}
	return matches
}

// storeFinalNodesInCache records each final category in the cache: the
// graph-confirmed nodes when the entity exists, or a synthesized summary for
// a brand-new entity so the very next lookup hits warm.
func (p *Pipeline) storeFinalNodesInCache(ctx context.Context, final FinalDecision) {
	if p.cache == nil {
		return
	}

	for _, label := range []string{types.LabelSymptom, types.LabelCause, types.LabelAction} {
		text, _ := final.category(label)
		if text == "" {
			continue
		}

		var nodes []types.NodeSummary
		if p.knowledge != nil {
			if lookup, err := p.knowledge.QueryExisting(ctx, knowledge.QueryExistingRequest{
				Name: text, Label: label,
			}); err == nil {
				nodes = lookup.Nodes
			} else {
				p.logger.Warn("node lookup failed during cache store", "label", label, "error", err)
			}
		}
		if len(nodes) == 0 {
			nodes = []types.NodeSummary{{
				Name:      text,
				CreatedAt: time.Now().UTC(),
				TimesSeen: 1,
			}}
		}

		if err := p.cache.Store(ctx, text, nodes, label); err != nil {
			p.logger.Warn("failed to cache final node", "label", label, "error", err)
		}
	}
}

func (p *Pipeline) buildRecord(input string, result *Result) database.ClassificationRecord {
	consensus := []string{p.first.Name(), p.second.Name(), p.arbiter.Name()}
	record := database.ClassificationRecord{
		ID:    result.ClassificationID,
		Input: input,
		Symptom: database.CategoryResult{
			Text:           result.Final.Symptom,
			Confidence:     result.Final.SymptomConfidence,
			ModelConsensus: consensus,
		},
		Cause: database.CategoryResult{
			Text:           result.Final.Cause,
			Confidence:     result.Final.CauseConfidence,
			ModelConsensus: consensus,
		},
		Action: database.CategoryResult{
			Text:           result.Final.Action,
			Confidence:     result.Final.ActionConfidence,
			ModelConsensus: consensus,
		},
		CreatedAt: time.Now().UTC(),
	}
	if result.ParsedLog != nil {
		record.Metadata = map[string]string{
			"severity": result.ParsedLog.Severity,
		}
	}
	return record
}

func enrichInput(input string, analysis logparse.Analysis) string {
	enrichment := "\n\n[Parsed Log Info]\n"
	enrichment += "Severity: " + analysis.Severity + "\n"
	enrichment += "Components: " + strings.Join(analysis.Components, ", ") + "\n"
	enrichment += "Pattern: " + analysis.Pattern + "\n"
	return input + enrichment
}
