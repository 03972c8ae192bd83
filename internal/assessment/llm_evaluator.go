package assessment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/linguo/internal/llm"
)

// EvaluatorConfig tunes the LLM evaluation call.
type EvaluatorConfig struct {
	TargetLanguage string
	MaxTokens      int
	Temperature    float64
}

// DefaultEvaluatorConfig returns the standard evaluation settings.
func DefaultEvaluatorConfig(targetLanguage string) EvaluatorConfig {
	return EvaluatorConfig{
		TargetLanguage: targetLanguage,
		MaxTokens:      1024,
		Temperature:    0.5,
	}
}

// LLMEvaluator scores transcripts through an llm.Provider with structured
// output. The schema-validated response is additionally checked against
// the domain contract, since not every provider enforces enums strictly.
type LLMEvaluator struct {
	provider llm.Provider
	cfg      EvaluatorConfig
}

// NewLLMEvaluator creates an Evaluator backed by the given provider.
func NewLLMEvaluator(provider llm.Provider, cfg EvaluatorConfig) *LLMEvaluator {
	return &LLMEvaluator{provider: provider, cfg: cfg}
}

type evaluatorOutput struct {
	GrammarScore        int    `json:"grammar_score"`
	VocabularyScore     int    `json:"vocabulary_score"`
	ComplexityScore     int    `json:"complexity_score"`
	CoherenceScore      int    `json:"coherence_score"`
	DeterminedCEFRLevel string `json:"determined_cefr_level"`
	Rationale           string `json:"rationale"`
	FeedbackForUser     string `json:"feedback_for_user"`
}

func (e *LLMEvaluator) Evaluate(ctx context.Context, transcript []TranscriptEntry) (*Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluation)

	req := llm.Request{
		System: evaluatorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvaluatorMessage(e.cfg.TargetLanguage, transcript)},
		},
		Schema:      ResultSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	var out evaluatorOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ContractViolationError{
			Field:  "response",
			Detail: fmt.Sprintf("unparseable evaluator output: %v", err),
		}
	}

	result := &Result{
		Scores: Scores{
			Grammar:    out.GrammarScore,
			Vocabulary: out.VocabularyScore,
			Complexity: out.ComplexityScore,
			Coherence:  out.CoherenceScore,
		},
		Level:     CEFRLevel(out.DeterminedCEFRLevel),
		Rationale: out.Rationale,
		Feedback:  out.FeedbackForUser,
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}
