package assessment

import "github.com/abhisek/linguo/internal/llm"

// ResultSchema defines the JSON schema for the structured assessment result.
var ResultSchema = &llm.Schema{
	Name:        "cefr-assessment",
	Description: "Structured CEFR proficiency judgment for an assessment transcript",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grammar_score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "Grammatical accuracy, 1 (many errors) to 5 (near perfect)",
			},
			"vocabulary_score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "Vocabulary range, 1 (very limited) to 5 (varied)",
			},
			"complexity_score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "Sentence complexity, 1 (very simple) to 5 (compound sentences)",
			},
			"coherence_score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "Coherence, 1 (incoherent) to 5 (very clear)",
			},
			"determined_cefr_level": map[string]any{
				"type":        "string",
				"enum":        []any{"A1", "A2", "B1", "B2", "C1", "C2"},
				"description": "The single CEFR level that best fits the evidence",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "Brief explanation of how the level was determined",
			},
			"feedback_for_user": map[string]any{
				"type":        "string",
				"description": "A short, encouraging, constructive feedback sentence for the learner",
			},
		},
		"required": []any{
			"grammar_score", "vocabulary_score", "complexity_score",
			"coherence_score", "determined_cefr_level", "rationale",
			"feedback_for_user",
		},
		"additionalProperties": false,
	},
}
