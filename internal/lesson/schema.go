package lesson

import "github.com/abhisek/linguo/internal/llm"

// CorrectionSchema defines the JSON schema for the per-turn correction call.
var CorrectionSchema = &llm.Schema{
	Name:        "sentence-correction",
	Description: "Correction and explanation for one learner sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correction": map[string]any{
				"type":        "string",
				"description": "A more natural version of the sentence; empty if the sentence needs no change",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the change was made, or a compliment if no correction was needed",
			},
		},
		"required":             []any{"correction", "explanation"},
		"additionalProperties": false,
	},
}

// ScenarioSchema defines the JSON schema for scenario generation.
var ScenarioSchema = &llm.Schema{
	Name:        "roleplay-scenario",
	Description: "A generated roleplay scenario for a language learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"roleplayer_prompt_template": map[string]any{
				"type":        "string",
				"description": "The prompt template for the role-playing character. Must include the literal placeholders {history}, {user_input} and {cefr_level}.",
			},
			"scenario_description": map[string]any{
				"type":        "string",
				"description": "A brief, user-friendly description of the roleplay scenario",
			},
		},
		"required":             []any{"roleplayer_prompt_template", "scenario_description"},
		"additionalProperties": false,
	},
}
