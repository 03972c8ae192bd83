package lesson

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/linguo/internal/llm"
)

const scenarioSystemPrompt = `You are a creative writing assistant for a language learning app. Design a short, everyday roleplay scenario appropriate for the learner's level.`

type scenarioOutput struct {
	Template    string `json:"roleplayer_prompt_template"`
	Description string `json:"scenario_description"`
}

// GenerateScenario asks the model to invent a roleplay scenario suited to
// the learner's level. The returned template is checked for the
// placeholders the renderer depends on; a template without {user_input} is
// rejected because every turn would read the same.
func GenerateScenario(ctx context.Context, provider llm.Provider, level string, cfg Config) (Scenario, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeScenario)

	req := llm.Request{
		System: scenarioSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildScenarioMessage(level)},
		},
		Schema:      ScenarioSchema,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return Scenario{}, fmt.Errorf("generate scenario: %w", err)
	}

	var out scenarioOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario response: %w", err)
	}

	if !strings.Contains(out.Template, placeholderUserInput) {
		return Scenario{}, fmt.Errorf("generated template is missing the %s placeholder", placeholderUserInput)
	}
	if out.Description == "" {
		return Scenario{}, fmt.Errorf("generated scenario has an empty description")
	}

	return Scenario{
		ID:          "generated",
		Description: out.Description,
		Template:    out.Template,
	}, nil
}

func buildScenarioMessage(level string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Create a roleplay scenario for a learner at CEFR level %s.\n", level))
	b.WriteString(`
The 'roleplayer_prompt_template' must instruct an AI to stay in character
and must contain the literal placeholders {history}, {user_input} and
{cefr_level} exactly as written, so the app can fill them in each turn.
The 'scenario_description' is one or two sentences shown to the learner
before the conversation starts.`)

	return b.String()
}
