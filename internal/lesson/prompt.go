package lesson

import (
	"fmt"
	"strings"

	"github.com/abhisek/linguo/internal/assessment"
)

// Placeholders a scenario template must carry. The history and level slots
// are optional but recommended; user_input is mandatory.
const (
	placeholderHistory   = "{history}"
	placeholderUserInput = "{user_input}"
	placeholderLevel     = "{cefr_level}"
)

const correctorSystemPrompt = `You are an expert language analysis AI. Your task is to analyze a single sentence from a language learner and provide concise, helpful feedback.`

// renderRoleplayPrompt fills the scenario template with the running
// conversation and the learner's latest input.
func renderRoleplayPrompt(scenario Scenario, level assessment.CEFRLevel, history []Exchange, userInput string) string {
	r := strings.NewReplacer(
		placeholderHistory, renderHistory(history),
		placeholderUserInput, userInput,
		placeholderLevel, string(level),
	)
	return r.Replace(scenario.Template)
}

// renderHistory flattens completed exchanges into the transcript block
// embedded in the roleplay prompt. Exchanges are rendered in order and
// never truncated.
func renderHistory(history []Exchange) string {
	if len(history) == 0 {
		return "(no conversation yet)"
	}
	var b strings.Builder
	for _, ex := range history {
		b.WriteString("User: ")
		b.WriteString(ex.User)
		b.WriteString("\nPartner: ")
		b.WriteString(ex.Bot)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildCorrectorMessage(level assessment.CEFRLevel, userInput string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("The user is a language learner at CEFR level %s.\n", level))
	b.WriteString(fmt.Sprintf("Analyze the following sentence: %q\n", userInput))
	b.WriteString(`
Provide:
- 'correction': a more natural or grammatically correct version of the sentence. If the sentence is already perfect, use an empty string.
- 'explanation': briefly explain why the change was made, or offer a small tip. If no correction was needed, give a compliment.`)

	return b.String()
}
