package assessment

import (
	"fmt"
	"strings"
)

const evaluatorSystemPrompt = `You are an expert language proficiency evaluator. Your task is to analyze a learner's answers to a short sequence of assessment questions and determine their proficiency level according to the CEFR scale (A1, A2, B1, B2, C1, C2), where A1 is the most beginner level and C2 the most advanced. Make strict evaluations based only on the learner's actual responses.`

// buildEvaluatorMessage renders the ordered transcript into the user
// message for the evaluation call. Question order must match the bank
// exactly; answers are paired by index.
func buildEvaluatorMessage(targetLanguage string, transcript []TranscriptEntry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Target language: %s\n\n", targetLanguage))
	b.WriteString("Transcript of the assessment, in order:\n")
	for i, entry := range transcript {
		b.WriteString(fmt.Sprintf("\nQuestion %d (probes %s): %s\n", i+1, entry.Level, entry.Question))
		b.WriteString(fmt.Sprintf("Learner's answer: %q\n", entry.Answer))
	}

	b.WriteString(`
Analyze the learner's answers on the following criteria:
1. Grammatical accuracy: errors in verb conjugation, word order, articles, etc.
2. Vocabulary range: basic and repetitive, or showing variety?
3. Sentence complexity: bare simple sentences, or structured ones with clauses?
4. Coherence: is the message understandable, even with errors?

Score each criterion from 1 (weakest) to 5 (strongest), pick the single CEFR level that best fits the evidence, explain your reasoning briefly, and write one short, encouraging, constructive feedback sentence addressed to the learner.`)

	return b.String()
}
