package assessment

import "context"

// TranscriptEntry pairs a bank question with the learner's recorded answer.
// Entries are ordered exactly as the bank orders its questions.
type TranscriptEntry struct {
	Level    CEFRLevel
	Question string
	Answer   string
}

// Evaluator scores a complete question/answer transcript into a structured
// proficiency judgment. It is called exactly once per successful
// assessment; a returned error leaves the assessment retryable.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript []TranscriptEntry) (*Result, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, transcript []TranscriptEntry) (*Result, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, transcript []TranscriptEntry) (*Result, error) {
	return f(ctx, transcript)
}
