package assessment

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Machine walks a learner through the question bank, records answers, and
// triggers the Evaluator exactly once at the end. It is a strict finite
// sequence: the only data-dependent branch is the outcome of the Evaluator
// call.
type Machine struct {
	bank Bank
	eval Evaluator
}

// NewMachine creates a machine over a non-empty bank.
func NewMachine(bank Bank, eval Evaluator) (*Machine, error) {
	if bank.Len() == 0 {
		return nil, errors.New("assessment: question bank is empty")
	}
	if eval == nil {
		return nil, errors.New("assessment: evaluator is required")
	}
	return &Machine{bank: bank, eval: eval}, nil
}

// Bank returns the machine's question bank.
func (m *Machine) Bank() Bank {
	return m.bank
}

// WelcomeMessage composes the greeting shown before the first question.
func WelcomeMessage(targetLanguage string) string {
	return fmt.Sprintf(
		"Welcome! I'm here to help you practice %s. I'll ask you a few short questions to find your level. Send any message when you're ready to begin.",
		targetLanguage)
}

// Advance processes one turn of the assessment. It is a pure function of
// (input, state) apart from the single Evaluator call made on the final
// answer; it never returns an error — every fault path resolves to a valid
// State with a populated BotMessage.
//
// The prior state is never mutated; callers may keep it for snapshots.
func (m *Machine) Advance(ctx context.Context, input string, s State) State {
	switch s.Stage {
	case StageWelcome:
		// Input is ignored; it only triggers the first question.
		return State{
			Stage:         StageInProgress,
			QuestionIndex: 1,
			BotMessage:    m.bank.At(0).Question,
		}

	case StageInProgress:
		if s.QuestionIndex < m.bank.Len() {
			answers := s.cloneAnswers(1)
			answers = append(answers, input)
			return State{
				Stage:         StageInProgress,
				QuestionIndex: s.QuestionIndex + 1,
				Answers:       answers,
				BotMessage:    m.bank.At(s.QuestionIndex).Question,
			}
		}
		// All questions asked; this input is the final answer.
		return m.evaluate(ctx, input, s)

	case StageError, StageEvaluating:
		// Re-enterable at the same index: the input is a fresh attempt
		// at the final answer. A stored "evaluating" stage means the
		// process died mid-call; the same recovery applies.
		return m.evaluate(ctx, input, s)

	case StageComplete:
		done := s
		done.BotMessage = "The assessment is already complete. You can start your lesson, or reset the chat to assess again."
		return done

	default:
		// Unknown stage (a corrupted stored state). Keep the stage as-is
		// so every further input lands back here: terminal, never a
		// guess at a position in the sequence.
		broken := s
		broken.BotMessage = "Something went wrong with the assessment state. Please start a new session."
		return broken
	}
}

// evaluate appends the final answer transiently, builds the ordered
// transcript, and invokes the Evaluator. On failure the triggering answer
// is not consumed: the returned state keeps the prior index and answers so
// the user can simply resend it.
func (m *Machine) evaluate(ctx context.Context, finalAnswer string, s State) State {
	candidate := s.cloneAnswers(1)
	candidate = append(candidate, finalAnswer)

	// Evaluation pairs exactly one answer with each question. A stored
	// state that got here with the wrong count is damaged beyond repair;
	// refuse it rather than index past the answers.
	if len(candidate) != m.bank.Len() {
		return State{
			Stage:         StageError,
			QuestionIndex: s.QuestionIndex,
			Answers:       s.cloneAnswers(0),
			BotMessage:    "Something went wrong with the assessment state. Please start a new session.",
		}
	}

	transcript := make([]TranscriptEntry, m.bank.Len())
	for i := range transcript {
		entry := m.bank.At(i)
		transcript[i] = TranscriptEntry{
			Level:    entry.Level,
			Question: entry.Question,
			Answer:   candidate[i],
		}
	}

	result, err := m.eval.Evaluate(ctx, transcript)
	if err == nil {
		err = result.Validate()
	}
	if err != nil {
		var cv *ContractViolationError
		if errors.As(err, &cv) {
			fmt.Fprintf(os.Stderr, "warning: evaluator returned invalid result: %v\n", cv)
		} else {
			fmt.Fprintf(os.Stderr, "warning: evaluation failed: %v\n", err)
		}
		return State{
			Stage:         StageError,
			QuestionIndex: s.QuestionIndex,
			Answers:       s.cloneAnswers(0),
			BotMessage:    "Sorry, I had a little trouble processing that. Could you send your last answer one more time?",
		}
	}

	return State{
		Stage:         StageComplete,
		QuestionIndex: s.QuestionIndex,
		Answers:       candidate,
		Result:        result,
		BotMessage: fmt.Sprintf(
			"%s Thanks, that was very helpful! Based on our chat, it looks like we can start with lessons at the %s level.",
			result.Feedback, result.Level),
	}
}
