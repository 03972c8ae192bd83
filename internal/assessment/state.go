package assessment

// Stage is the progression stage of an assessment.
type Stage string

const (
	// StageWelcome is the initial stage; the first input is ignored and
	// only triggers the first question.
	StageWelcome Stage = "welcome"

	// StageInProgress means questions are being asked and answered.
	StageInProgress Stage = "in_progress"

	// StageEvaluating exists only for the duration of the Evaluator call
	// and always resolves to complete or error.
	StageEvaluating Stage = "evaluating"

	// StageComplete is terminal: the result is set and further input is
	// answered with a completion notice.
	StageComplete Stage = "complete"

	// StageError means the Evaluator call failed. The stage is
	// re-enterable: the next input is treated as a fresh final answer.
	StageError Stage = "error"
)

// State is the full progression state of one assessment. Advance returns a
// new State per step; callers never mutate a State in place, so snapshots
// taken before a call remain valid for comparison.
type State struct {
	Stage Stage `json:"stage"`

	// QuestionIndex is the index of the next question to ask,
	// 0 <= QuestionIndex <= bank length.
	QuestionIndex int `json:"question_index"`

	// Answers holds one recorded answer per question already answered,
	// in question order. An answer is recorded only once its question's
	// evaluation step has been passed; the answer that triggers a failed
	// evaluation is not recorded.
	Answers []string `json:"answers"`

	// Result is set iff Stage == StageComplete.
	Result *Result `json:"result,omitempty"`

	// BotMessage is the latest message to present to the user. Derived
	// output, not authoritative state.
	BotMessage string `json:"bot_message"`
}

// NewState returns the initial state for a fresh assessment against the
// given bank, carrying the welcome message.
func NewState(welcome string) State {
	return State{
		Stage:      StageWelcome,
		BotMessage: welcome,
	}
}

// Complete reports whether the assessment has reached its terminal stage.
func (s State) Complete() bool {
	return s.Stage == StageComplete
}

// cloneAnswers copies the answer slice so derived states never alias the
// prior state's backing array.
func (s State) cloneAnswers(extra int) []string {
	out := make([]string, len(s.Answers), len(s.Answers)+extra)
	copy(out, s.Answers)
	return out
}
