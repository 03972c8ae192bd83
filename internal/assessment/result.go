package assessment

import "fmt"

// Scores holds the four per-criterion scores, each an integer in [1,5].
type Scores struct {
	Grammar    int `json:"grammar"`
	Vocabulary int `json:"vocabulary"`
	Complexity int `json:"complexity"`
	Coherence  int `json:"coherence"`
}

// Result is the structured proficiency judgment produced by the Evaluator.
// Produced once per assessment and immutable thereafter.
type Result struct {
	Scores    Scores    `json:"scores"`
	Level     CEFRLevel `json:"determined_level"`
	Rationale string    `json:"rationale"`
	Feedback  string    `json:"feedback"`
}

// ContractViolationError reports an Evaluator result that is structurally
// invalid: an out-of-enum level or an out-of-range score. It is recovered
// the same way as a transport fault but logged as a schema bug, not a
// network one.
type ContractViolationError struct {
	Field  string
	Detail string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("evaluator contract violation: %s: %s", e.Field, e.Detail)
}

// Validate checks the result against the closed CEFR enumeration and the
// score range. Values outside the contract are never silently coerced.
func (r *Result) Validate() error {
	if !r.Level.Valid() {
		return &ContractViolationError{
			Field:  "determined_level",
			Detail: fmt.Sprintf("%q is not a CEFR level", string(r.Level)),
		}
	}
	checks := []struct {
		name  string
		score int
	}{
		{"grammar", r.Scores.Grammar},
		{"vocabulary", r.Scores.Vocabulary},
		{"complexity", r.Scores.Complexity},
		{"coherence", r.Scores.Coherence},
	}
	for _, c := range checks {
		if c.score < 1 || c.score > 5 {
			return &ContractViolationError{
				Field:  c.name,
				Detail: fmt.Sprintf("score %d outside [1,5]", c.score),
			}
		}
	}
	return nil
}
