// Package lesson drives the post-assessment roleplay conversation. A
// session is parameterized by the learner's assessed CEFR level and a
// scenario; each turn issues a roleplay call and a correction call to the
// language model.
package lesson

import "github.com/abhisek/linguo/internal/assessment"

// Exchange is one completed turn: what the learner said and what the
// roleplay character replied.
type Exchange struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// TurnResult is the output of one lesson turn.
type TurnResult struct {
	// Reply is the in-character roleplay response.
	Reply string

	// Correction is a more natural version of the learner's sentence,
	// empty when the sentence needed no change.
	Correction string

	// Explanation says why the correction was made, or compliments a
	// correct sentence.
	Explanation string
}

// Scenario defines the roleplay setting. Template is the character prompt
// carrying the {history}, {user_input} and {cefr_level} placeholders;
// Description is the user-facing summary shown when the lesson starts.
type Scenario struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Template    string `json:"template"`
}

// Config tunes the lesson generation calls.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard lesson settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.7,
	}
}

// speedByLevel maps a CEFR level to the speech speed used when
// synthesizing replies: slow and deliberate for beginners, natural and
// fast for advanced learners.
var speedByLevel = map[assessment.CEFRLevel]float64{
	assessment.LevelA1: 0.7,
	assessment.LevelA2: 0.8,
	assessment.LevelB1: 0.9,
	assessment.LevelB2: 1.0,
	assessment.LevelC1: 1.1,
	assessment.LevelC2: 1.2,
}

// SpeechSpeed returns the synthesis speed for a level, defaulting to
// normal speed for anything unrecognized.
func SpeechSpeed(level assessment.CEFRLevel) float64 {
	if s, ok := speedByLevel[level]; ok {
		return s
	}
	return 1.0
}
