// Package conversation orchestrates a session across its two phases:
// the CEFR assessment and the roleplay lesson that follows it. The service
// itself is stateless; all per-session state lives in the session store.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/linguo/internal/assessment"
	"github.com/abhisek/linguo/internal/lesson"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/sessionstore"
	"github.com/abhisek/linguo/internal/store"
)

// ErrSessionNotFound is returned when a chat references an unknown or
// expired session id. Sessions are created only by Start; an unknown id is
// the caller's error, not a cue to create one.
var ErrSessionNotFound = errors.New("session not found")

// fallbackLessonID is used when LLM scenario generation fails so a
// completed assessment still flows into a lesson.
const fallbackLessonID = "coffee_shop"

// Config tunes the conversation service.
type Config struct {
	// TargetLanguage is the language being practiced, e.g. "English".
	TargetLanguage string

	// LessonID selects a builtin scenario for the lesson phase. Empty
	// means generate a scenario with the LLM when the assessment
	// completes.
	LessonID string

	// Lesson tunes the roleplay and correction calls.
	Lesson lesson.Config
}

// Reply is the outcome of one conversation step.
type Reply struct {
	SessionID string `json:"session_id"`

	// Message is the bot's reply, shown to the user and synthesized to
	// audio.
	Message string `json:"message"`

	// Correction and Explanation are set only for lesson turns.
	Correction  string `json:"correction,omitempty"`
	Explanation string `json:"explanation,omitempty"`

	// Level is set once the assessment is complete.
	Level assessment.CEFRLevel `json:"level,omitempty"`

	// InLesson reports whether the session is in roleplay mode.
	InLesson bool `json:"in_lesson"`

	// SpeechSpeed is the synthesis speed for Message.
	SpeechSpeed float64 `json:"-"`
}

// Service drives conversations. Safe for concurrent use; steps on the same
// session are serialized through per-session locks.
type Service struct {
	provider    llm.Provider
	machine     *assessment.Machine
	sessions    sessionstore.Store
	locks       *sessionstore.KeyedLocks
	assessments store.AssessmentRepo
	cfg         Config
}

// NewService wires a conversation service. assessments may be nil to skip
// persisting completed results.
func NewService(provider llm.Provider, sessions sessionstore.Store, assessments store.AssessmentRepo, cfg Config) (*Service, error) {
	if provider == nil {
		return nil, errors.New("conversation: llm provider is required")
	}
	if sessions == nil {
		return nil, errors.New("conversation: session store is required")
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = "English"
	}
	if cfg.Lesson.MaxTokens == 0 {
		cfg.Lesson = lesson.DefaultConfig()
	}
	if cfg.LessonID != "" {
		if _, err := lesson.LookupScenario(cfg.LessonID); err != nil {
			return nil, fmt.Errorf("conversation: %w", err)
		}
	}

	eval := assessment.NewLLMEvaluator(provider, assessment.DefaultEvaluatorConfig(cfg.TargetLanguage))
	machine, err := assessment.NewMachine(assessment.DefaultBank(cfg.TargetLanguage), eval)
	if err != nil {
		return nil, err
	}

	return &Service{
		provider:    provider,
		machine:     machine,
		sessions:    sessions,
		locks:       sessionstore.NewKeyedLocks(),
		assessments: assessments,
		cfg:         cfg,
	}, nil
}

// Start creates a new session in the welcome stage and returns the
// greeting.
func (s *Service) Start(ctx context.Context) (*Reply, error) {
	now := time.Now().UTC()
	rec := &sessionstore.Record{
		ID:         uuid.NewString(),
		Assessment: assessment.NewState(assessment.WelcomeMessage(s.cfg.TargetLanguage)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.sessions.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Reply{
		SessionID:   rec.ID,
		Message:     rec.Assessment.BotMessage,
		SpeechSpeed: 1.0,
	}, nil
}

// Chat applies one user input to the session: an assessment step while the
// assessment is running, a lesson turn afterwards.
func (s *Service) Chat(ctx context.Context, sessionID, input string) (*Reply, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	rec, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var reply *Reply
	if rec.InLesson() {
		reply, err = s.lessonTurn(ctx, rec, input)
	} else {
		reply, err = s.assessmentStep(ctx, rec, input)
	}
	if err != nil {
		return nil, err
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}

func (s *Service) assessmentStep(ctx context.Context, rec *sessionstore.Record, input string) (*Reply, error) {
	wasComplete := rec.Assessment.Complete()
	next := s.machine.Advance(ctx, input, rec.Assessment)
	rec.Assessment = next

	reply := &Reply{
		SessionID:   rec.ID,
		Message:     next.BotMessage,
		SpeechSpeed: 1.0,
	}

	if next.Complete() && !wasComplete {
		rec.Level = next.Result.Level
		s.persistResult(ctx, rec.ID, next.Result)

		scenario := s.pickScenario(ctx, rec.Level)
		rec.Scenario = scenario
		reply.Message = fmt.Sprintf("%s\n\nLet's practice! %s", next.BotMessage, scenario.Description)
	}

	if rec.Level != "" {
		reply.Level = rec.Level
		reply.SpeechSpeed = lesson.SpeechSpeed(rec.Level)
	}
	reply.InLesson = rec.InLesson()
	return reply, nil
}

func (s *Service) lessonTurn(ctx context.Context, rec *sessionstore.Record, input string) (*Reply, error) {
	sess := lesson.NewSession(s.provider, rec.Level, rec.Scenario, rec.History, s.cfg.Lesson)

	result, err := sess.Turn(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("lesson turn: %w", err)
	}
	rec.History = sess.History()

	return &Reply{
		SessionID:   rec.ID,
		Message:     result.Reply,
		Correction:  result.Correction,
		Explanation: result.Explanation,
		Level:       rec.Level,
		InLesson:    true,
		SpeechSpeed: lesson.SpeechSpeed(rec.Level),
	}, nil
}

// pickScenario resolves the lesson scenario for a freshly assessed level.
// Scenario failures never fail the step: the assessment result is already
// committed, so we fall back to a builtin lesson instead.
func (s *Service) pickScenario(ctx context.Context, level assessment.CEFRLevel) lesson.Scenario {
	if s.cfg.LessonID != "" {
		scenario, err := lesson.LookupScenario(s.cfg.LessonID)
		if err == nil {
			return scenario
		}
		fmt.Fprintf(os.Stderr, "warning: lesson lookup failed: %v\n", err)
	} else {
		scenario, err := lesson.GenerateScenario(ctx, s.provider, string(level), s.cfg.Lesson)
		if err == nil {
			return scenario
		}
		fmt.Fprintf(os.Stderr, "warning: scenario generation failed, using builtin lesson: %v\n", err)
	}

	scenario, _ := lesson.LookupScenario(fallbackLessonID)
	return scenario
}

// persistResult writes the completed assessment to the database. Best
// effort: the session flow does not depend on it.
func (s *Service) persistResult(ctx context.Context, sessionID string, result *assessment.Result) {
	if s.assessments == nil {
		return
	}
	err := s.assessments.Save(ctx, &store.AssessmentRecord{
		SessionID:  sessionID,
		Level:      string(result.Level),
		Grammar:    result.Scores.Grammar,
		Vocabulary: result.Scores.Vocabulary,
		Complexity: result.Scores.Complexity,
		Coherence:  result.Scores.Coherence,
		Rationale:  result.Rationale,
		Feedback:   result.Feedback,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist assessment for session %s: %v\n", sessionID, err)
	}
}
