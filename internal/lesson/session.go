package lesson

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/linguo/internal/assessment"
	"github.com/abhisek/linguo/internal/llm"
)

// Session is one learner's roleplay conversation. The history grows
// monotonically: every successful turn appends one exchange and nothing is
// ever reordered or truncated. Callers must serialize Turn calls per
// session; independent sessions are fully isolated.
type Session struct {
	provider llm.Provider
	level    assessment.CEFRLevel
	scenario Scenario
	history  []Exchange
	cfg      Config
}

// NewSession creates a lesson session for an assessed level. history may
// carry previously completed exchanges when a session is restored from a
// store.
func NewSession(provider llm.Provider, level assessment.CEFRLevel, scenario Scenario, history []Exchange, cfg Config) *Session {
	copied := make([]Exchange, len(history))
	copy(copied, history)
	return &Session{
		provider: provider,
		level:    level,
		scenario: scenario,
		history:  copied,
		cfg:      cfg,
	}
}

// Level returns the CEFR level this session is tuned to.
func (s *Session) Level() assessment.CEFRLevel {
	return s.level
}

// Scenario returns the session's roleplay scenario.
func (s *Session) Scenario() Scenario {
	return s.scenario
}

// History returns a copy of the completed exchanges in order.
func (s *Session) History() []Exchange {
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

type correctionOutput struct {
	Correction  string `json:"correction"`
	Explanation string `json:"explanation"`
}

// Turn processes one learner input. The roleplay reply and the correction
// are requested concurrently — both are pure functions of (input, history,
// level) with no ordering dependency. If either call fails the turn fails
// as a whole and the history is left untouched, so a retried turn sees the
// same conversation.
func (s *Session) Turn(ctx context.Context, userInput string) (*TurnResult, error) {
	type replyOut struct {
		text string
		err  error
	}
	type correctionOut struct {
		correction correctionOutput
		err        error
	}

	replyCh := make(chan replyOut, 1)
	corrCh := make(chan correctionOut, 1)

	go func() {
		text, err := s.roleplayReply(ctx, userInput)
		replyCh <- replyOut{text: text, err: err}
	}()
	go func() {
		c, err := s.correct(ctx, userInput)
		corrCh <- correctionOut{correction: c, err: err}
	}()

	reply := <-replyCh
	corr := <-corrCh

	if reply.err != nil {
		return nil, fmt.Errorf("roleplay reply: %w", reply.err)
	}
	if corr.err != nil {
		return nil, fmt.Errorf("correction: %w", corr.err)
	}

	s.history = append(s.history, Exchange{User: userInput, Bot: reply.text})

	return &TurnResult{
		Reply:       reply.text,
		Correction:  corr.correction.Correction,
		Explanation: corr.correction.Explanation,
	}, nil
}

func (s *Session) roleplayReply(ctx context.Context, userInput string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeRoleplay)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: renderRoleplayPrompt(s.scenario, s.level, s.history, userInput)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (s *Session) correct(ctx context.Context, userInput string) (correctionOutput, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCorrection)

	req := llm.Request{
		System: correctorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCorrectorMessage(s.level, userInput)},
		},
		Schema:      CorrectionSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	var out correctionOutput
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return out, fmt.Errorf("parse correction response: %w", err)
	}
	return out, nil
}
