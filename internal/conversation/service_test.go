package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/linguo/internal/assessment"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/sessionstore"
	"github.com/abhisek/linguo/internal/store"
)

// fakeProvider routes by schema name so the concurrent lesson calls stay
// deterministic.
type fakeProvider struct {
	mu        sync.Mutex
	evalJSON  string
	evalErr   error
	evalCalls int
	scenario  string
	replyText string
}

func (p *fakeProvider) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if req.Schema == nil {
		return &llm.Response{Content: json.RawMessage(p.replyText), Model: "mock", StopReason: "end"}, nil
	}

	switch req.Schema.Name {
	case "cefr-assessment":
		p.evalCalls++
		if p.evalErr != nil {
			return nil, p.evalErr
		}
		return &llm.Response{Content: json.RawMessage(p.evalJSON), Model: "mock", StopReason: "end"}, nil
	case "roleplay-scenario":
		return &llm.Response{Content: json.RawMessage(p.scenario), Model: "mock", StopReason: "end"}, nil
	case "sentence-correction":
		return &llm.Response{Content: json.RawMessage(`{"correction":"","explanation":"Nice sentence!"}`), Model: "mock", StopReason: "end"}, nil
	default:
		return nil, errors.New("unexpected schema " + req.Schema.Name)
	}
}

func (p *fakeProvider) ModelID() string { return "mock" }

func goodProvider() *fakeProvider {
	return &fakeProvider{
		evalJSON: `{
			"grammar_score": 3, "vocabulary_score": 3, "complexity_score": 3,
			"coherence_score": 3, "determined_cefr_level": "B1",
			"rationale": "solid basics", "feedback_for_user": "Well done!"
		}`,
		scenario:  `{"roleplayer_prompt_template": "You are a guide. {history} User: {user_input} Level {cefr_level}", "scenario_description": "Ask a tour guide for directions."}`,
		replyText: "Of course, right this way!",
	}
}

func newTestService(t *testing.T, provider llm.Provider, cfg Config) (*Service, sessionstore.Store) {
	t.Helper()
	sessions := sessionstore.NewMemoryStore()
	svc, err := NewService(provider, sessions, nil, cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, sessions
}

// runAssessment drives a fresh session through the default 4-question bank
// up to and including the final answer.
func runAssessment(t *testing.T, svc *Service) (string, *Reply) {
	t.Helper()
	ctx := context.Background()

	start, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.SessionID == "" {
		t.Fatal("Start() returned empty session id")
	}
	if !strings.Contains(start.Message, "Welcome") {
		t.Errorf("welcome message = %q", start.Message)
	}

	inputs := []string{"ready", "friend", "I am learning English", "bread and tea", "I will visit my family"}
	var last *Reply
	for _, in := range inputs {
		last, err = svc.Chat(ctx, start.SessionID, in)
		if err != nil {
			t.Fatalf("Chat(%q) error = %v", in, err)
		}
	}
	return start.SessionID, last
}

func TestService_AssessmentFlowsIntoLesson(t *testing.T) {
	svc, _ := newTestService(t, goodProvider(), Config{TargetLanguage: "English"})

	id, final := runAssessment(t, svc)
	if final.Level != assessment.LevelB1 {
		t.Errorf("Level = %q, want B1", final.Level)
	}
	if !final.InLesson {
		t.Error("session should be in lesson after assessment completes")
	}
	if !strings.Contains(final.Message, "Well done!") {
		t.Errorf("completion message missing feedback: %q", final.Message)
	}
	if !strings.Contains(final.Message, "tour guide") {
		t.Errorf("completion message missing scenario description: %q", final.Message)
	}
	if final.SpeechSpeed != 0.9 {
		t.Errorf("SpeechSpeed = %v, want 0.9 for B1", final.SpeechSpeed)
	}

	// Next input is a lesson turn with reply and correction.
	reply, err := svc.Chat(context.Background(), id, "Where is the museum?")
	if err != nil {
		t.Fatalf("lesson Chat() error = %v", err)
	}
	if reply.Message != "Of course, right this way!" {
		t.Errorf("lesson reply = %q", reply.Message)
	}
	if reply.Explanation != "Nice sentence!" {
		t.Errorf("Explanation = %q", reply.Explanation)
	}
	if !reply.InLesson {
		t.Error("lesson reply should report InLesson")
	}
}

func TestService_LessonHistoryAccumulates(t *testing.T) {
	svc, sessions := newTestService(t, goodProvider(), Config{LessonID: "coffee_shop"})

	id, _ := runAssessment(t, svc)
	ctx := context.Background()

	for _, in := range []string{"hello", "a coffee please", "thank you"} {
		if _, err := svc.Chat(ctx, id, in); err != nil {
			t.Fatalf("Chat(%q) error = %v", in, err)
		}
	}

	rec, err := sessions.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(rec.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(rec.History))
	}
	if rec.History[0].User != "hello" || rec.History[2].User != "thank you" {
		t.Errorf("history order wrong: %+v", rec.History)
	}
	if rec.Scenario.ID != "coffee_shop" {
		t.Errorf("Scenario.ID = %q", rec.Scenario.ID)
	}
}

func TestService_EvaluatorFailureIsReenterable(t *testing.T) {
	provider := goodProvider()
	provider.evalErr = &llm.ErrProviderUnavailable{Err: errors.New("down")}
	svc, sessions := newTestService(t, provider, Config{LessonID: "coffee_shop"})
	ctx := context.Background()

	id, final := runAssessment(t, svc)
	if final.InLesson {
		t.Fatal("failed evaluation must not enter the lesson")
	}
	rec, _ := sessions.Get(ctx, id)
	if rec.Assessment.Stage != assessment.StageError {
		t.Fatalf("Stage = %q, want error", rec.Assessment.Stage)
	}
	if len(rec.Assessment.Answers) != 3 {
		t.Errorf("answers = %v, the failed final answer must not be recorded", rec.Assessment.Answers)
	}

	// Resending the final answer after the fault clears succeeds.
	provider.mu.Lock()
	provider.evalErr = nil
	provider.mu.Unlock()

	reply, err := svc.Chat(ctx, id, "I will visit my family")
	if err != nil {
		t.Fatalf("retry Chat() error = %v", err)
	}
	if reply.Level != assessment.LevelB1 {
		t.Errorf("Level = %q after retry", reply.Level)
	}
	if provider.evalCalls != 2 {
		t.Errorf("evaluator calls = %d, want 2", provider.evalCalls)
	}
}

func TestService_UnknownSessionIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, goodProvider(), Config{})

	_, err := svc.Chat(context.Background(), "no-such-session", "hi")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestService_ScenarioGenerationFailureFallsBack(t *testing.T) {
	provider := goodProvider()
	provider.scenario = `{"roleplayer_prompt_template": "missing placeholder", "scenario_description": "x"}`
	svc, sessions := newTestService(t, provider, Config{})

	id, final := runAssessment(t, svc)
	if !final.InLesson {
		t.Fatal("assessment completion should still enter a lesson")
	}
	rec, _ := sessions.Get(context.Background(), id)
	if rec.Scenario.ID != "coffee_shop" {
		t.Errorf("fallback scenario = %q, want coffee_shop", rec.Scenario.ID)
	}
}

func TestService_PersistsCompletedAssessment(t *testing.T) {
	st, err := store.Open("file:conversation_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer st.Close()

	sessions := sessionstore.NewMemoryStore()
	svc, err := NewService(goodProvider(), sessions, st.AssessmentRepo(), Config{LessonID: "hotel_check_in"})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	id, _ := runAssessment(t, svc)

	rec, err := st.AssessmentRepo().BySession(context.Background(), id)
	if err != nil {
		t.Fatalf("BySession() error = %v", err)
	}
	if rec == nil {
		t.Fatal("completed assessment was not persisted")
	}
	if rec.Level != "B1" || rec.Feedback != "Well done!" {
		t.Errorf("persisted record = %+v", rec)
	}
}

func TestService_CompleteAssessmentIsTerminalWithoutScenario(t *testing.T) {
	// A record can be complete but scenario-less if the process died
	// between evaluation and scenario selection. The next input repairs
	// nothing but must not crash.
	svc, sessions := newTestService(t, goodProvider(), Config{LessonID: "coffee_shop"})
	ctx := context.Background()

	id, _ := runAssessment(t, svc)

	// Simulate the damaged record.
	damaged, _ := sessions.Get(ctx, id)
	damaged.Scenario.Template = ""
	damaged.Scenario.ID = ""
	if err := sessions.Put(ctx, damaged); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	reply, err := svc.Chat(ctx, id, "hello?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(reply.Message, "already complete") {
		t.Errorf("reply = %q", reply.Message)
	}
}

func TestNewService_Validation(t *testing.T) {
	sessions := sessionstore.NewMemoryStore()

	if _, err := NewService(nil, sessions, nil, Config{}); err == nil {
		t.Error("expected error for nil provider")
	}
	if _, err := NewService(goodProvider(), nil, nil, Config{}); err == nil {
		t.Error("expected error for nil session store")
	}
	if _, err := NewService(goodProvider(), sessions, nil, Config{LessonID: "bogus"}); err == nil {
		t.Error("expected error for unknown lesson id")
	}
}
