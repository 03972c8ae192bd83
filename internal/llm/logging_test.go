package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/linguo/internal/store"
)

// memEventRepo collects events in memory for assertions.
type memEventRepo struct {
	events []store.LLMEventData
}

func (r *memEventRepo) AppendLLMEvent(_ context.Context, data store.LLMEventData) error {
	r.events = append(r.events, data)
	return nil
}

func (r *memEventRepo) QueryLLMEvents(_ context.Context, _ store.QueryOpts) ([]store.LLMEvent, error) {
	return nil, nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(
		MockResponse{
			Content: json.RawMessage(`{"reply":"Hi there! What can I get you?"}`),
			Usage:   Usage{InputTokens: 30, OutputTokens: 12, TotalTokens: 42},
		},
	)
	p := WithLogging(mock, repo)

	ctx := WithPurpose(context.Background(), PurposeRoleplay)
	_, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if !ev.Success {
		t.Fatal("expected success event")
	}
	if ev.Purpose != PurposeRoleplay {
		t.Fatalf("expected purpose %q, got %q", PurposeRoleplay, ev.Purpose)
	}
	if ev.InputTokens != 30 || ev.OutputTokens != 12 {
		t.Fatalf("unexpected token counts: %+v", ev)
	}
	if ev.CostUSD != 0 {
		t.Fatalf("mock model has no pricing, expected zero cost, got %v", ev.CostUSD)
	}
}

// pricedProvider reports a real model ID so cost estimation kicks in.
type pricedProvider struct {
	model string
	usage Usage
}

func (p *pricedProvider) Generate(_ context.Context, _ Request) (*Response, error) {
	return &Response{
		Content:    json.RawMessage(`{"reply":"ok"}`),
		Model:      p.model,
		Usage:      p.usage,
		StopReason: "end",
	}, nil
}

func (p *pricedProvider) ModelID() string { return p.model }

func TestLogging_RecordsCost(t *testing.T) {
	repo := &memEventRepo{}
	p := WithLogging(&pricedProvider{
		model: "gemini-2.5-flash",
		usage: Usage{InputTokens: 1000, OutputTokens: 2000, TotalTokens: 3000},
	}, repo)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	want := LookupCost("gemini-2.5-flash").Cost(1000, 2000)
	if got := repo.events[0].CostUSD; got != want {
		t.Fatalf("cost = %v, want %v", got, want)
	}
	if repo.events[0].CostUSD <= 0 {
		t.Fatal("expected a positive cost for a priced model")
	}
}

func TestLogging_ClassifiesContractFault(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{}`), Err: errors.New("missing field")}},
	)
	p := WithLogging(mock, repo)

	ctx := WithPurpose(context.Background(), PurposeEvaluation)
	_, err := p.Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Success {
		t.Fatal("expected failure event")
	}
	if ev.ErrorKind != "contract" {
		t.Fatalf("expected error kind 'contract', got %q", ev.ErrorKind)
	}
}

func TestLogging_ClassifiesTransportFault(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection refused")}},
	)
	p := WithLogging(mock, repo)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if repo.events[0].ErrorKind != "transport" {
		t.Fatalf("expected error kind 'transport', got %q", repo.events[0].ErrorKind)
	}
	if repo.events[0].Purpose != "unknown" {
		t.Fatalf("expected purpose 'unknown' without label, got %q", repo.events[0].Purpose)
	}
}
