package llm

import (
	"math"
	"testing"
)

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.3, OutputPerMTok: 2.5}

	// A typical evaluation call: a few hundred tokens in, a short JSON out.
	got := c.Cost(800, 120)
	want := 800*0.3/1_000_000 + 120*2.5/1_000_000
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("cost = %v, want %v", got, want)
	}

	if c.Cost(0, 0) != 0 {
		t.Fatalf("zero tokens should cost nothing, got %v", c.Cost(0, 0))
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	if c == nil {
		t.Fatal("expected pricing for gemini-2.5-flash")
	}
	if c.InputPerMTok <= 0 || c.OutputPerMTok <= c.InputPerMTok {
		t.Fatalf("implausible pricing: %+v", c)
	}

	// Mock and OpenRouter-routed models have no static pricing.
	if got := LookupCost("mock"); got != nil {
		t.Fatalf("expected nil for unpriced model, got %+v", got)
	}
	if got := LookupCost("google/gemini-2.5-flash"); got != nil {
		t.Fatalf("expected nil for OpenRouter ID, got %+v", got)
	}
}
