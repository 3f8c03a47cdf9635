package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

func resultItem(url string) engine.SearchItem {
	return engine.SearchItem{Title: "t", URL: url, Text: "body", Provider: "exa"}
}

func TestAnswerEmptyResults(t *testing.T) {
	llm := &scriptedLLM{}
	r := engine.NewReasoner(llm, &scriptedSearcher{})

	answer := r.Answer(context.Background(), "anything", nil)

	if answer.Summary != "No results were found for this query." {
		t.Errorf("Summary = %q", answer.Summary)
	}
	if len(answer.Citations) != 0 {
		t.Errorf("Citations = %v, want empty", answer.Citations)
	}
	if llm.callCount() != 0 {
		t.Errorf("LLM called %d times for empty results", llm.callCount())
	}
}

func TestAnswerSinglePassForSimpleQuery(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Latest Go releases are covered in [1] and [2]."}}
	searcher := &scriptedSearcher{}
	r := engine.NewReasoner(llm, searcher)

	initial := []engine.SearchItem{
		resultItem("https://a.example.com"),
		resultItem("https://b.example.com"),
		resultItem("https://c.example.com"),
	}

	// Short, declarative, enough results: no refinement loop.
	answer := r.Answer(context.Background(), "golang news today", initial)

	if llm.callCount() != 1 {
		t.Errorf("LLM called %d times, want exactly 1 synthesis call", llm.callCount())
	}
	if searcher.searchCount() != 0 {
		t.Errorf("searcher called %d times, want 0", searcher.searchCount())
	}
	if len(answer.Citations) != 3 {
		t.Fatalf("citations = %d, want 3", len(answer.Citations))
	}
	for i, c := range answer.Citations {
		if c.Index != i+1 {
			t.Errorf("citation %d has index %d, want %d", i, c.Index, i+1)
		}
		if c.URL != initial[i].URL {
			t.Errorf("citation %d URL = %q, want %q", i, c.URL, initial[i].URL)
		}
	}
}

func TestAnswerLoopStopsAtStepBudget(t *testing.T) {
	greedyPlan := `{"need_more_search": true, "subqueries": ["round one", "round two"], "confidence": 0.1}`
	llm := &scriptedLLM{responses: []string{
		greedyPlan,
		strings.Replace(greedyPlan, "round one", "round three", 1),
		"final answer",
	}}
	searcher := &scriptedSearcher{results: map[string][]engine.SearchItem{
		"round one":   {resultItem("https://1.example.com")},
		"round two":   {resultItem("https://2.example.com")},
		"round three": {resultItem("https://3.example.com")},
	}}
	r := engine.NewReasoner(llm, searcher)

	answer := r.Answer(context.Background(), "why does raft need leader election", []engine.SearchItem{
		resultItem("https://seed.example.com"),
	})

	// Planner may only run twice even though it always asks for more.
	if llm.callCount() != 3 {
		t.Errorf("LLM called %d times, want 2 plans + 1 synthesis", llm.callCount())
	}
	if answer.Summary != "final answer" {
		t.Errorf("Summary = %q", answer.Summary)
	}
	if len(answer.Citations) != 4 {
		t.Errorf("citations = %d, want seed + three merged", len(answer.Citations))
	}
}

func TestAnswerLoopStopsOnConfidence(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"need_more_search": true, "subqueries": ["rust ownership"], "confidence": 0.5}`,
		`{"need_more_search": true, "subqueries": ["more"], "confidence": 0.9}`,
		"confident answer",
	}}
	searcher := &scriptedSearcher{results: map[string][]engine.SearchItem{
		"rust ownership": {resultItem("https://fresh.example.com")},
	}}
	r := engine.NewReasoner(llm, searcher)

	r.Answer(context.Background(), "explain rust ownership model", []engine.SearchItem{
		resultItem("https://seed.example.com"),
	})

	if searcher.searchCount() != 1 {
		t.Errorf("searcher called %d times, want 1 (confidence should end round two)", searcher.searchCount())
	}
	if llm.callCount() != 3 {
		t.Errorf("LLM called %d times, want 2 plans + 1 synthesis", llm.callCount())
	}
}

func TestAnswerLoopStopsWhenNothingNew(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"need_more_search": true, "subqueries": ["same again"], "confidence": 0.2}`,
		"answer",
	}}
	searcher := &scriptedSearcher{results: map[string][]engine.SearchItem{
		"same again": {resultItem("https://seed.example.com")},
	}}
	r := engine.NewReasoner(llm, searcher)

	answer := r.Answer(context.Background(), "how do bloom filters work", []engine.SearchItem{
		resultItem("https://seed.example.com"),
	})

	// The sub-query only returned an already-seen URL, so round two never runs.
	if llm.callCount() != 2 {
		t.Errorf("LLM called %d times, want 1 plan + 1 synthesis", llm.callCount())
	}
	if len(answer.Citations) != 1 {
		t.Errorf("citations = %d, want just the seed", len(answer.Citations))
	}
}

func TestAnswerPlannerGarbageDegrades(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"I think we should definitely search more! (not JSON)",
		"best effort answer",
	}}
	r := engine.NewReasoner(llm, &scriptedSearcher{})

	answer := r.Answer(context.Background(), "what is a crdt", []engine.SearchItem{
		resultItem("https://seed.example.com"),
	})

	if llm.callCount() != 2 {
		t.Errorf("LLM called %d times, want plan attempt + synthesis", llm.callCount())
	}
	if answer.Summary != "best effort answer" {
		t.Errorf("Summary = %q", answer.Summary)
	}
}

func TestAnswerSynthesisFailureFallback(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("model timed out")}
	r := engine.NewReasoner(llm, &scriptedSearcher{})

	initial := []engine.SearchItem{
		resultItem("https://a.example.com"),
		resultItem("https://b.example.com"),
		resultItem("https://c.example.com"),
	}
	answer := r.Answer(context.Background(), "golang news today", initial)

	if !strings.Contains(answer.Summary, "AI synthesis failed") {
		t.Errorf("Summary = %q, want the raw-results fallback", answer.Summary)
	}
	if !strings.Contains(answer.Summary, "model timed out") {
		t.Errorf("Summary = %q, want the underlying error included", answer.Summary)
	}
	if len(answer.Citations) != 3 {
		t.Errorf("citations = %d, want the pool still cited", len(answer.Citations))
	}
}
