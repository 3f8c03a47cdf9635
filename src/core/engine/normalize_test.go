package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

func TestNormalizeRewritesQuery(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"  messi 2022 world cup final reactions  "}}
	n := engine.NewNormalizer(llm)

	rewritten, debug := n.Normalize(context.Background(), "that messi game everyone talked about", []string{"https://www.Reddit.com/"})

	if rewritten != "messi 2022 world cup final reactions" {
		t.Errorf("rewritten = %q", rewritten)
	}
	if !strings.Contains(debug, `domains_hint="reddit.com"`) {
		t.Errorf("debug = %q, want normalized domains hint", debug)
	}
}

func TestNormalizeDegradesOnModelFailure(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("connection refused")}
	n := engine.NewNormalizer(llm)

	rewritten, debug := n.Normalize(context.Background(), "original query", nil)

	if rewritten != "original query" {
		t.Errorf("rewritten = %q, want the original preserved", rewritten)
	}
	if !strings.Contains(debug, "query normalization failed") {
		t.Errorf("debug = %q", debug)
	}
}

func TestNormalizeEmptyRewriteFallsBack(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"   "}}
	n := engine.NewNormalizer(llm)

	rewritten, _ := n.Normalize(context.Background(), "keep me", nil)
	if rewritten != "keep me" {
		t.Errorf("rewritten = %q, want the original preserved", rewritten)
	}
}
