package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

func newTestOrchestrator(providers []engine.Provider, memory engine.MemoryStore, cache engine.Cache) *engine.Orchestrator {
	embedder := newHashEmbedder(8)
	return engine.NewOrchestrator(providers, engine.NewRanker(embedder), embedder, memory, cache)
}

func TestSearchMergesURLVariantsAcrossProviders(t *testing.T) {
	short := &fakeProvider{name: "serpapi", items: []engine.SearchItem{
		{Title: "Raft", URL: "https://example.com/raft?ref=rss", Text: "snippet", Provider: "serpapi"},
	}}
	long := &fakeProvider{name: "exa", items: []engine.SearchItem{
		{Title: "Raft", URL: "https://example.com/raft", Text: "full consensus walkthrough with every log replication step", Provider: "exa"},
	}}

	o := newTestOrchestrator([]engine.Provider{short, long}, newMemStore(8), nil)

	results, err := o.Search(context.Background(), "raft consensus", nil, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 merged result, got %d", len(results))
	}
	if results[0].Text != long.items[0].Text {
		t.Errorf("merge kept %q, want the longer text", results[0].Text)
	}
	if results[0].FinalScore <= 0 {
		t.Errorf("FinalScore = %v, want > 0", results[0].FinalScore)
	}
}

func TestSearchAllProvidersFailing(t *testing.T) {
	down := errors.New("upstream unreachable")
	providers := []engine.Provider{
		&fakeProvider{name: "exa", err: down},
		&fakeProvider{name: "serpapi", err: down},
	}
	memory := newMemStore(8)
	o := newTestOrchestrator(providers, memory, nil)

	results, err := o.Search(context.Background(), "anything", nil, 10)
	if err != nil {
		t.Fatalf("Search() error = %v, want graceful empty result", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if memory.Len() != 0 {
		t.Errorf("memory grew to %d entries on a failed search", memory.Len())
	}
}

func TestSearchProviderFailureIsolation(t *testing.T) {
	good := &fakeProvider{name: "exa", items: []engine.SearchItem{
		{Title: "ok", URL: "https://up.example.com", Text: "healthy provider result", Provider: "exa"},
	}}
	bad := &fakeProvider{name: "serpapi", err: errors.New("rate limited")}

	o := newTestOrchestrator([]engine.Provider{good, bad}, newMemStore(8), nil)

	results, err := o.Search(context.Background(), "anything", nil, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://up.example.com" {
		t.Fatalf("expected the healthy provider's item, got %+v", results)
	}
}

func TestSearchCacheHitBypassesProviders(t *testing.T) {
	provider := &fakeProvider{name: "exa"}
	cache := newFakeCache()

	cached := struct {
		Results []engine.SearchItem `json:"results"`
	}{
		Results: []engine.SearchItem{
			{Title: "cached", URL: "https://cached.example.com", Provider: "exa", FinalScore: 0.9},
		},
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		t.Fatal(err)
	}
	key := engine.CacheKey("orchestrator", "repeat query", nil, 10, false)
	if err := cache.Set(context.Background(), key, raw, 0); err != nil {
		t.Fatal(err)
	}

	o := newTestOrchestrator([]engine.Provider{provider}, newMemStore(8), cache)

	results, err := o.Search(context.Background(), "repeat query", nil, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://cached.example.com" {
		t.Fatalf("expected the cached result, got %+v", results)
	}
	if provider.callCount() != 0 {
		t.Errorf("provider called %d times on a cache hit", provider.callCount())
	}
}

func TestSearchPersistsAndServesFromMemory(t *testing.T) {
	provider := &fakeProvider{name: "exa", items: []engine.SearchItem{
		{Title: "etcd", URL: "https://etcd.example.com", Text: "distributed key-value store", Provider: "exa"},
	}}
	memory := newMemStore(8)
	o := newTestOrchestrator([]engine.Provider{provider}, memory, nil)

	first, err := o.Search(context.Background(), "etcd internals", nil, 10)
	if err != nil {
		t.Fatalf("first Search() error = %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 result from providers, got %d", len(first))
	}
	if memory.Len() != 1 {
		t.Fatalf("memory size = %d after first search, want 1", memory.Len())
	}

	second, err := o.Search(context.Background(), "etcd internals", nil, 10)
	if err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1 (memory hit should bypass)", provider.callCount())
	}
	if len(second) != 1 {
		t.Fatalf("expected 1 memory result, got %d", len(second))
	}
	if second[0].Provider != "memory" {
		t.Errorf("Provider = %q, want memory", second[0].Provider)
	}
	if second[0].FinalScore <= 0 || second[0].FinalScore > 1 {
		t.Errorf("memory score = %v, want within (0, 1]", second[0].FinalScore)
	}
	if second[0].URL != "https://etcd.example.com" {
		t.Errorf("URL = %q, want the persisted finding", second[0].URL)
	}
}

func TestSearchEmbedderFailureSurfaces(t *testing.T) {
	provider := &fakeProvider{name: "exa", items: []engine.SearchItem{
		{Title: "x", URL: "https://x.example.com", Text: "body", Provider: "exa"},
	}}
	embedder := &failingEmbedder{}
	o := engine.NewOrchestrator([]engine.Provider{provider}, engine.NewRanker(embedder), embedder, nil, nil)

	if _, err := o.Search(context.Background(), "q", nil, 10); err == nil {
		t.Fatal("expected error when query embedding fails during ranking")
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding model offline")
}

func TestProviderNamesAndMemorySize(t *testing.T) {
	providers := []engine.Provider{
		&fakeProvider{name: "exa"},
		&fakeProvider{name: "serpapi"},
	}
	memory := newMemStore(8)
	o := newTestOrchestrator(providers, memory, nil)

	names := o.ProviderNames()
	if len(names) != 2 || names[0] != "exa" || names[1] != "serpapi" {
		t.Errorf("ProviderNames() = %v", names)
	}
	if o.MemorySize() != 0 {
		t.Errorf("MemorySize() = %d, want 0", o.MemorySize())
	}
}
