package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/log"
)

const (
	// memoryTopK bounds the nearest-neighbor lookup backing the
	// answered-before short circuit.
	memoryTopK = 5

	// cacheTTL is the expiry for whole-result memoization.
	cacheTTL = 6 * time.Hour

	// memoryProviderName marks items served from the vector memory store.
	memoryProviderName = "memory"
)

// cachedResults is the cache value envelope for a ranked result list.
type cachedResults struct {
	Results []SearchItem `json:"results"`
}

// Orchestrator fans a query out to all providers, ranks the merged pool and
// maintains the caching and vector-memory layers around that pipeline.
//
// Both cache and memory are best-effort: any error from them is logged and
// treated as a miss, never surfaced to the caller.
type Orchestrator struct {
	providers []Provider
	ranker    *Ranker
	embedder  Embedder
	memory    MemoryStore
	cache     Cache
}

// NewOrchestrator wires the orchestrator with its collaborators. cache may be
// nil when no cache backend is configured; memory is required.
func NewOrchestrator(providers []Provider, ranker *Ranker, embedder Embedder, memory MemoryStore, cache Cache) *Orchestrator {
	return &Orchestrator{
		providers: providers,
		ranker:    ranker,
		embedder:  embedder,
		memory:    memory,
		cache:     cache,
	}
}

// ProviderNames lists the configured provider identifiers in fan-out order.
func (o *Orchestrator) ProviderNames() []string {
	names := make([]string, 0, len(o.providers))
	for _, p := range o.providers {
		names = append(names, p.Name())
	}
	return names
}

// MemorySize reports the number of entries in the vector memory store.
func (o *Orchestrator) MemorySize() int {
	if o.memory == nil {
		return 0
	}
	return o.memory.Len()
}

// Search answers a query with a ranked, capped result list.
//
// Order of consultation: result cache, vector memory, then the provider set.
// A vector-memory hit bypasses providers entirely; prior findings are served
// as-is with a 1/(1+distance) score. New ranked results are persisted back to
// memory and memoized in the cache.
func (o *Orchestrator) Search(ctx context.Context, query string, domains []string, numResults int) ([]SearchItem, error) {
	traceID := uuid.NewString()
	logger := log.WithValues("trace_id", traceID, "query", query)

	cacheKey := CacheKey("orchestrator", query, domains, numResults, false)
	if cached, ok := o.cacheLookup(ctx, cacheKey); ok {
		logger.Info("cache hit", "results", len(cached))
		return cached, nil
	}

	if items, ok := o.memoryLookup(ctx, query, numResults); ok {
		logger.Info("vector memory hit", "results", len(items))
		return items, nil
	}

	merged := o.fanOut(ctx, query, domains, numResults, traceID)

	ranked, err := o.ranker.DedupeAndRank(ctx, query, merged, numResults)
	if err != nil {
		return nil, err
	}

	o.persistToMemory(ctx, ranked)
	o.cacheStore(ctx, cacheKey, ranked)

	logger.Info("search completed", "providers", len(o.providers), "raw", len(merged), "ranked", len(ranked))
	return ranked, nil
}

// fanOut queries every provider in parallel. Each provider call runs in its
// own goroutine with its own failure boundary: an error is logged and
// contributes zero items without affecting siblings.
func (o *Orchestrator) fanOut(ctx context.Context, query string, domains []string, numResults int, traceID string) []SearchItem {
	type providerResult struct {
		provider string
		items    []SearchItem
		err      error
	}

	results := make(chan providerResult, len(o.providers))
	var wg sync.WaitGroup

	for _, p := range o.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			items, err := p.Search(ctx, query, domains, numResults)
			results <- providerResult{provider: p.Name(), items: items, err: err}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []SearchItem
	for res := range results {
		if res.err != nil {
			log.Error(res.err, "provider failed", "provider", res.provider, "trace_id", traceID)
			continue
		}
		merged = append(merged, res.items...)
	}
	return merged
}

// memoryLookup serves the query from the vector memory store when any prior
// finding is close enough to exist at all. Providers are bypassed on a hit.
func (o *Orchestrator) memoryLookup(ctx context.Context, query string, numResults int) ([]SearchItem, bool) {
	if o.memory == nil {
		return nil, false
	}

	queryVec, err := o.embedder.Embed(ctx, query)
	if err != nil {
		log.Error(err, "failed to embed query for memory lookup")
		return nil, false
	}

	hits, err := o.memory.Search(queryVec, memoryTopK)
	if err != nil {
		log.Error(err, "vector memory search failed")
		return nil, false
	}
	if len(hits) == 0 {
		return nil, false
	}

	items := make([]SearchItem, 0, len(hits))
	for _, hit := range hits {
		score := 1 / (1 + hit.Distance)
		items = append(items, SearchItem{
			Title:         hit.Meta.Title,
			URL:           hit.Meta.URL,
			Text:          hit.Meta.Text,
			Provider:      memoryProviderName,
			ProviderScore: score,
			FinalScore:    score,
		})
	}
	if len(items) > numResults {
		items = items[:numResults]
	}
	return items, true
}

// persistToMemory embeds each ranked item and appends it to the vector
// memory store so future similar queries short-circuit. Failures are logged
// per item and never fail the request.
func (o *Orchestrator) persistToMemory(ctx context.Context, ranked []SearchItem) {
	if o.memory == nil {
		return
	}

	for _, item := range ranked {
		text := item.Text
		if text == "" {
			text = item.Title
		}
		if text == "" {
			continue
		}

		vec, err := o.embedder.Embed(ctx, text)
		if err != nil {
			log.Error(err, "failed to embed item for memory", "url", item.URL)
			continue
		}

		if _, err := o.memory.Add(vec, MemoryMetadata{
			Title:    item.Title,
			URL:      item.URL,
			Provider: item.Provider,
			Text:     item.Text,
		}); err != nil {
			log.Error(err, "failed to persist item to memory", "url", item.URL)
		}
	}
}

func (o *Orchestrator) cacheLookup(ctx context.Context, key string) ([]SearchItem, bool) {
	if o.cache == nil {
		return nil, false
	}

	raw, err := o.cache.Get(ctx, key)
	if err != nil {
		if err != ErrCacheMiss {
			log.Error(err, "cache get failed", "key", key)
		}
		return nil, false
	}

	var entry cachedResults
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Error(err, "failed to decode cached results", "key", key)
		return nil, false
	}
	return entry.Results, true
}

func (o *Orchestrator) cacheStore(ctx context.Context, key string, ranked []SearchItem) {
	if o.cache == nil {
		return
	}

	raw, err := json.Marshal(cachedResults{Results: ranked})
	if err != nil {
		log.Error(err, "failed to encode results for cache", "key", key)
		return
	}
	if err := o.cache.Set(ctx, key, raw, cacheTTL); err != nil {
		log.Error(err, "cache set failed", "key", key)
	}
}
