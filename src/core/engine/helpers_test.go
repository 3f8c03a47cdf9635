package engine_test

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

// hashEmbedder produces deterministic vectors from a text hash so ranking
// tests are reproducible without a live embedding model. Specific texts can
// be pinned to fixed vectors via the overrides map.
type hashEmbedder struct {
	dim       int
	overrides map[string][]float32

	mu    sync.Mutex
	calls int
}

func newHashEmbedder(dim int) *hashEmbedder {
	return &hashEmbedder{dim: dim, overrides: make(map[string][]float32)}
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if vec, ok := e.overrides[text]; ok {
		return vec, nil
	}
	return hashVector(text, e.dim), nil
}

func hashVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, dim)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000) / 1000
	}
	return vec
}

// fakeProvider returns scripted items or a scripted error and counts calls.
type fakeProvider struct {
	name  string
	items []engine.SearchItem
	err   error

	mu    sync.Mutex
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(_ context.Context, _ string, _ []string, _ int) ([]engine.SearchItem, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	return p.items, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// memStore is an in-memory engine.MemoryStore used to observe orchestrator
// persistence without touching disk.
type memStore struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
	meta    []engine.MemoryMetadata
}

func newMemStore(dim int) *memStore {
	return &memStore{dim: dim}
}

func (s *memStore) Add(vector []float32, meta engine.MemoryMetadata) (int, error) {
	if len(vector) != s.dim {
		return 0, fmt.Errorf("dimension mismatch: want %d, got %d", s.dim, len(vector))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := len(s.vectors)
	meta.Timestamp = time.Now().Unix()
	s.vectors = append(s.vectors, vector)
	s.meta = append(s.meta, meta)
	return id, nil
}

func (s *memStore) Search(vector []float32, topK int) ([]engine.MemoryHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]engine.MemoryHit, 0, topK)
	for id, v := range s.vectors {
		var dist float64
		for i := range v {
			d := float64(vector[i]) - float64(v[i])
			dist += d * d
		}
		hits = append(hits, engine.MemoryHit{ID: id, Distance: dist, Meta: s.meta[id]})
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

func (s *memStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// fakeCache is a map-backed engine.Cache without expiry handling.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return nil, engine.ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

// scriptedLLM replays canned responses in order and records every prompt.
type scriptedLLM struct {
	responses []string
	err       error

	mu      sync.Mutex
	calls   int
	systems []string
}

func (l *scriptedLLM) Generate(_ context.Context, system string, _ string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	l.systems = append(l.systems, system)
	if l.err != nil {
		return "", l.err
	}
	if len(l.responses) == 0 {
		return "", fmt.Errorf("scriptedLLM: no response left for call %d", l.calls)
	}
	resp := l.responses[0]
	l.responses = l.responses[1:]
	return resp, nil
}

func (l *scriptedLLM) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// scriptedSearcher maps sub-queries to fixed result lists.
type scriptedSearcher struct {
	results map[string][]engine.SearchItem

	mu      sync.Mutex
	queries []string
}

func (s *scriptedSearcher) Search(_ context.Context, query string, _ []string, _ int) ([]engine.SearchItem, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.results[query], nil
}

func (s *scriptedSearcher) searchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}
