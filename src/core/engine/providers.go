package engine

import (
	"context"
	"errors"
	"time"
)

// Provider is a single search backend. Implementations must be safe for
// concurrent use and must not share mutable state with each other; the
// orchestrator fans out to all providers in parallel.
//
// A failing provider returns an error and no items. An empty result list with
// a nil error is a valid, successful outcome and is not a failure.
type Provider interface {
	// Name returns the provider identifier used for weighting and logging
	// (e.g. "exa", "serpapi").
	Name() string

	// Search runs the query against the backend. domains is an optional
	// allow-list; providers that cannot filter natively apply a post-hoc
	// substring match against the normalized domain list.
	Search(ctx context.Context, query string, domains []string, numResults int) ([]SearchItem, error)
}

// Embedder produces fixed-dimension vector representations of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLMProvider generates text from a system prompt and a user prompt. The
// engine uses it for query normalization, planning and answer synthesis.
type LLMProvider interface {
	Generate(ctx context.Context, system string, prompt string) (string, error)
}

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a shared key/value store with per-key expiry. Expired entries
// behave as absent. The orchestrator treats any cache error as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MemoryMetadata is the per-entry payload stored next to each vector in the
// memory store. Timestamp is stamped by the store on Add.
type MemoryMetadata struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Provider  string `json:"provider"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// MemoryHit is one nearest-neighbor match from the memory store.
type MemoryHit struct {
	ID       int
	Distance float64
	Meta     MemoryMetadata
}

// MemoryStore is an append-only store of (vector, metadata) pairs with
// nearest-neighbor lookup. Identifiers are sequential, monotonically
// increasing and never reused.
type MemoryStore interface {
	// Add persists the vector and metadata and returns the assigned id. The
	// vector must match the store's fixed dimension.
	Add(vector []float32, meta MemoryMetadata) (int, error)

	// Search returns up to topK nearest entries ordered by ascending
	// distance. An empty store yields an empty result.
	Search(vector []float32, topK int) ([]MemoryHit, error)

	// Len reports the number of stored entries.
	Len() int
}
