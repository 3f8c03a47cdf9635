package engine

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/log"
)

// Per-provider scoring power. Unknown providers fall back to
// defaultProviderWeight.
var providerWeights = map[string]float64{
	"exa":     1.30,
	"brave":   1.00,
	"elastic": 1.00,
	"serpapi": 0.90,
}

const defaultProviderWeight = 0.80

// Blend weights for the final score.
const (
	semanticWeight = 0.55
	keywordWeight  = 0.25
	providerWeight = 0.20
)

var wordPattern = regexp.MustCompile(`\w+`)

// Ranker deduplicates raw provider results and computes blended relevance
// scores. It has no state beyond the embedding capability it calls.
type Ranker struct {
	embedder Embedder
}

func NewRanker(embedder Embedder) *Ranker {
	return &Ranker{embedder: embedder}
}

// DedupeAndRank collapses URL duplicates, scores each survivor against the
// query and returns up to limit items ordered by descending final score.
func (r *Ranker) DedupeAndRank(ctx context.Context, query string, items []SearchItem, limit int) ([]SearchItem, error) {
	unique := dedupeByURL(items)
	if len(unique) == 0 {
		return []SearchItem{}, nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	ranked := make([]SearchItem, 0, len(unique))
	for _, item := range unique {
		text := item.Title + "\n" + item.Text

		semantic := 0.0
		textVec, err := r.embedder.Embed(ctx, text)
		if err != nil {
			// Degraded embedding keeps the item in play with the keyword
			// component only.
			log.Error(err, "failed to embed result text", "url", item.URL)
		} else {
			semantic = CosineSimilarity(queryVec, textVec)
		}

		keyword := keywordOverlap(query, text)
		weight := providerWeights[strings.ToLower(item.Provider)]
		if weight == 0 {
			weight = defaultProviderWeight
		}

		item.SemanticScore = semantic
		item.KeywordScore = keyword
		item.FinalScore = semanticWeight*semantic + keywordWeight*keyword + providerWeight*weight
		ranked = append(ranked, item)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	// Second pass so that score ties introduced by ranking keep the
	// highest-scoring duplicate.
	ranked = dedupeByURL(ranked)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// dedupeByURL keeps one item per normalized URL: query string stripped,
// lowercased, trimmed. On collision the item with the longer body text wins;
// ties keep the first seen. Input order is preserved for the survivors.
func dedupeByURL(items []SearchItem) []SearchItem {
	byURL := make(map[string]int, len(items))
	out := make([]SearchItem, 0, len(items))

	for _, item := range items {
		key := normalizeURL(item.URL)
		if idx, ok := byURL[key]; ok {
			if len(item.Text) > len(out[idx].Text) {
				out[idx] = item
			}
			continue
		}
		byURL[key] = len(out)
		out = append(out, item)
	}
	return out
}

func normalizeURL(url string) string {
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(strings.TrimSpace(url))
}

// CosineSimilarity computes the cosine similarity of two vectors. A zero
// vector compares as 0 against anything, which guards degenerate embeddings.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// keywordOverlap is the fraction of distinct query tokens present in text,
// case-insensitive with word-boundary tokenization. An empty query yields 0.
func keywordOverlap(query, text string) float64 {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := tokenSet(text)

	matched := 0
	for token := range queryTokens {
		if _, ok := textTokens[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
