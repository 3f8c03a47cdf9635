package engine

import (
	"context"
	"fmt"
	"strings"
)

const normalizerSystemPrompt = `You are a search-query optimizer for a semantic social media memory search engine.

Platforms: X (Twitter), TikTok, Reddit, Instagram, YouTube, Threads.

Your job:
- Rewrite vague or messy queries into *optimized* search queries.
- Keep under 20-25 words.
- Do NOT answer the question; only rewrite.
- Add helpful missing context if implied (e.g., topic, sport, year).
- Do NOT add quotes.
- Do NOT add hashtags unless essential.
- Output ONLY the rewritten query in plain text.`

// Normalizer rewrites a raw user query into an optimized search query via
// the language model.
type Normalizer struct {
	llm LLMProvider
}

func NewNormalizer(llm LLMProvider) *Normalizer {
	return &Normalizer{llm: llm}
}

// Normalize returns the rewritten query plus a debug note. It never fails:
// any model error or empty rewrite degrades to the original query.
func (n *Normalizer) Normalize(ctx context.Context, query string, domains []string) (string, string) {
	hint := domainsHint(domains)

	prompt := fmt.Sprintf(`User Query: %s
Selected Platforms: %s

Rewrite this into an optimized search query ONLY.`, query, hint)

	rewritten, err := n.llm.Generate(ctx, normalizerSystemPrompt, prompt)
	if err != nil {
		return query, fmt.Sprintf("query normalization failed: %v", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		rewritten = query
	}

	debug := fmt.Sprintf("original_query=%q, domains_hint=%q, normalized_query=%q", query, hint, rewritten)
	return rewritten, debug
}

func domainsHint(domains []string) string {
	normalized := NormalizeDomains(domains)
	if len(normalized) == 0 {
		return "all platforms"
	}
	return strings.Join(normalized, ", ")
}
