package engine

// SearchItem is a single candidate result flowing through the engine. A raw
// provider result carries only the first block of fields; the ranker fills in
// the computed scores before the item is returned or persisted.
type SearchItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Text     string `json:"text"`
	Provider string `json:"provider"`

	// ProviderScore is the provider-native relevance score, if the upstream
	// source reports one.
	ProviderScore float64 `json:"provider_score,omitempty"`

	PublishedAt string `json:"published_at,omitempty"`
	Author      string `json:"author,omitempty"`

	// Computed by the ranker. FinalScore is zero until DedupeAndRank ran.
	SemanticScore float64 `json:"semantic_score,omitempty"`
	KeywordScore  float64 `json:"keyword_score,omitempty"`
	FinalScore    float64 `json:"final_score,omitempty"`
}

// RefinementPlan is the planner's verdict on one reasoning step: whether
// another search round is worth it, which sub-queries to run, and how
// confident the planner is in the current pool.
type RefinementPlan struct {
	NeedMoreSearch bool     `json:"need_more_search"`
	Subqueries     []string `json:"subqueries"`
	Confidence     float64  `json:"confidence"`
}

// Citation maps a 1-based source index used in the synthesized answer to the
// source URL.
type Citation struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// Answer is the reasoner's terminal output: a synthesized answer plus the
// ordered citation list covering the accumulated result pool.
type Answer struct {
	Summary   string     `json:"answer"`
	Citations []Citation `json:"citations"`
}
