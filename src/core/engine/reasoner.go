package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/log"
)

const (
	// maxAgentSteps bounds the plan/search refinement loop. The loop never
	// exceeds this budget regardless of what the planner answers.
	maxAgentSteps = 2

	// maxSubqueries caps the follow-up searches per step.
	maxSubqueries = 3

	// subqueryResults is the result count for each follow-up search; smaller
	// than the main query on purpose.
	subqueryResults = 5

	// agenticMinResults: fewer initial results than this suggests a deeper
	// search is worth trying.
	agenticMinResults = 3

	// agenticMinTokens: long queries tend to need reasoning.
	agenticMinTokens = 8

	// confidenceStop ends the loop early when the planner is sure enough.
	confidenceStop = 0.8

	noResultsAnswer = "No results were found for this query."
)

const plannerSystemPrompt = `You are a reasoning engine for an AI meta-search system.

You receive:
- The user's query.
- A set of search results from multiple providers.

You must think step-by-step and help decide:
1) Whether we need extra searches.
2) What refined sub-queries we should ask.
3) How confident you are that we already have enough information.

You MUST follow the requested JSON schema exactly when asked.`

const synthesisSystemPrompt = `You are an AI answer composer for a multi-provider search engine.

You take raw search results and produce:
- A clear final answer.
- Short bullet-point summary.
- Citations to sources in [1], [2], ... form.

Rules:
- Use only the provided results as your knowledge.
- Keep answer factual and grounded.
- Do NOT invent URLs or sources.
- Keep the main answer under ~200 words unless clearly needed.
- After the answer, add a section "What this means" in 2-4 bullet points.`

// interrogative or analytical leading tokens that flag a query as needing
// iterative reasoning.
var questionStarts = map[string]struct{}{
	"why": {}, "how": {}, "what": {}, "explain": {}, "compare": {},
	"analyse": {}, "analyze": {}, "summarize": {}, "summary": {},
}

// Searcher is the slice of the orchestrator the reasoner needs for follow-up
// sub-query searches.
type Searcher interface {
	Search(ctx context.Context, query string, domains []string, numResults int) ([]SearchItem, error)
}

// Reasoner decides per query whether a single-pass answer suffices or whether
// a bounded plan/search refinement loop is warranted, then synthesizes a
// final answer with citations over the accumulated pool.
type Reasoner struct {
	llm      LLMProvider
	searcher Searcher
}

func NewReasoner(llm LLMProvider, searcher Searcher) *Reasoner {
	return &Reasoner{llm: llm, searcher: searcher}
}

// Answer produces the final answer and citation list for a query. It always
// completes: planner and synthesis failures degrade to defined fallbacks.
func (r *Reasoner) Answer(ctx context.Context, query string, initial []SearchItem) Answer {
	if len(initial) == 0 {
		return Answer{Summary: noResultsAnswer, Citations: []Citation{}}
	}

	if !shouldUseAgentic(query, initial) {
		return r.synthesize(ctx, query, initial)
	}

	pool := make([]SearchItem, len(initial))
	copy(pool, initial)

	seenURLs := make(map[string]struct{}, len(pool))
	for _, item := range pool {
		seenURLs[item.URL] = struct{}{}
	}

	for step := 0; step < maxAgentSteps; step++ {
		plan := r.plan(ctx, query, pool)

		if !plan.NeedMoreSearch || plan.Confidence >= confidenceStop {
			break
		}
		if len(plan.Subqueries) == 0 {
			break
		}

		var fresh []SearchItem
		for _, subquery := range plan.Subqueries {
			extra, err := r.searcher.Search(ctx, subquery, nil, subqueryResults)
			if err != nil {
				log.Error(err, "sub-query search failed", "subquery", subquery)
				continue
			}
			fresh = append(fresh, extra...)
		}

		// Merge by exact URL against everything already collected. A round
		// with zero new unique URLs ends the loop.
		added := 0
		for _, item := range fresh {
			if _, ok := seenURLs[item.URL]; ok {
				continue
			}
			seenURLs[item.URL] = struct{}{}
			pool = append(pool, item)
			added++
		}
		if added == 0 {
			break
		}
	}

	return r.synthesize(ctx, query, pool)
}

// plan asks the planning capability for a refinement verdict. A failing or
// unparseable response degrades to "no more search needed, confidence 0.5".
func (r *Reasoner) plan(ctx context.Context, query string, pool []SearchItem) RefinementPlan {
	prompt := fmt.Sprintf(`User Query:
%s

CURRENT RESULTS:
%s

TASK:
Decide if we need another round of search.

Return ONLY valid JSON (no explanation), with the exact schema:
{
  "need_more_search": true or false,
  "subqueries": ["optional refined search 1", "optional refined search 2"],
  "confidence": a number between 0 and 1
}

Guidelines:
- If the results clearly answer the question, set need_more_search = false.
- If the user is asking for explanation, comparison, or deep context and results look thin or noisy, set need_more_search = true.
- Subqueries should be short and precise.`, query, buildResultsContext(pool))

	raw, err := r.llm.Generate(ctx, plannerSystemPrompt, prompt)
	if err != nil {
		log.Error(err, "planner call failed")
		return RefinementPlan{NeedMoreSearch: false, Confidence: 0.5}
	}

	plan, err := ParseRefinementPlan(raw)
	if err != nil {
		log.Error(err, "planner returned unparseable output")
		return RefinementPlan{NeedMoreSearch: false, Confidence: 0.5}
	}
	return plan
}

// synthesize composes the final answer over the full pool. A failing model
// degrades to a raw-results message; citations always cover the pool.
func (r *Reasoner) synthesize(ctx context.Context, query string, pool []SearchItem) Answer {
	if len(pool) == 0 {
		return Answer{Summary: "No sources returned relevant information.", Citations: []Citation{}}
	}

	prompt := fmt.Sprintf(`User Query:
%s

SOURCES:
%s

Write a final answer that:
- Directly answers the query first.
- Then adds a short "What this means" section in bullet points.
- Uses citations like [1], [2], ... matching the numbered sources.`, query, buildResultsContext(pool))

	summary, err := r.llm.Generate(ctx, synthesisSystemPrompt, prompt)
	if err != nil {
		log.Error(err, "synthesis call failed")
		summary = fmt.Sprintf("AI synthesis failed. Showing raw results instead.\n\nError: %v", err)
	}

	citations := make([]Citation, 0, len(pool))
	for i, item := range pool {
		citations = append(citations, Citation{Index: i + 1, URL: item.URL})
	}
	return Answer{Summary: strings.TrimSpace(summary), Citations: citations}
}

// shouldUseAgentic classifies a query as needing iterative reasoning.
func shouldUseAgentic(query string, results []SearchItem) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	tokens := strings.Fields(q)

	if len(tokens) > 0 {
		if _, ok := questionStarts[tokens[0]]; ok {
			return true
		}
	}
	if strings.Contains(q, "?") {
		return true
	}
	if len(tokens) >= agenticMinTokens {
		return true
	}
	if len(results) < agenticMinResults {
		return true
	}
	return false
}

// buildResultsContext renders the pool as numbered source blocks for the
// planner and synthesizer. Bodies are truncated to keep prompts bounded.
func buildResultsContext(results []SearchItem) string {
	const maxBody = 600

	var b strings.Builder
	for i, item := range results {
		text := item.Text
		if len(text) > maxBody {
			text = text[:maxBody]
		}
		fmt.Fprintf(&b, "[%d]\nTitle: %s\nURL: %s\nProvider: %s\nText: %s\n\n",
			i+1, item.Title, item.URL, item.Provider, text)
	}
	return b.String()
}
