package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/log"
)

type searchRequest struct {
	Query      string   `json:"query" binding:"required"`
	Domains    []string `json:"domains"`
	NumResults int      `json:"num_results"`
	UseLLM     bool     `json:"use_llm"`
}

type searchResponse struct {
	Results        []engine.SearchItem `json:"results"`
	Answer         string              `json:"answer"`
	Citations      []engine.Citation   `json:"citations"`
	EffectiveQuery string              `json:"effective_query"`
	ProvidersUsed  []string            `json:"providers_used"`
	LLMUsed        bool                `json:"llm_used"`
	LLMDebug       string              `json:"llm_debug,omitempty"`
}

// Search runs the full pipeline for one query: optional LLM normalization,
// orchestrated multi-provider search, then the reasoning layer.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}
	if req.NumResults <= 0 {
		req.NumResults = 10
	}

	ctx := c.Request.Context()

	effectiveQuery := req.Query
	llmDebug := ""
	if req.UseLLM {
		effectiveQuery, llmDebug = h.normalizer.Normalize(ctx, req.Query, req.Domains)
	}

	results, err := h.orchestrator.Search(ctx, effectiveQuery, req.Domains, req.NumResults)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	answer := h.reasoner.Answer(ctx, effectiveQuery, results)

	providers := distinctProviders(results)

	if h.history != nil {
		if _, err := h.history.Record(ctx, req.Query, effectiveQuery, len(results), len(providers), req.UseLLM); err != nil {
			// best-effort: the history log never fails a search
			log.Error(err, "failed to record search history")
		}
	}

	sendJSON(c, http.StatusOK, searchResponse{
		Results:        results,
		Answer:         answer.Summary,
		Citations:      answer.Citations,
		EffectiveQuery: effectiveQuery,
		ProvidersUsed:  providers,
		LLMUsed:        req.UseLLM,
		LLMDebug:       llmDebug,
	})
}

func distinctProviders(items []engine.SearchItem) []string {
	seen := make(map[string]struct{}, len(items))
	providers := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Provider]; ok {
			continue
		}
		seen[item.Provider] = struct{}{}
		providers = append(providers, item.Provider)
	}
	return providers
}
