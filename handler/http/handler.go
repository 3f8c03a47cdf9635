package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
	"github.com/Prathmesh1703/SearchEngine/src/storage/postgres/historyctrl"
)

type Handler struct {
	orchestrator *engine.Orchestrator
	reasoner     *engine.Reasoner
	normalizer   *engine.Normalizer
	history      *historyctrl.Service // nil when history is disabled
}

func NewHandler(orchestrator *engine.Orchestrator, reasoner *engine.Reasoner, normalizer *engine.Normalizer, history *historyctrl.Service) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		reasoner:     reasoner,
		normalizer:   normalizer,
		history:      history,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/search", h.Search)
	api.GET("/history", h.History)
	api.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// CheckHealth reports engine status: configured providers and memory size.
func (h *Handler) CheckHealth(c *gin.Context) {
	sendJSON(c, http.StatusOK, gin.H{
		"status":      "ok",
		"providers":   h.orchestrator.ProviderNames(),
		"memory_size": h.orchestrator.MemorySize(),
	})
}

// History lists recent search records, newest first.
func (h *Handler) History(c *gin.Context) {
	if h.history == nil {
		sendJSON(c, http.StatusOK, []historyctrl.SearchRecord{})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	sendJSON(c, http.StatusOK, records)
}
