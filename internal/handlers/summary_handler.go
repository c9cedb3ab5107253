package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github-dashboard-api/internal/dashboard"
)

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	Content *string `json:"content"`
}

// SummaryHandler serves README summaries.
type SummaryHandler struct {
	svc *dashboard.Service
}

func NewSummaryHandler(svc *dashboard.Service) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// GetRepoSummary summarizes the README of :owner/:repo.
func (h *SummaryHandler) GetRepoSummary(c *gin.Context) {
	res := h.svc.ReadmeSummary(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if !res.OK() {
		writeGenerationError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": res.Text})
}

// Summarize summarizes README content posted by the client.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'content' in request body."})
		return
	}

	res := h.svc.SummarizeContent(c.Request.Context(), *req.Content)
	if !res.OK() {
		writeGenerationError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": res.Text})
}
