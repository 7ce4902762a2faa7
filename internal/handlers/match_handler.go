package handlers

import (
	"context"
	"net/http"

	"match-service/internal/service"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	Matches *service.MatchService
}

func NewMatchHandler(matches *service.MatchService) *MatchHandler {
	return &MatchHandler{Matches: matches}
}

// GetMatch returns the persisted match document. Completed matches
// are deleted, so this only ever shows waiting or running matches.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.Matches.Matches.FindByID(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		return
	}
	c.JSON(http.StatusOK, match)
}

// CancelMatch is the operator escape hatch for a stuck match.
func (h *MatchHandler) CancelMatch(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "cancelled by operator"
	}
	if err := h.Matches.Cancel(context.Background(), c.Param("id"), req.Reason); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match cancelled"})
}
