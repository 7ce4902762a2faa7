package handlers

import (
	"context"
	"net/http"

	"match-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	Service *service.AnswerService
}

func NewAnswerHandler(s *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{Service: s}
}

// GetAnswersByMatch exposes the live answer records of a match for
// debugging; records vanish with the match on completion.
func (h *AnswerHandler) GetAnswersByMatch(c *gin.Context) {
	answers, err := h.Service.GetAnswersByMatch(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, answers)
}
