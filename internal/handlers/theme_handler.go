package handlers

import (
	"context"
	"net/http"

	"match-service/internal/models"
	"match-service/internal/selection"
	"match-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type ThemeHandler struct {
	Service           *service.ThemeService
	Selector          *selection.Selector
	QuestionsPerMatch int
}

func NewThemeHandler(s *service.ThemeService, selector *selection.Selector, questionsPerMatch int) *ThemeHandler {
	return &ThemeHandler{Service: s, Selector: selector, QuestionsPerMatch: questionsPerMatch}
}

func (h *ThemeHandler) ListThemes(c *gin.Context) {
	themes, err := h.Service.ListActiveThemes(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, themes)
}

func (h *ThemeHandler) GetTheme(c *gin.Context) {
	theme, err := h.Service.GetTheme(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if theme == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Theme not found"})
		return
	}
	c.JSON(http.StatusOK, theme)
}

// ThemeReadiness reports whether the theme's question pool can host a
// match, so clients can grey out themes that would fail at start.
func (h *ThemeHandler) ThemeReadiness(c *gin.Context) {
	ready, count, err := h.Selector.ValidatePool(context.Background(), c.Param("id"), h.QuestionsPerMatch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ready":               ready,
		"question_count":      count,
		"questions_per_match": h.QuestionsPerMatch,
	})
}

func (h *ThemeHandler) CreateTheme(c *gin.Context) {
	var theme models.Theme
	if err := c.ShouldBindJSON(&theme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.CreateTheme(context.Background(), &theme); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, theme)
}

func (h *ThemeHandler) UpdateTheme(c *gin.Context) {
	var update bson.M
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdateTheme(context.Background(), c.Param("id"), update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Theme updated"})
}

func (h *ThemeHandler) DeleteTheme(c *gin.Context) {
	if err := h.Service.DeleteTheme(context.Background(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Theme deactivated"})
}
