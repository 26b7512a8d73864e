package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/exercise"
)

const maxQueryLength = 120

// ExerciseHandler serves exercise-name lookups
type ExerciseHandler struct {
	matcher *exercise.Matcher
}

// NewExerciseHandler creates a new ExerciseHandler
func NewExerciseHandler(matcher *exercise.Matcher) *ExerciseHandler {
	return &ExerciseHandler{matcher: matcher}
}

// Match resolves a free-form name to a catalog exercise
// GET /api/exercises/match?name=db+bench
func (h *ExerciseHandler) Match(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if len(name) > maxQueryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is too long"})
		return
	}
	c.JSON(http.StatusOK, h.matcher.Match(name))
}

// List returns the catalog
// GET /api/exercises
func (h *ExerciseHandler) List(c *gin.Context) {
	exercises := h.matcher.Exercises()
	c.JSON(http.StatusOK, gin.H{"exercises": exercises, "total": len(exercises)})
}
