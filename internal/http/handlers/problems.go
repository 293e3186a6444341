package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itigeeks/itigeeks-backend/internal/http/response"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
	"github.com/itigeeks/itigeeks-backend/internal/services"
)

type ProblemHandler struct {
	log      *logger.Logger
	problems services.ProblemService
}

func NewProblemHandler(log *logger.Logger, problems services.ProblemService) *ProblemHandler {
	return &ProblemHandler{log: log.With("handler", "ProblemHandler"), problems: problems}
}

// GET /me/problems?status=&difficulty=&topic=
func (h *ProblemHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.problems.List(c.Request.Context(), userID, services.ProblemFilter{
		Status:     c.Query("status"),
		Difficulty: c.Query("difficulty"),
		Topic:      c.Query("topic"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problems": list, "count": len(list)})
}

// PATCH /me/problems/:slug
// body: { "status": "Todo" | "In Progress" | "Done" | "Postponed" }
func (h *ProblemHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec, err := h.problems.UpdateStatus(c.Request.Context(), userID, c.Param("slug"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problem": rec})
}

// DELETE /me/problems/:slug
func (h *ProblemHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.problems.Remove(c.Request.Context(), userID, c.Param("slug")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /me/progress
func (h *ProblemHandler) Progress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.problems.Progress(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": p})
}
