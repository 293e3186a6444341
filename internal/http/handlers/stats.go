package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itigeeks/itigeeks-backend/internal/http/response"
	"github.com/itigeeks/itigeeks-backend/internal/services"
)

type StatsHandler struct {
	stats services.ProfileStatsService
}

func NewStatsHandler(stats services.ProfileStatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// POST /stats/profiles
// body: { "handles": ["alice", "bob"] }
func (h *StatsHandler) Profiles(c *gin.Context) {
	var req struct {
		Handles []string `json:"handles" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.stats.Fetch(c.Request.Context(), req.Handles)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profiles": out})
}

// PUT /me/handle
// body: { "handle": "alice" }
func (h *StatsHandler) LinkHandle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Handle string `json:"handle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	stats, err := h.stats.LinkHandle(c.Request.Context(), userID, req.Handle)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": stats})
}
