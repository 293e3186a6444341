package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/itigeeks/itigeeks-backend/internal/http/response"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/catalog"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type CatalogMatcher interface {
	Load(ctx context.Context) error
	Match(name string) *catalog.Entry
}

type CatalogHandler struct {
	log     *logger.Logger
	matcher CatalogMatcher
}

func NewCatalogHandler(log *logger.Logger, matcher CatalogMatcher) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), matcher: matcher}
}

// GET /catalog/match?name=
func (h *CatalogHandler) Match(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_name", nil)
		return
	}
	if err := h.matcher.Load(c.Request.Context()); err != nil {
		h.log.Warn("Catalog load failed", "error", err)
		respondErr(c, err)
		return
	}
	e := h.matcher.Match(name)
	if e == nil {
		response.RespondOK(c, gin.H{"name": name, "matched": false})
		return
	}
	response.RespondOK(c, gin.H{
		"name":       name,
		"matched":    true,
		"difficulty": e.Difficulty,
		"topic":      e.Topic,
	})
}
