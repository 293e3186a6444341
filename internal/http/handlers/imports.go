package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/itigeeks/itigeeks-backend/internal/http/response"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
	"github.com/itigeeks/itigeeks-backend/internal/platform/ctxutil"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
	"github.com/itigeeks/itigeeks-backend/internal/services"
)

type ImportHandlerDeps struct {
	Log          *logger.Logger
	Imports      services.ImportService
	MaxFileBytes int64
}

type ImportHandler struct {
	log          *logger.Logger
	imports      services.ImportService
	maxFileBytes int64
}

func NewImportHandlerWithDeps(deps ImportHandlerDeps) *ImportHandler {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	maxBytes := deps.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &ImportHandler{
		log:          log.With("handler", "ImportHandler"),
		imports:      deps.Imports,
		maxFileBytes: maxBytes,
	}
}

// POST /me/imports (multipart, field "file")
func (h *ImportHandler) Preview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	// Leave room for the multipart envelope; the service enforces the exact limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErr(c, importerr.ErrFileTooLarge)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondErr(c, errors.Join(importerr.ErrRead, err))
		return
	}
	defer f.Close()

	batch, err := h.imports.Preview(c.Request.Context(), userID, fh.Filename, f)
	if err != nil {
		respondErr(c, err)
		return
	}
	if batch.Empty {
		c.JSON(http.StatusOK, gin.H{"batch": batch, "message": importerr.ErrNoMatches.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"batch": batch})
}

// GET /me/imports/:id
func (h *ImportHandler) Get(c *gin.Context) {
	userID, batchID, ok := h.batchParams(c)
	if !ok {
		return
	}
	batch, err := h.imports.GetBatch(c.Request.Context(), userID, batchID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": batch})
}

// DELETE /me/imports/:id
func (h *ImportHandler) Discard(c *gin.Context) {
	userID, batchID, ok := h.batchParams(c)
	if !ok {
		return
	}
	if err := h.imports.Discard(c.Request.Context(), userID, batchID); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /me/imports/:id/commit
// body: { "slugs": ["two-sum", ...] } (optional; default is every new item)
func (h *ImportHandler) Commit(c *gin.Context) {
	userID, batchID, ok := h.batchParams(c)
	if !ok {
		return
	}
	var req struct {
		Slugs []string `json:"slugs"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	res, err := h.imports.Commit(c.Request.Context(), userID, batchID, req.Slugs)
	if err != nil {
		if errors.Is(err, importerr.ErrPersistence) {
			h.log.Error("Import commit failed", "user_id", userID, "batch_id", batchID, "error", err)
		}
		respondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *ImportHandler) batchParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	ctxutil.SetBatchID(c.Request.Context(), batchID.String())
	return userID, batchID, true
}
