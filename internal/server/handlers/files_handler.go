package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/repository/csvstore"
)

// FilesHandler serves the generated-file browsing endpoints.
type FilesHandler struct {
	store  *csvstore.Store
	logger *zap.Logger
}

// NewFilesHandler constructs the HTTP handler adapter for file browsing.
func NewFilesHandler(store *csvstore.Store, logger *zap.Logger) *FilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesHandler{store: store, logger: logger}
}

// List returns metadata for every generated CSV file.
func (h *FilesHandler) List(c *gin.Context) {
	files, err := h.store.ListFiles()
	if err != nil {
		h.logger.Error("failed listing data files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list data files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// Content returns one paginated window of a CSV file.
func (h *FilesHandler) Content(c *gin.Context) {
	offset, ok := parseIntParam(c, "offset", 0)
	if !ok {
		return
	}
	limit, ok := parseIntParam(c, "limit", 100)
	if !ok {
		return
	}

	window, err := h.store.ReadWindow(c.Param("name"), offset, limit)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, window)
}

// Stats returns per-column summary statistics of a CSV file.
func (h *FilesHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Param("name"))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *FilesHandler) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, csvstore.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case errors.Is(err, csvstore.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset and limit must not be negative"})
	default:
		h.logger.Error("file browsing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
	}
}
