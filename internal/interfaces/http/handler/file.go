package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/granada-os/backend/internal/infrastructure/storage"
)

// maxUploadSize bounds file uploads accepted by the local storage endpoint
const maxUploadSize = 25 << 20

// FileHandler serves the upload and download endpoints that back
// LocalObjectStorage URLs. It is only registered when the local
// storage driver is configured; S3 presigned URLs bypass the API.
type FileHandler struct {
	BaseHandler
	store *storage.LocalObjectStorage
}

// NewFileHandler creates a new file handler
func NewFileHandler(store *storage.LocalObjectStorage) *FileHandler {
	return &FileHandler{
		store: store,
	}
}

// Upload godoc
// @Summary      Upload a file to local storage
// @Description  Accepts the raw request body as the object contents
// @Tags         files
// @Accept       octet-stream
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /files/upload/{key} [put]
func (h *FileHandler) Upload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.BadRequest(c, "Storage key is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(data) > maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, "ERR_FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
		return
	}

	if err := h.store.WriteObject(c.Request.Context(), key, data); err != nil {
		h.BadRequest(c, "Invalid storage key")
		return
	}

	h.NoContent(c)
}

// Download godoc
// @Summary      Download a file from local storage
// @Tags         files
// @Produce      octet-stream
// @Success      200 {string} string "File contents"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /files/download/{key} [get]
func (h *FileHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.BadRequest(c, "Storage key is required")
		return
	}

	data, err := h.store.ReadObject(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.NotFound(c, "File not found")
			return
		}
		h.BadRequest(c, "Invalid storage key")
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", data)
}
