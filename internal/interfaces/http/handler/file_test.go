package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/granada-os/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.NewLocalObjectStorage(t.TempDir())
	require.NoError(t, err)

	h := NewFileHandler(store)
	router := gin.New()
	router.PUT("/files/upload/*key", h.Upload)
	router.GET("/files/download/*key", h.Download)
	return router
}

func TestFileHandlerUploadDownloadRoundtrip(t *testing.T) {
	router := newFileRouter(t)

	body := "proposal attachment contents"
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/files/upload/proposals/abc/document.pdf", strings.NewReader(body))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/files/download/proposals/abc/document.pdf", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String())
}

func TestFileHandlerDownloadMissing(t *testing.T) {
	router := newFileRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/files/download/never-uploaded.bin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileHandlerUploadRejectsTraversal(t *testing.T) {
	router := newFileRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/files/upload/..%2Foutside.txt", strings.NewReader("x"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
