package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/response"
)

// BlobOpener là phần read của blob store
type BlobOpener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, *storage.BlobInfo, error)
}

// UploadsHandler phục vụ ảnh bìa đã upload: GET /uploads/*filepath
type UploadsHandler struct {
	store BlobOpener
}

func NewUploadsHandler(store BlobOpener) *UploadsHandler {
	return &UploadsHandler{store: store}
}

func (h *UploadsHandler) Serve(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("filepath"), "/")

	rc, info, err := h.store.Open(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			response.NotFound(c, "File not found")
			return
		}
		log.Error().Err(err).Str("path", path).Msg("Failed to open blob")
		response.InternalServerError(c, "Internal server error")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
