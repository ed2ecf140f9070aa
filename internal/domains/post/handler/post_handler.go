package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/response"
)

const coverField = "cover_photo"

// CoverUploader là upload step: ghi file ảnh vào blob store trước khi gọi service
type CoverUploader interface {
	Save(ctx context.Context, r io.Reader) (*storage.Upload, error)
	Discard(ctx context.Context, path string)
}

type PostHandler struct {
	service  post.Service
	uploader CoverUploader
}

func NewPostHandler(svc post.Service, uploader CoverUploader) *PostHandler {
	return &PostHandler{
		service:  svc,
		uploader: uploader,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /posts
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) Create(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	// Validate sớm để không ghi file cho request chắc chắn bị từ chối
	if err := payload.Validate(); err != nil {
		h.renderError(c, err, "")
		return
	}

	file, err := h.receiveCover(c)
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	created, err := h.service.Create(c.Request.Context(), payload, file)
	if err != nil {
		h.discard(c, file)
		h.renderError(c, err, "")
		return
	}

	response.Created(c, created)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /posts, GET /posts/:id
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) List(c *gin.Context) {
	response.OK(c, h.service.List(c.Request.Context()))
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err, "Post not Found")
		return
	}

	response.OK(c, p)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT/PATCH /posts/:id
// ════════════════════════════════════════════════════════════════

// Validation nằm trong service, sau bước kiểm tra post tồn tại
func (h *PostHandler) Update(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	file, err := h.receiveCover(c)
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), payload, file)
	if err != nil {
		h.discard(c, file)
		h.renderError(c, err, "Original Post Not Found")
		return
	}

	response.OK(c, updated)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /posts/:id
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err, "Post not Found")
		return
	}

	response.MessageOK(c, "Successfully deleted post")
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

// bindPayload parse multipart/urlencoded form hoặc JSON body
// Body không parse được → 400, chưa có upload hay store call nào
func (h *PostHandler) bindPayload(c *gin.Context) (post.PostPayload, bool) {
	var payload post.PostPayload
	if err := c.ShouldBind(&payload); err != nil {
		_ = c.Error(err)
		response.BadRequest(c, "Invalid request body")
		return payload, false
	}
	return payload, true
}

// receiveCover ghi file cover_photo (nếu có) vào blob store
// Không có file hoặc request không phải multipart → nil, nil
func (h *PostHandler) receiveCover(c *gin.Context) (*post.UploadedFile, error) {
	fh, err := c.FormFile(coverField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", post.ErrInvalidCover, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", post.ErrInvalidCover, err)
	}
	defer f.Close()

	upload, err := h.uploader.Save(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) ||
			errors.Is(err, storage.ErrUnsupportedFormat) ||
			errors.Is(err, storage.ErrNotAnImage) {
			return nil, fmt.Errorf("%w: %v", post.ErrInvalidCover, err)
		}
		return nil, err
	}

	return &post.UploadedFile{
		Path:        upload.Path,
		Size:        upload.Size,
		ContentType: upload.ContentType,
	}, nil
}

// discard xóa file vừa upload khi service từ chối request
func (h *PostHandler) discard(c *gin.Context, file *post.UploadedFile) {
	if file == nil {
		return
	}
	h.uploader.Discard(c.Request.Context(), file.Path)
}

// renderError map domain error sang status code và body {error}
// notFoundMsg thay cho message mặc định khi post không tồn tại
func (h *PostHandler) renderError(c *gin.Context, err error, notFoundMsg string) {
	status := post.ToHTTPStatus(err)
	_ = c.Error(err)

	var vErr *post.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, status, err.Error(), vErr.Fields)
	case status == http.StatusNotFound && notFoundMsg != "":
		response.NotFound(c, notFoundMsg)
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled post error")
		response.InternalServerError(c, "Internal server error")
	default:
		response.ErrorResponse(c, status, err.Error())
	}
}
