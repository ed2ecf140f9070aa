package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CoverPrefix là thư mục chứa mọi ảnh bìa trong blob store
const CoverPrefix = "posts/"

// Upload là kết quả của một lần lưu ảnh bìa
type Upload struct {
	Path        string
	Size        int64
	ContentType string
}

// Uploader nhận file ảnh từ request, kiểm tra, resize rồi ghi vào blob store
type Uploader struct {
	store     BlobStore
	processor *ImageProcessor
}

func NewUploader(store BlobStore, processor *ImageProcessor) *Uploader {
	return &Uploader{
		store:     store,
		processor: processor,
	}
}

// Save ghi ảnh vào posts/<uuid>.<ext> và trả về path đã lưu
func (u *Uploader) Save(ctx context.Context, r io.Reader) (*Upload, error) {
	// Đọc tối đa MaxSize+1 byte để phát hiện file quá lớn mà không đọc hết
	limit := u.processor.MaxSize
	var reader io.Reader = r
	if limit > 0 {
		reader = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	format, err := u.processor.ValidateImage(data)
	if err != nil {
		return nil, err
	}

	data, resized, err := u.processor.Downscale(data, format)
	if err != nil {
		return nil, err
	}

	key := CoverPrefix + uuid.NewString() + Extension(format)
	contentType := ContentType(format)

	path, err := u.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("size", len(data)).
		Bool("resized", resized).
		Msg("Cover photo stored")

	return &Upload{
		Path:        path,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Discard xóa blob vừa upload khi request thất bại, lỗi chỉ được log
func (u *Uploader) Discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := u.store.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to discard uploaded cover photo")
	}
}
