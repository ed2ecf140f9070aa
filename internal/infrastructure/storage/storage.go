package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	// ErrBlobNotFound - path không tồn tại trong blob store
	ErrBlobNotFound = errors.New("storage: blob not found")

	// ErrInvalidKey - key rỗng, tuyệt đối hoặc chứa path traversal
	ErrInvalidKey = errors.New("storage: invalid key")
)

// BlobInfo mô tả một blob đã lưu
type BlobInfo struct {
	Path        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// BlobStore là contract chung cho local filesystem và MinIO
// Path trả về từ Put chính là giá trị lưu trong cover_photo
type BlobStore interface {
	// Put ghi data vào key, ghi đè nếu đã tồn tại
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Open mở blob để đọc, caller phải Close
	// Returns: ErrBlobNotFound nếu không tồn tại
	Open(ctx context.Context, path string) (io.ReadCloser, *BlobInfo, error)

	// Delete idempotent: xóa blob không tồn tại trả về nil
	Delete(ctx context.Context, path string) error

	// List trả về mọi blob có prefix
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}

// cleanKey chuẩn hóa key dạng "posts/abc.jpg" và chặn path traversal
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// contentTypeFor đoán content type theo extension cho các định dạng ảnh được phép
func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
