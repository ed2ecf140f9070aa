package post

import (
	"context"
)

// Repository defines the interface for Post data access operations
// Mỗi method là một thao tác đơn với record store, atomic ở mức document
type Repository interface {
	// Create inserts a new post
	// Store gán id và date, trả về post đã lưu
	Create(ctx context.Context, post *Post) (*Post, error)

	// FindAll trả về toàn bộ posts theo thứ tự mặc định của store
	// Khi lỗi giữa chừng vẫn trả về phần đã đọc được cùng với error
	FindAll(ctx context.Context) ([]Post, error)

	// FindByID retrieves post by id
	// Returns: ErrPostNotFound nếu không tồn tại hoặc id sai định dạng
	FindByID(ctx context.Context, id string) (*Post, error)

	// Update thay thế document có cùng id bằng post
	// Returns: ErrPostNotFound nếu document đã bị xóa
	Update(ctx context.Context, post *Post) (*Post, error)

	// DeleteByID xóa và trả về document đã xóa trong một thao tác
	// Returns: ErrPostNotFound nếu không tồn tại
	DeleteByID(ctx context.Context, id string) (*Post, error)

	// CoverPhotos trả về tập path ảnh bìa đang được tham chiếu
	// Dùng cho orphan sweep
	CoverPhotos(ctx context.Context) (map[string]struct{}, error)
}

// BlobCleaner xóa blob không còn được tham chiếu
// Lỗi chỉ để log, không bao giờ chặn thao tác với record
type BlobCleaner interface {
	// postID chỉ dùng cho log và payload của job
	Remove(ctx context.Context, postID, path string) error
}
