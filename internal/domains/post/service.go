package post

import (
	"context"
)

// Service defines business logic operations for Post domain
// Đây là Post Lifecycle Manager: giữ record và blob nhất quán (best-effort)
type Service interface {
	// Create validates payload rồi lưu post mới
	// cover_photo = path của file đã upload, nil nếu không có
	// Errors: *ValidationError, *PersistenceError
	Create(ctx context.Context, payload PostPayload, file *UploadedFile) (*Post, error)

	// List trả về toàn bộ posts
	// Lỗi store chỉ được log, caller nhận kết quả rỗng hoặc một phần
	List(ctx context.Context) []Post

	// Get retrieves post by id
	// Errors: ErrPostNotFound
	Get(ctx context.Context, id string) (*Post, error)

	// Update ghi đè title, author, content, cover_photo
	// Ảnh cũ chỉ bị xóa khi request có file mới
	// Errors: ErrPostNotFound, *ValidationError, *PersistenceError
	Update(ctx context.Context, id string, payload PostPayload, file *UploadedFile) (*Post, error)

	// Delete xóa post và ảnh bìa của nó (best-effort)
	// Errors: ErrPostNotFound
	Delete(ctx context.Context, id string) error
}
