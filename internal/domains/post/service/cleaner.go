package service

import (
	"context"
	"fmt"

	"blog-backend/internal/domains/post"
)

// BlobDeleter là phần của blob store mà cleaner cần
type BlobDeleter interface {
	Delete(ctx context.Context, path string) error
}

// DirectCleaner xóa blob ngay trong request (BLOB_CLEANUP_MODE=sync)
type DirectCleaner struct {
	store BlobDeleter
}

var _ post.BlobCleaner = (*DirectCleaner)(nil)

func NewDirectCleaner(store BlobDeleter) *DirectCleaner {
	return &DirectCleaner{store: store}
}

func (c *DirectCleaner) Remove(ctx context.Context, postID, path string) error {
	if err := c.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete blob %s of post %s: %w", path, postID, err)
	}
	return nil
}
