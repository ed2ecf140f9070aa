package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
)

type PostService struct {
	repo post.Repository
	// store luôn đọc thẳng record store, dùng khi cần bản mới nhất
	store   post.Repository
	cleaner post.BlobCleaner
}

func NewPostService(repo, store post.Repository, cleaner post.BlobCleaner) post.Service {
	return &PostService{
		repo:    repo,
		store:   store,
		cleaner: cleaner,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE
// ════════════════════════════════════════════════════════════════

func (s *PostService) Create(ctx context.Context, payload post.PostPayload, file *post.UploadedFile) (*post.Post, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, payload.ToEntity(file))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create post")
		return nil, &post.PersistenceError{Op: "create", Err: err}
	}

	log.Info().
		Str("post_id", created.ID.Hex()).
		Bool("has_cover", created.HasCoverPhoto()).
		Msg("Post created")

	return created, nil
}

// ════════════════════════════════════════════════════════════════
// READ
// ════════════════════════════════════════════════════════════════

func (s *PostService) List(ctx context.Context) []post.Post {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Int("partial_count", len(posts)).Msg("Failed to list posts")
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return posts
}

func (s *PostService) Get(ctx context.Context, id string) (*post.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, post.ErrPostNotFound) {
			log.Error().Err(err).Str("post_id", id).Msg("Failed to get post")
		}
		return nil, post.ErrPostNotFound
	}
	return p, nil
}

// ════════════════════════════════════════════════════════════════
// UPDATE
// ════════════════════════════════════════════════════════════════

func (s *PostService) Update(ctx context.Context, id string, payload post.PostPayload, file *post.UploadedFile) (*post.Post, error) {
	// 1. Fetch original, bỏ qua cache để không xóa nhầm ảnh bìa cũ
	original, err := s.store.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, post.ErrPostNotFound) {
			log.Error().Err(err).Str("post_id", id).Msg("Failed to load post for update")
		}
		return nil, post.ErrPostNotFound
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}

	// 2. Ảnh cũ chỉ bị thay thế khi có file mới được upload
	var superseded string
	if original.HasCoverPhoto() && file != nil {
		superseded = *original.CoverPhoto
	}

	// 3. Ghi đè toàn bộ field, không merge
	payload.ApplyToEntity(original, file)

	// 4. Persist
	updated, err := s.repo.Update(ctx, original)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, post.ErrPostNotFound
		}
		log.Error().Err(err).Str("post_id", id).Msg("Failed to update post")
		return nil, &post.PersistenceError{Op: "update", Err: err}
	}

	// Xóa ảnh cũ sau khi record đã lưu, tránh mất ảnh khi update bị từ chối
	if superseded != "" && superseded != file.Path {
		s.removeBlob(ctx, id, superseded)
	}

	return updated, nil
}

// ════════════════════════════════════════════════════════════════
// DELETE
// ════════════════════════════════════════════════════════════════

func (s *PostService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if !errors.Is(err, post.ErrPostNotFound) {
			log.Error().Err(err).Str("post_id", id).Msg("Failed to delete post")
		}
		return post.ErrPostNotFound
	}

	if deleted.HasCoverPhoto() {
		s.removeBlob(ctx, id, *deleted.CoverPhoto)
	}

	log.Info().Str("post_id", id).Msg("Post deleted")
	return nil
}

// removeBlob là bước best-effort: lỗi chỉ được log
func (s *PostService) removeBlob(ctx context.Context, postID, path string) {
	if err := s.cleaner.Remove(ctx, postID, path); err != nil {
		log.Warn().
			Err(err).
			Str("post_id", postID).
			Str("path", path).
			Msg("Failed to delete cover photo, blob left orphaned")
	}
}
