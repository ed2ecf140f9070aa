package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
)

// BlobDeleter là phần của blob store mà job cần
type BlobDeleter interface {
	Delete(ctx context.Context, path string) error
}

// DeleteCoverHandler xóa ảnh bìa không còn được record nào tham chiếu
type DeleteCoverHandler struct {
	store BlobDeleter
}

func NewDeleteCoverHandler(store BlobDeleter) *DeleteCoverHandler {
	return &DeleteCoverHandler{store: store}
}

// ProcessTask xóa blob, lỗi tạm thời được asynq retry
func (h *DeleteCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteCover payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if payload.Path == "" {
		return fmt.Errorf("empty blob path: %w", asynq.SkipRetry)
	}

	if err := h.store.Delete(ctx, payload.Path); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			log.Warn().Str("path", payload.Path).Msg("Refusing to delete invalid blob path")
			return fmt.Errorf("delete %s: %v: %w", payload.Path, err, asynq.SkipRetry)
		}
		log.Error().
			Err(err).
			Str("post_id", payload.PostID).
			Str("path", payload.Path).
			Msg("Failed to delete cover photo")
		return fmt.Errorf("delete cover: %w", err)
	}

	log.Info().
		Str("post_id", payload.PostID).
		Str("path", payload.Path).
		Msg("Cover photo deleted")

	return nil
}
