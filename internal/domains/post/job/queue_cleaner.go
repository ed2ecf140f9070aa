package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
)

// Enqueuer - *asynq.Client thỏa mãn interface này
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueCleaner đẩy việc xóa blob sang worker (BLOB_CLEANUP_MODE=async)
// Enqueue thất bại thì xóa trực tiếp qua fallback
type QueueCleaner struct {
	enqueuer Enqueuer
	fallback post.BlobCleaner
}

var _ post.BlobCleaner = (*QueueCleaner)(nil)

func NewQueueCleaner(enqueuer Enqueuer, fallback post.BlobCleaner) *QueueCleaner {
	return &QueueCleaner{
		enqueuer: enqueuer,
		fallback: fallback,
	}
}

func (c *QueueCleaner) Remove(ctx context.Context, postID, path string) error {
	payload, err := json.Marshal(shared.DeleteCoverPayload{Path: path, PostID: postID})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteCoverPhoto, payload)
	info, err := c.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCleanup),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		log.Warn().Err(err).Str("post_id", postID).Str("path", path).Msg("Failed to enqueue cover deletion, deleting inline")
		if c.fallback == nil {
			return fmt.Errorf("enqueue delete cover: %w", err)
		}
		return c.fallback.Remove(ctx, postID, path)
	}

	log.Debug().Str("task_id", info.ID).Str("post_id", postID).Str("path", path).Msg("Cover deletion enqueued")
	return nil
}
