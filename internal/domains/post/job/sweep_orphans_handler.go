package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
)

// DefaultOrphanMinAge: blob trẻ hơn mức này có thể thuộc về một create đang chạy
const DefaultOrphanMinAge = time.Hour

// CoverIndex trả về tập path ảnh bìa đang được tham chiếu
type CoverIndex interface {
	CoverPhotos(ctx context.Context) (map[string]struct{}, error)
}

// SweepStore là phần của blob store mà sweep cần
type SweepStore interface {
	List(ctx context.Context, prefix string) ([]storage.BlobInfo, error)
	Delete(ctx context.Context, path string) error
}

// SweepResult tổng kết một lần quét
type SweepResult struct {
	Scanned int
	Deleted int
	Failed  int
}

// SweepOrphansHandler xóa blob dưới prefix không còn record nào tham chiếu
type SweepOrphansHandler struct {
	index CoverIndex
	store SweepStore
	now   func() time.Time
}

func NewSweepOrphansHandler(index CoverIndex, store SweepStore) *SweepOrphansHandler {
	return &SweepOrphansHandler{
		index: index,
		store: store,
		now:   time.Now,
	}
}

func (h *SweepOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := shared.SweepOrphansPayload{}
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	prefix := payload.Prefix
	if prefix == "" {
		prefix = storage.CoverPrefix
	}
	minAge := time.Duration(payload.MinAgeSeconds) * time.Second
	if minAge <= 0 {
		minAge = DefaultOrphanMinAge
	}

	_, err := h.Sweep(ctx, prefix, minAge)
	return err
}

// Sweep đọc tập tham chiếu trước rồi mới list blob
// Blob được upload sau khi đọc tham chiếu luôn trẻ hơn minAge nên không bị xóa nhầm
func (h *SweepOrphansHandler) Sweep(ctx context.Context, prefix string, minAge time.Duration) (SweepResult, error) {
	var result SweepResult

	refs, err := h.index.CoverPhotos(ctx)
	if err != nil {
		return result, fmt.Errorf("load cover references: %w", err)
	}

	blobs, err := h.store.List(ctx, prefix)
	if err != nil {
		return result, fmt.Errorf("list blobs: %w", err)
	}

	cutoff := h.now().Add(-minAge)
	for _, b := range blobs {
		result.Scanned++
		if _, ok := refs[b.Path]; ok {
			continue
		}
		if b.ModTime.After(cutoff) {
			continue
		}

		if err := h.store.Delete(ctx, b.Path); err != nil {
			result.Failed++
			log.Warn().Err(err).Str("path", b.Path).Msg("Failed to delete orphan cover photo")
			continue
		}
		result.Deleted++
	}

	log.Info().
		Str("prefix", prefix).
		Int("scanned", result.Scanned).
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Msg("Orphan cover sweep finished")

	return result, nil
}
