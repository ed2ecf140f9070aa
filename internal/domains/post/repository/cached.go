package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/pkg/cache"
)

// cachedRepository implement "Cache-Aside Pattern" cho FindByID
// List không bao giờ được cache
type cachedRepository struct {
	next  post.Repository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedRepository bọc repository với cache, lỗi cache không làm fail request
func NewCachedRepository(next post.Repository, c cache.Cache, ttl time.Duration) post.Repository {
	return &cachedRepository{
		next:  next,
		cache: c,
		ttl:   ttl,
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("post:%s", id)
}

// genKey đếm số lần invalidate của một post
// Reader chỉ ghi cache khi generation không đổi trong lúc nó đọc store
func genKey(id string) string {
	return fmt.Sprintf("post:%s:gen", id)
}

func (r *cachedRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	return r.next.Create(ctx, p)
}

func (r *cachedRepository) FindAll(ctx context.Context) ([]post.Post, error) {
	return r.next.FindAll(ctx)
}

func (r *cachedRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	key := cacheKey(id)

	var cached post.Post
	found, err := r.cache.Get(ctx, key, &cached)
	if err == nil && found {
		return &cached, nil
	}

	gen, genErr := r.generation(ctx, id)

	p, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Không đọc được generation thì không cache
	if genErr != nil {
		return p, nil
	}
	r.fill(ctx, id, gen, p)
	return p, nil
}

func (r *cachedRepository) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	updated, err := r.next.Update(ctx, p)
	r.invalidate(ctx, p.ID.Hex())
	return updated, err
}

func (r *cachedRepository) DeleteByID(ctx context.Context, id string) (*post.Post, error) {
	deleted, err := r.next.DeleteByID(ctx, id)
	r.invalidate(ctx, id)
	return deleted, err
}

func (r *cachedRepository) CoverPhotos(ctx context.Context) (map[string]struct{}, error) {
	return r.next.CoverPhotos(ctx)
}

// fill ghi p vào cache nếu không có invalidate nào chen vào sau khi đọc gen
// Invalidate tăng gen trước khi xóa key nên check lại sau Set là đủ
func (r *cachedRepository) fill(ctx context.Context, id string, gen int64, p *post.Post) {
	key := cacheKey(id)

	if current, err := r.generation(ctx, id); err != nil || current != gen {
		return
	}

	if err := r.cache.Set(ctx, key, p, r.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache post")
		return
	}

	if current, err := r.generation(ctx, id); err != nil || current != gen {
		if err := r.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to drop stale cached post")
		}
	}
}

func (r *cachedRepository) generation(ctx context.Context, id string) (int64, error) {
	var gen int64
	if _, err := r.cache.Get(ctx, genKey(id), &gen); err != nil {
		return 0, err
	}
	return gen, nil
}

func (r *cachedRepository) invalidate(ctx context.Context, id string) {
	// gen sống lâu hơn mọi entry để reader cũ luôn thấy thay đổi
	if _, err := r.cache.Incr(ctx, genKey(id), 2*r.ttl); err != nil {
		log.Warn().Err(err).Str("post_id", id).Msg("Failed to bump post cache generation")
	}
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Str("post_id", id).Msg("Failed to invalidate post cache")
	}
}
