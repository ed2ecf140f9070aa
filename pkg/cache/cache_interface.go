package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheUnavailable được trả về khi backend chưa connect
var ErrCacheUnavailable = errors.New("cache: backend unavailable")

// Cache interface định nghĩa contract cho cache layer
// Cho phép swap implementation (Redis, In-memory cho test)
type Cache interface {
	// Get lấy data từ cache và unmarshal vào dest
	// Returns: (found bool, error)
	// - found = true: cache hit, data đã unmarshal vào dest
	// - found = false: cache miss, dest không bị thay đổi
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set lưu data vào cache với TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete xóa các keys khỏi cache
	Delete(ctx context.Context, keys ...string) error

	// Incr tăng counter và gia hạn TTL, trả về giá trị mới
	// Counter chưa tồn tại được tính từ 0
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping kiểm tra connection
	Ping(ctx context.Context) error
}
