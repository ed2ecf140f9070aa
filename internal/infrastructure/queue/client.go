package queue

import (
	"github.com/hibiken/asynq"

	"blog-backend/internal/config"
)

// RedisOpt build asynq connection option từ Redis config dùng chung với cache
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient tạo asynq client để enqueue task từ API server
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}
