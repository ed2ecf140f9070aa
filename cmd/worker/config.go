package main

import (
	"blog-backend/internal/config"
	"blog-backend/pkg/logger"
)

// logWorkerConfig in ra phần config worker dùng tới
func logWorkerConfig(cfg *config.Config) {
	logger.Info("[Config] Worker", map[string]interface{}{
		"redis":       cfg.Redis.Host,
		"storage":     cfg.Storage.Driver,
		"sweep_cron":  cfg.Worker.OrphanSweepCron,
		"concurrency": cfg.Worker.Concurrency,
	})
}
