package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
	"blog-backend/pkg/logger"
)

// OrphanMinAge: blob trẻ hơn một giờ có thể thuộc về request upload đang chạy
const OrphanMinAge = time.Hour

type Scheduler struct {
	scheduler *asynq.Scheduler
	workerCfg config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, workerCfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		workerCfg: workerCfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepOrphanCoversJob()
}

// ================================================
// JOB: Sweep Orphan Covers (default daily at 3 AM UTC)
// ================================================
// Dọn ảnh bìa bị bỏ lại khi xóa blob best-effort thất bại
// hoặc khi update không kèm file làm record mất tham chiếu
func (s *Scheduler) registerSweepOrphanCoversJob() error {
	payload, err := SweepOrphansTaskPayload()
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphanCovers, payload)

	_, err = s.scheduler.Register(
		s.workerCfg.OrphanSweepCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphanCovers job", err)
		return err
	}

	logger.Info("✓ Registered SweepOrphanCovers", map[string]interface{}{
		"cron": s.workerCfg.OrphanSweepCron,
	})
	return nil
}

// SweepOrphansTaskPayload build payload mặc định cho sweep job
func SweepOrphansTaskPayload() ([]byte, error) {
	return json.Marshal(shared.SweepOrphansPayload{
		Prefix:        storage.CoverPrefix,
		MinAgeSeconds: int64(OrphanMinAge / time.Second),
	})
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
