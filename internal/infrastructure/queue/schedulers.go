package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"plik-backend/internal/config"
	"plik-backend/internal/shared"
	"plik-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobsConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobsConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerPruneWebhookEventsJob()
}

// ================================================
// Prune webhook event log (daily at 3 AM UTC)
// ================================================
func (s *Scheduler) registerPruneWebhookEventsJob() error {
	payload, err := json.Marshal(shared.PruneWebhookEventsPayload{
		OlderThanDays: s.jobConfig.WebhookRetentionDays,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePruneWebhookEvents, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register PruneWebhookEvents job", err)
		return err
	}

	logger.Info("✓ Registered PruneWebhookEvents: daily at 3 AM", map[string]interface{}{
		"older_than_days": s.jobConfig.WebhookRetentionDays,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
