package scheduler

import (
	"context"
	"fmt"
	"time"

	"testimonials_backend/platform/config"
	"testimonials_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// PeriodicJob is one cron entry of the periodic scheduler.
type PeriodicJob struct {
	Cron     string
	TaskType string
}

// PeriodicJobs returns the cron entries from configuration. Entries with an
// empty spec are disabled.
func PeriodicJobs(cfg config.SchedulerConfig) []PeriodicJob {
	all := []PeriodicJob{
		{Cron: cfg.GetDigestCron(), TaskType: TaskWeeklyDigest},
		{Cron: cfg.GetReminderCron(), TaskType: TaskContactReminders},
		{Cron: cfg.GetCleanupCron(), TaskType: TaskMaintenanceCleanup},
	}
	jobs := make([]PeriodicJob, 0, len(all))
	for _, j := range all {
		if j.Cron != "" {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// PeriodicScheduler enqueues the cron jobs. Times are interpreted in UTC.
type PeriodicScheduler struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodicScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*PeriodicScheduler, error) {
	opt, err := redisOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("periodic task enqueue failed", "error", err)
				return
			}
			log.Info("periodic task enqueued", "task", info.Type, "id", info.ID)
		},
	})

	queue := queueName(cfg)
	for _, job := range PeriodicJobs(cfg) {
		// Unique keeps a slow run from overlapping the next tick.
		if _, err := scheduler.Register(job.Cron, NewPeriodicTask(job.TaskType), asynq.Queue(queue), asynq.Unique(time.Hour), asynq.MaxRetry(3)); err != nil {
			return nil, fmt.Errorf("register %s (%q): %w", job.TaskType, job.Cron, err)
		}
		log.Info("periodic task registered", "task", job.TaskType, "cron", job.Cron)
	}

	return &PeriodicScheduler{scheduler: scheduler, log: log}, nil
}

func (s *PeriodicScheduler) Run(ctx context.Context) {
	if s == nil || s.scheduler == nil {
		return
	}

	if err := s.scheduler.Start(); err != nil {
		s.log.Error("periodic scheduler failed to start", "error", err)
		return
	}
	<-ctx.Done()
	s.scheduler.Shutdown()
}
