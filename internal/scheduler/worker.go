package scheduler

import (
	"context"
	"fmt"
	"time"

	"testimonials_backend/platform/config"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TranscriptionProcessor transcribes one uploaded video.
type TranscriptionProcessor interface {
	ProcessTranscription(ctx context.Context, organizationID, testimonialID uuid.UUID) error
}

// DigestSender sends the weekly digest to every opted-in organization.
type DigestSender interface {
	SendWeekly(ctx context.Context) (int, error)
}

// ReminderSender emails contacts whose reminder is due.
type ReminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// Jobs are the task bodies the worker dispatches to.
type Jobs struct {
	Transcriptions TranscriptionProcessor
	Digest         DigestSender
	Reminders      ReminderSender
	Cleanup        *Cleanup
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	jobs   Jobs
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, jobs Jobs, log *logger.Logger) (*Worker, error) {
	opt, err := redisOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{server: server, jobs: jobs, log: log}
	w.mux = w.newMux()
	return w, nil
}

func (w *Worker) newMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTranscribeTestimonial, w.handleTranscribeTestimonial)
	mux.HandleFunc(TaskWeeklyDigest, w.handleWeeklyDigest)
	mux.HandleFunc(TaskContactReminders, w.handleContactReminders)
	mux.HandleFunc(TaskMaintenanceCleanup, w.handleMaintenanceCleanup)
	return mux
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleTranscribeTestimonial(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTranscribeTestimonialPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return fmt.Errorf("%w: organization id: %v", asynq.SkipRetry, err)
	}
	testimonialID, err := uuid.Parse(payload.TestimonialID)
	if err != nil {
		return fmt.Errorf("%w: testimonial id: %v", asynq.SkipRetry, err)
	}

	started := time.Now()
	err = w.jobs.Transcriptions.ProcessTranscription(ctx, orgID, testimonialID)
	w.finish(TaskTranscribeTestimonial, started, 1, err)
	return err
}

func (w *Worker) handleWeeklyDigest(ctx context.Context, _ *asynq.Task) error {
	started := time.Now()
	sent, err := w.jobs.Digest.SendWeekly(ctx)
	w.finish(TaskWeeklyDigest, started, sent, err)
	// A retry would re-send the digests that already went out.
	if sent > 0 {
		return nil
	}
	return err
}

func (w *Worker) handleContactReminders(ctx context.Context, _ *asynq.Task) error {
	started := time.Now()
	sent, err := w.jobs.Reminders.SendDueReminders(ctx)
	w.finish(TaskContactReminders, started, sent, err)
	return err
}

func (w *Worker) handleMaintenanceCleanup(ctx context.Context, _ *asynq.Task) error {
	started := time.Now()
	removed, err := w.jobs.Cleanup.Run(ctx)
	w.finish(TaskMaintenanceCleanup, started, removed, err)
	return err
}

func (w *Worker) finish(job string, started time.Time, processed int, err error) {
	metrics.JobRunsTotal.WithLabelValues(job, metrics.Outcome(err)).Inc()
	w.log.JobRun(job, started, processed, err)
}
