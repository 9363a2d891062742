package scheduler

import (
	"context"
	"errors"
	"time"

	"testimonials_backend/platform/logger"
)

const (
	defaultFailedVideoRetention  = 30 * 24 * time.Hour
	defaultPaymentEventRetention = 90 * 24 * time.Hour
)

// VideoCleaner removes stored videos of failed uploads.
type VideoCleaner interface {
	CleanupFailedVideos(ctx context.Context, retention time.Duration) (int, error)
}

// PaymentEventPruner removes old webhook idempotency records.
type PaymentEventPruner interface {
	PruneProcessedEvents(ctx context.Context, retention time.Duration) (int, error)
}

// Cleanup is the body of the maintenance.cleanup task.
type Cleanup struct {
	videos                VideoCleaner
	paymentEvents         PaymentEventPruner
	log                   *logger.Logger
	failedVideoRetention  time.Duration
	paymentEventRetention time.Duration
}

func NewCleanup(videos VideoCleaner, paymentEvents PaymentEventPruner, log *logger.Logger, failedVideoRetention, paymentEventRetention time.Duration) *Cleanup {
	if failedVideoRetention <= 0 {
		failedVideoRetention = defaultFailedVideoRetention
	}
	if paymentEventRetention <= 0 {
		paymentEventRetention = defaultPaymentEventRetention
	}

	return &Cleanup{
		videos:                videos,
		paymentEvents:         paymentEvents,
		log:                   log,
		failedVideoRetention:  failedVideoRetention,
		paymentEventRetention: paymentEventRetention,
	}
}

// Run performs both cleanups and returns the number of removed items. One
// failing step does not skip the other.
func (c *Cleanup) Run(ctx context.Context) (int, error) {
	videos, videoErr := c.videos.CleanupFailedVideos(ctx, c.failedVideoRetention)
	if videoErr != nil {
		c.log.Warn("failed video cleanup incomplete", "error", videoErr)
	}

	pruned, pruneErr := c.paymentEvents.PruneProcessedEvents(ctx, c.paymentEventRetention)
	if pruneErr != nil {
		c.log.Warn("payment event pruning failed", "error", pruneErr)
	}

	if videos > 0 || pruned > 0 {
		c.log.Info("maintenance cleanup removed items", "videos", videos, "paymentEvents", pruned)
	}
	return videos + pruned, errors.Join(videoErr, pruneErr)
}
