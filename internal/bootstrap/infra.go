package bootstrap

import (
	"context"
	"fmt"
	"time"

	"testimonials_backend/internal/email"
	"testimonials_backend/internal/events"
	"testimonials_backend/internal/scheduler"
	"testimonials_backend/platform/config"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/ratelimit"

	"github.com/redis/go-redis/v9"
)

// Open connects every external dependency. The returned close function
// releases them in reverse order and is safe to call when Open failed.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Infra, func(), error) {
	var (
		infra   Infra
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	pool, err := Connect(ctx, cfg, log)
	if err != nil {
		return Infra{}, closeAll, fmt.Errorf("connect database: %w", err)
	}
	closers = append(closers, pool.Close)
	infra.Pool = pool
	log.Info("database connection established")

	if infra.Storage, err = newStorage(ctx, cfg, log); err != nil {
		return Infra{}, closeAll, fmt.Errorf("init storage: %w", err)
	}

	if infra.Sender, err = email.NewSender(cfg); err != nil {
		return Infra{}, closeAll, fmt.Errorf("init email sender: %w", err)
	}

	if infra.Transcriber, err = newTranscriber(ctx, cfg, log); err != nil {
		return Infra{}, closeAll, fmt.Errorf("init transcriber: %w", err)
	}

	infra.EventBus = events.NewInMemoryBus(log)

	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; rate limiting and background transcription disabled")
		return infra, closeAll, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return Infra{}, closeAll, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() && opt.TLSConfig != nil {
		opt.TLSConfig.InsecureSkipVerify = true
	}
	redisClient := redis.NewClient(opt)
	closers = append(closers, func() { _ = redisClient.Close() })

	infra.AuthLimit = ratelimit.New(redisClient, "auth", cfg.GetAuthRateLimitPerMinute(), time.Minute)
	infra.PublicLimit = ratelimit.New(redisClient, "public", cfg.GetPublicRateLimitPerMinute(), time.Minute)

	queue, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return infra, closeAll, nil
	}
	closers = append(closers, func() { _ = queue.Close() })
	infra.Queue = queue

	return infra, closeAll, nil
}
