// Package bootstrap wires the domain modules together. It is shared by the API
// server, the scheduler and the one-shot commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"testimonials_backend/internal/adapters"
	"testimonials_backend/internal/adapters/storage"
	"testimonials_backend/internal/auth"
	"testimonials_backend/internal/billing"
	"testimonials_backend/internal/contacts"
	"testimonials_backend/internal/digest"
	"testimonials_backend/internal/email"
	"testimonials_backend/internal/events"
	"testimonials_backend/internal/funnel"
	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/internal/notification"
	"testimonials_backend/internal/organizations"
	"testimonials_backend/internal/scheduler"
	"testimonials_backend/internal/sharing"
	"testimonials_backend/internal/testimonials"
	"testimonials_backend/internal/testimonials/transcriber"
	"testimonials_backend/internal/unsubscribe"
	"testimonials_backend/platform/config"
	"testimonials_backend/platform/db"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/ratelimit"
	"testimonials_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const reminderEmailsPerSecond = 5

// Infra holds the external clients the modules are built on. Storage, Queue
// and the limiters are optional.
type Infra struct {
	Pool        *pgxpool.Pool
	Storage     storage.StorageService
	Sender      email.Sender
	EventBus    *events.InMemoryBus
	Queue       *scheduler.Client
	Transcriber transcriber.Transcriber
	AuthLimit   *ratelimit.Limiter
	PublicLimit *ratelimit.Limiter
}

// Modules are the fully wired domain modules.
type Modules struct {
	Auth          *auth.Module
	Organizations *organizations.Module
	Contacts      *contacts.Module
	Testimonials  *testimonials.Module
	Sharing       *sharing.Module
	Funnel        *funnel.Module
	Digest        *digest.Module
	Billing       *billing.Module
	Unsubscribe   *unsubscribe.Module
	Notification  *notification.Module
}

// Build creates every module and connects them through adapters.
func Build(cfg *config.Config, infra Infra, log *logger.Logger) (*Modules, error) {
	val := validator.New()

	authModule, err := auth.NewModule(infra.Pool, cfg, infra.EventBus, val, log)
	if err != nil {
		return nil, fmt.Errorf("auth module: %w", err)
	}

	orgModule := organizations.NewModule(infra.Pool, infra.Storage, cfg.GetMinioBucketLogos(), val, log)
	orgProfiles := adapters.NewOrganizationProfileAdapter(orgModule.Service())

	contactsModule := contacts.NewModule(infra.Pool, orgProfiles, infra.EventBus, cfg, val, infra.PublicLimit, log)

	testimonialsModule := testimonials.NewModule(infra.Pool, testimonials.Deps{
		Contacts:    adapters.NewTestimonialContactGateway(contactsModule.Repository()),
		Widgets:     orgModule.Service(),
		Storage:     infra.Storage,
		Transcriber: infra.Transcriber,
		EventBus:    infra.EventBus,
		Config:      cfg,
		Validator:   val,
		PublicLimit: infra.PublicLimit,
		Logger:      log,
	})
	if infra.Queue != nil {
		testimonialsModule.Service().SetTranscriptionQueue(infra.Queue)
	}

	sharingModule, err := sharing.NewModule(infra.Pool, infra.EventBus, val, infra.PublicLimit, log)
	if err != nil {
		return nil, fmt.Errorf("sharing module: %w", err)
	}

	funnelModule := funnel.NewModule(contactsModule.Repository(), testimonialsModule.Service())
	digestModule := digest.NewModule(orgModule.Service(), funnelModule.Service(), testimonialsModule.Service(), infra.Sender, cfg.GetAppBaseURL(), log)
	billingModule := billing.NewModule(infra.Pool, orgModule.Service(), testimonialsModule.Service(), cfg.GetPaymentWebhookSecret(), log)

	unsubscribeModule := unsubscribe.NewModule(cfg.GetUnsubscribeSecret(), cfg.GetAppBaseURL(), contactsModule.Service())
	contactsModule.Service().SetReminderSender(adapters.NewReminderEmailSender(
		infra.Sender,
		orgProfiles,
		unsubscribeModule.Service(),
		contactsModule.Service().RecordingURL,
		reminderEmailsPerSecond,
	))

	notificationModule := notification.New(infra.Sender, orgModule.Service(), contactsModule.Repository(), cfg, log)
	notificationModule.RegisterHandlers(infra.EventBus)

	return &Modules{
		Auth:          authModule,
		Organizations: orgModule,
		Contacts:      contactsModule,
		Testimonials:  testimonialsModule,
		Sharing:       sharingModule,
		Funnel:        funnelModule,
		Digest:        digestModule,
		Billing:       billingModule,
		Unsubscribe:   unsubscribeModule,
		Notification:  notificationModule,
	}, nil
}

// HTTP returns the modules that mount routes.
func (m *Modules) HTTP() []apphttp.Module {
	return []apphttp.Module{
		m.Auth,
		m.Organizations,
		m.Contacts,
		m.Testimonials,
		m.Sharing,
		m.Funnel,
		m.Digest,
		m.Billing,
		m.Unsubscribe,
	}
}

// Jobs returns the task bodies run by the scheduler worker.
func (m *Modules) Jobs(cfg config.RetentionConfig, log *logger.Logger) scheduler.Jobs {
	return scheduler.Jobs{
		Transcriptions: m.Testimonials.Service(),
		Digest:         m.Digest.Service(),
		Reminders:      m.Contacts.Service(),
		Cleanup: scheduler.NewCleanup(
			m.Testimonials.Service(),
			m.Billing.Service(),
			log,
			cfg.GetFailedVideoRetention(),
			cfg.GetPaymentEventRetention(),
		),
	}
}

// Connect opens the database pool, retrying while the database starts.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := WithRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}

// newStorage connects to MinIO and ensures the buckets exist. It returns a
// nil interface when storage is not configured.
func newStorage(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) (storage.StorageService, error) {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; uploads disabled")
		return nil, nil
	}

	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		return nil, err
	}
	for _, bucket := range []string{cfg.GetMinioBucketVideos(), cfg.GetMinioBucketLogos()} {
		if err := WithRetry(ctx, log, "ensure bucket "+bucket, 5, 2*time.Second, func() error {
			return svc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			return nil, err
		}
	}
	log.Info("storage service initialized", "videosBucket", cfg.GetMinioBucketVideos(), "logosBucket", cfg.GetMinioBucketLogos())
	return svc, nil
}

// newTranscriber returns the Gemini transcriber, or the no-op one when no API
// key is configured.
func newTranscriber(ctx context.Context, cfg config.TranscriptionConfig, log *logger.Logger) (transcriber.Transcriber, error) {
	if !cfg.IsTranscriptionEnabled() {
		log.Warn("GEMINI_API_KEY not configured; transcription disabled")
		return transcriber.Noop{}, nil
	}
	return transcriber.NewGemini(ctx, cfg)
}

// WithRetry runs fn up to attempts times with quadratic backoff.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
