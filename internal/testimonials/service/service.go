// Package service implements the recording flow, operator views and
// transcription processing of testimonials.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"testimonials_backend/internal/adapters/storage"
	"testimonials_backend/internal/events"
	"testimonials_backend/internal/sharing/caption"
	"testimonials_backend/internal/testimonials/domain"
	"testimonials_backend/internal/testimonials/repository"
	"testimonials_backend/internal/testimonials/transcriber"
	"testimonials_backend/internal/testimonials/transport"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"
	"testimonials_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	widgetLimit         = 24
	cleanupBatchSize    = 100
	maxQuoteLength      = 2000
	msgStorageDisabled  = "video storage is not configured"
	msgWidgetDisabled   = "widget not enabled"
	msgUploadNotFound   = "uploaded video not found"
	msgForeignUploadKey = "file key does not belong to this recording"
)

// RecordingContact is the contact behind a recording token.
type RecordingContact struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	FirstName      string
	CompanyName    string
	Status         string
}

// ContactGateway resolves recording tokens and advances contact status.
type ContactGateway interface {
	ResolveRecording(ctx context.Context, recordingToken string) (RecordingContact, error)
	MarkVideoStarted(ctx context.Context, organizationID, contactID uuid.UUID) (string, error)
	MarkVideoCompleted(ctx context.Context, organizationID, contactID uuid.UUID) (string, error)
}

// WidgetSettings reports whether an organization publishes its widget.
type WidgetSettings interface {
	WidgetEnabled(ctx context.Context, organizationID uuid.UUID) (bool, error)
}

// TranscriptionQueue schedules background transcription.
type TranscriptionQueue interface {
	EnqueueTranscription(ctx context.Context, organizationID, testimonialID uuid.UUID) error
}

// Config is the configuration the testimonials service reads.
type Config interface {
	GetMinioBucketVideos() string
	GetMinIOMaxFileSize() int64
}

// Service provides business logic for testimonials.
type Service struct {
	repo        repository.Repository
	contacts    ContactGateway
	widgets     WidgetSettings
	storage     storage.StorageService
	transcriber transcriber.Transcriber
	queue       TranscriptionQueue
	eventBus    events.Bus
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// Deps bundles the collaborators of the service.
type Deps struct {
	Repo        repository.Repository
	Contacts    ContactGateway
	Widgets     WidgetSettings
	Storage     storage.StorageService
	Transcriber transcriber.Transcriber
	EventBus    events.Bus
	Config      Config
	Logger      *logger.Logger
}

// New creates a new testimonials service.
func New(deps Deps) *Service {
	t := deps.Transcriber
	if t == nil {
		t = transcriber.Noop{}
	}
	return &Service{
		repo:        deps.Repo,
		contacts:    deps.Contacts,
		widgets:     deps.Widgets,
		storage:     deps.Storage,
		transcriber: t,
		eventBus:    deps.EventBus,
		cfg:         deps.Config,
		log:         deps.Logger,
		now:         time.Now,
	}
}

// SetTranscriptionQueue wires the task queue; without one, uploads are only
// picked up by the transcription backfill.
func (s *Service) SetTranscriptionQueue(queue TranscriptionQueue) {
	s.queue = queue
}

// StartRecording marks that the contact began recording.
func (s *Service) StartRecording(ctx context.Context, recordingToken string) (transport.RecordingStateResponse, error) {
	contact, err := s.contacts.ResolveRecording(ctx, recordingToken)
	if err != nil {
		return transport.RecordingStateResponse{}, err
	}
	status, err := s.contacts.MarkVideoStarted(ctx, contact.OrganizationID, contact.ID)
	if err != nil {
		return transport.RecordingStateResponse{}, err
	}
	return transport.RecordingStateResponse{ContactID: contact.ID, Status: status}, nil
}

// CreateUploadURL returns a presigned PUT URL scoped to the contact's folder.
func (s *Service) CreateUploadURL(ctx context.Context, recordingToken string, req transport.UploadURLRequest) (transport.UploadURLResponse, error) {
	if s.storage == nil {
		return transport.UploadURLResponse{}, apperr.Internal(msgStorageDisabled)
	}
	contact, err := s.contacts.ResolveRecording(ctx, recordingToken)
	if err != nil {
		return transport.UploadURLResponse{}, err
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, storage.KindVideo, s.cfg.GetMinioBucketVideos(),
		videoFolder(contact), req.ContentType, req.SizeBytes)
	if err != nil {
		return transport.UploadURLResponse{}, err
	}

	return transport.UploadURLResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// CompleteUpload records the uploaded video, moves the contact to
// video_completed and schedules transcription.
func (s *Service) CompleteUpload(ctx context.Context, recordingToken string, req transport.CompleteUploadRequest) (transport.RecordingStateResponse, error) {
	if s.storage == nil {
		return transport.RecordingStateResponse{}, apperr.Internal(msgStorageDisabled)
	}
	contact, err := s.contacts.ResolveRecording(ctx, recordingToken)
	if err != nil {
		return transport.RecordingStateResponse{}, err
	}
	if !strings.HasPrefix(req.FileKey, videoFolder(contact)+"/") {
		return transport.RecordingStateResponse{}, apperr.Forbidden(msgForeignUploadKey)
	}

	info, err := s.storage.StatObject(ctx, s.cfg.GetMinioBucketVideos(), req.FileKey)
	if apperr.Is(err, apperr.KindNotFound) {
		return transport.RecordingStateResponse{}, apperr.Validation(msgUploadNotFound)
	}
	if err != nil {
		return transport.RecordingStateResponse{}, err
	}
	if err := storage.ValidateUpload(storage.KindVideo, req.ContentType, info.Size, s.cfg.GetMinIOMaxFileSize()); err != nil {
		return transport.RecordingStateResponse{}, err
	}

	testimonial, err := s.repo.UpsertUpload(ctx, repository.UpsertUploadParams{
		OrganizationID:  contact.OrganizationID,
		ContactID:       contact.ID,
		VideoKey:        req.FileKey,
		ContentType:     storage.NormalizeContentType(req.ContentType),
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		return transport.RecordingStateResponse{}, err
	}

	status, err := s.contacts.MarkVideoCompleted(ctx, contact.OrganizationID, contact.ID)
	if err != nil {
		return transport.RecordingStateResponse{}, err
	}

	log := s.log.WithTenant(contact.OrganizationID.String())
	log.Info("testimonial uploaded", "contactId", contact.ID, "testimonialId", testimonial.ID)

	s.eventBus.Publish(ctx, events.TestimonialUploaded{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: contact.OrganizationID,
		ContactID:      contact.ID,
		TestimonialID:  testimonial.ID,
		FirstName:      contact.FirstName,
		CompanyName:    contact.CompanyName,
	})

	if s.queue != nil {
		if err := s.queue.EnqueueTranscription(ctx, contact.OrganizationID, testimonial.ID); err != nil {
			log.Error("failed to enqueue transcription", "testimonialId", testimonial.ID, "error", err)
		}
	}

	id := testimonial.ID
	return transport.RecordingStateResponse{ContactID: contact.ID, Status: status, TestimonialID: &id}, nil
}

// ProcessTranscription transcribes one uploaded video. Re-running it for a
// testimonial that is already processed or being processed is a no-op.
func (s *Service) ProcessTranscription(ctx context.Context, organizationID, testimonialID uuid.UUID) error {
	if s.storage == nil {
		return apperr.Internal(msgStorageDisabled)
	}
	testimonial, claimed, err := s.repo.MarkProcessing(ctx, organizationID, testimonialID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	if err := s.transcribe(ctx, testimonial); err != nil {
		if markErr := s.repo.MarkFailed(context.WithoutCancel(ctx), organizationID, testimonialID); markErr != nil {
			err = errors.Join(err, markErr)
		}
		s.log.WithTenant(organizationID.String()).Error("transcription failed", "testimonialId", testimonialID, "error", err)
		return err
	}
	return nil
}

func (s *Service) transcribe(ctx context.Context, testimonial domain.Testimonial) error {
	if !testimonial.HasVideo() {
		return errors.New("testimonial has no video")
	}

	video, err := s.storage.DownloadFile(ctx, s.cfg.GetMinioBucketVideos(), *testimonial.VideoKey)
	if err != nil {
		return err
	}
	defer func() { _ = video.Close() }()

	result, err := s.transcriber.Transcribe(ctx, video, testimonial.ContentType)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	var quote *string
	if cleaned := caption.CleanTranscription(result.Text, result.Language); cleaned != "" {
		quote = &cleaned
	}
	return s.repo.SaveTranscription(ctx, testimonial.OrganizationID, testimonial.ID, result.Text, quote, result.DurationSeconds)
}

// List returns a page of the organization's testimonials.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, req transport.ListTestimonialsRequest) (transport.TestimonialListResponse, error) {
	page := max(req.Page, 1)
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	pageSize = min(pageSize, 100)

	params := repository.ListParams{
		OrganizationID: tenantID,
		Offset:         (page - 1) * pageSize,
		Limit:          pageSize,
	}
	if req.ProcessingStatus != "" {
		status, err := domain.ParseProcessingStatus(req.ProcessingStatus)
		if err != nil {
			return transport.TestimonialListResponse{}, apperr.Validation("invalid processing status filter")
		}
		params.ProcessingStatus = &status
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.TestimonialListResponse{}, err
	}

	resp := transport.TestimonialListResponse{
		Items:    make([]transport.TestimonialResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, t := range items {
		resp.Items = append(resp.Items, toResponse(t, nil))
	}
	return resp, nil
}

// Get returns a testimonial with a playback URL.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (transport.TestimonialResponse, error) {
	testimonial, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}

	var videoURL *string
	if testimonial.HasVideo() && s.storage != nil {
		presigned, err := s.storage.GenerateDownloadURL(ctx, s.cfg.GetMinioBucketVideos(), *testimonial.VideoKey)
		if err != nil {
			return transport.TestimonialResponse{}, err
		}
		videoURL = &presigned.URL
	}
	return toResponse(testimonial, videoURL), nil
}

// UpdateQuote replaces the display quote with a cleaned version of the
// operator's text. An empty text removes the quote.
func (s *Service) UpdateQuote(ctx context.Context, tenantID, id uuid.UUID, req transport.UpdateQuoteRequest) (transport.TestimonialResponse, error) {
	var quote *string
	text := sanitize.Truncate(sanitize.Text(req.Quote), maxQuoteLength)
	if cleaned := caption.CleanTranscription(text, req.Locale); cleaned != "" {
		quote = &cleaned
	}

	testimonial, err := s.repo.UpdateReviewQuote(ctx, tenantID, id, quote)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}
	return toResponse(testimonial, nil), nil
}

// Widget lists published testimonials for the organization's public embed.
func (s *Service) Widget(ctx context.Context, organizationID uuid.UUID) (transport.WidgetResponse, error) {
	enabled, err := s.widgets.WidgetEnabled(ctx, organizationID)
	if err != nil {
		return transport.WidgetResponse{}, err
	}
	if !enabled {
		return transport.WidgetResponse{}, apperr.NotFound(msgWidgetDisabled)
	}
	if s.storage == nil {
		return transport.WidgetResponse{}, apperr.Internal(msgStorageDisabled)
	}

	items, err := s.repo.ListPublished(ctx, organizationID, widgetLimit)
	if err != nil {
		return transport.WidgetResponse{}, err
	}

	resp := transport.WidgetResponse{Items: make([]transport.WidgetTestimonial, 0, len(items))}
	for _, t := range items {
		presigned, err := s.storage.GenerateDownloadURL(ctx, s.cfg.GetMinioBucketVideos(), *t.VideoKey)
		if err != nil {
			return transport.WidgetResponse{}, err
		}
		resp.Items = append(resp.Items, transport.WidgetTestimonial{
			ID:              t.ID,
			ReviewQuote:     t.ReviewQuote,
			DurationSeconds: t.DurationSeconds,
			VideoURL:        presigned.URL,
			CreatedAt:       t.CreatedAt,
		})
	}
	return resp, nil
}

// ListAll returns every testimonial of the organization; used by the funnel.
func (s *Service) ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Testimonial, error) {
	return s.repo.ListAll(ctx, tenantID)
}

// CountUsageSince counts non-failed uploads since the given time; used for plan usage.
func (s *Service) CountUsageSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int, error) {
	return s.repo.CountUsageSince(ctx, tenantID, since)
}

// CleanupFailedVideos deletes stored videos of testimonials whose processing
// failed longer than retention ago. Returns the number of removed videos.
func (s *Service) CleanupFailedVideos(ctx context.Context, retention time.Duration) (int, error) {
	if s.storage == nil {
		return 0, nil
	}
	failed, err := s.repo.ListFailedBefore(ctx, s.now().Add(-retention), cleanupBatchSize)
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, t := range failed {
		if err := s.storage.DeleteObject(ctx, s.cfg.GetMinioBucketVideos(), *t.VideoKey); err != nil {
			errs = append(errs, fmt.Errorf("testimonial %s: %w", t.ID, err))
			continue
		}
		if err := s.repo.ClearVideoKey(ctx, t.OrganizationID, t.ID); err != nil {
			errs = append(errs, fmt.Errorf("testimonial %s: %w", t.ID, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// EnqueueMissingTranscriptions schedules transcription for uploads that never
// got one. With dryRun the candidates are only counted.
func (s *Service) EnqueueMissingTranscriptions(ctx context.Context, organizationID *uuid.UUID, limit int, dryRun bool) (int, error) {
	if !dryRun && s.queue == nil {
		return 0, errors.New("transcription queue not configured")
	}
	candidates, err := s.repo.ListMissingTranscription(ctx, organizationID, limit)
	if err != nil {
		return 0, err
	}
	if dryRun {
		for _, t := range candidates {
			s.log.Info("transcription backfill candidate", "organizationId", t.OrganizationID, "testimonialId", t.ID)
		}
		return len(candidates), nil
	}

	enqueued := 0
	var errs []error
	for _, t := range candidates {
		if err := s.queue.EnqueueTranscription(ctx, t.OrganizationID, t.ID); err != nil {
			errs = append(errs, fmt.Errorf("testimonial %s: %w", t.ID, err))
			continue
		}
		enqueued++
	}
	metrics.JobRunsTotal.WithLabelValues("transcription_backfill", metrics.Outcome(errors.Join(errs...))).Inc()
	return enqueued, errors.Join(errs...)
}

func videoFolder(contact RecordingContact) string {
	return contact.OrganizationID.String() + "/" + contact.ID.String()
}

func toResponse(t domain.Testimonial, videoURL *string) transport.TestimonialResponse {
	return transport.TestimonialResponse{
		ID:               t.ID,
		ContactID:        t.ContactID,
		ContentType:      t.ContentType,
		Transcription:    t.Transcription,
		ReviewQuote:      t.ReviewQuote,
		DurationSeconds:  t.DurationSeconds,
		LinkedInShared:   t.LinkedInShared,
		GoogleShared:     t.GoogleShared,
		TrustpilotShared: t.TrustpilotShared,
		LinkedInPost:     t.LinkedInPost,
		ProcessingStatus: string(t.ProcessingStatus),
		VideoURL:         videoURL,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
