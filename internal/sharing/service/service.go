// Package service records share confirmations and advances the contact
// through the shared statuses.
package service

import (
	"context"
	"errors"
	"fmt"

	"testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/events"
	"testimonials_backend/internal/sharing/caption"
	"testimonials_backend/internal/sharing/repository"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"
	"testimonials_backend/platform/sanitize"

	"github.com/google/uuid"
)

const maxDisplayNameLength = 100

var (
	// ErrContactNotFound covers a missing contact and a testimonial that is
	// missing or not the contact's.
	ErrContactNotFound   = errors.New("contact not found")
	ErrContactUpdate     = errors.New("contact update failed")
	ErrTestimonialUpdate = errors.New("testimonial update failed")
	ErrInvalidPlatform   = errors.New("invalid share platform")
	ErrInvalidLocale     = errors.New("invalid locale")
)

// ShareContext carries optional caption inputs.
type ShareContext struct {
	Locale      string
	DisplayName *string
}

// ShareResult is the outcome of RecordShare. On failure Status equals
// PreviousStatus.
type ShareResult struct {
	PreviousStatus domain.Status
	Status         domain.Status
	Success        bool
	Caption        *string
}

// Service provides the share transition.
type Service struct {
	store    repository.Store
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new sharing service.
func New(store repository.Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, eventBus: eventBus, log: log}
}

// RecordShare stores a share on platform and advances the contact one shared
// status. The contact row is locked for the whole transaction, so concurrent
// shares of one contact are applied one after the other. Shares before the
// video is completed change nothing and succeed.
func (s *Service) RecordShare(ctx context.Context, tenantID, contactID, testimonialID uuid.UUID, platformValue string, shareCtx ShareContext) (ShareResult, error) {
	platform, err := domain.ParsePlatform(platformValue)
	if err != nil {
		metrics.SharesRecordedTotal.WithLabelValues("unknown", "invalid").Inc()
		return ShareResult{}, apperr.Wrap(apperr.KindValidation, "unsupported share platform", fmt.Errorf("%w: %w", ErrInvalidPlatform, err))
	}
	if err := caption.ValidateLocale(shareCtx.Locale); err != nil {
		metrics.SharesRecordedTotal.WithLabelValues(string(platform), "invalid").Inc()
		return ShareResult{}, apperr.Wrap(apperr.KindValidation, "invalid locale", fmt.Errorf("%w: %w", ErrInvalidLocale, err))
	}
	displayName := cleanDisplayName(shareCtx.DisplayName)

	var (
		result  ShareResult
		loaded  bool
		changed bool
		stepErr error
	)
	txErr := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		contact, err := tx.LockContact(ctx, tenantID, contactID)
		if err != nil {
			stepErr = classifyRead(err, "failed to load contact")
			return stepErr
		}
		loaded = true
		result.PreviousStatus = contact.Status
		result.Status = contact.Status

		testimonial, err := tx.GetTestimonial(ctx, tenantID, testimonialID)
		if err != nil {
			stepErr = classifyRead(err, "failed to load testimonial")
			return stepErr
		}
		if testimonial.ContactID != contact.ID {
			stepErr = notFound()
			return stepErr
		}

		if !domain.CanShare(contact.Status) {
			return nil
		}
		next := domain.NextAfterShare(contact.Status)

		var post *string
		if platform.GeneratesCaption() {
			name := contact.NameForCaption()
			if displayName != nil {
				name = *displayName
			}
			text := caption.Generate(caption.Input{
				FirstName:       name,
				CompanyName:     contact.OrganizationName,
				DurationSeconds: testimonial.DurationSeconds,
				Locale:          shareCtx.Locale,
			})
			post = &text
		}

		if err := tx.MarkTestimonialShared(ctx, tenantID, testimonial.ID, platform, post); err != nil {
			stepErr = apperr.Persistence("failed to update testimonial", fmt.Errorf("%w: %w", ErrTestimonialUpdate, err))
			return stepErr
		}
		if err := tx.UpdateContactAfterShare(ctx, repository.ContactShareUpdate{
			OrganizationID: tenantID,
			ContactID:      contact.ID,
			Status:         next,
			LinkedIn:       platform.GeneratesCaption(),
			DisplayName:    displayName,
		}); err != nil {
			stepErr = apperr.Persistence("failed to update contact", fmt.Errorf("%w: %w", ErrContactUpdate, err))
			return stepErr
		}

		result.Status = next
		result.Caption = post
		changed = next != contact.Status
		return nil
	})

	log := s.log.WithContext(ctx).WithTenant(tenantID.String())
	if txErr != nil {
		err := stepErr
		if err == nil {
			// fn succeeded, so the commit failed.
			err = apperr.Persistence("failed to update contact", fmt.Errorf("%w: %w", ErrContactUpdate, txErr))
		}
		result.Status = result.PreviousStatus
		result.Caption = nil
		metrics.SharesRecordedTotal.WithLabelValues(string(platform), "error").Inc()
		log.Error("share not recorded",
			"contactId", contactID,
			"testimonialId", testimonialID,
			"platform", platform,
			"kind", apperr.GetKind(err).String(),
			"contactLoaded", loaded,
			"error", err,
		)
		return result, err
	}

	result.Success = true
	metrics.SharesRecordedTotal.WithLabelValues(string(platform), "success").Inc()
	if changed {
		metrics.StatusTransitionsTotal.WithLabelValues(string(result.Status)).Inc()
	}
	log.Info("share recorded",
		"contactId", contactID,
		"platform", platform,
		"previousStatus", result.PreviousStatus,
		"status", result.Status,
	)

	s.eventBus.Publish(ctx, events.ShareRecorded{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: tenantID,
		ContactID:      contactID,
		TestimonialID:  testimonialID,
		Platform:       string(platform),
		PreviousStatus: string(result.PreviousStatus),
		Status:         string(result.Status),
	})
	return result, nil
}

// RecordShareByToken resolves the recording token and records the share.
func (s *Service) RecordShareByToken(ctx context.Context, recordingToken, platform string, shareCtx ShareContext) (ShareResult, error) {
	target, err := s.store.FindRecording(ctx, recordingToken)
	if err != nil {
		return ShareResult{}, classifyRead(err, "failed to load contact")
	}
	if target.TestimonialID == nil {
		return ShareResult{PreviousStatus: target.Status, Status: target.Status}, notFound()
	}
	return s.RecordShare(ctx, target.OrganizationID, target.ContactID, *target.TestimonialID, platform, shareCtx)
}

// PreviewCaption renders the caption a LinkedIn share would publish.
func (s *Service) PreviewCaption(ctx context.Context, recordingToken, locale string) (string, error) {
	if err := caption.ValidateLocale(locale); err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "invalid locale", fmt.Errorf("%w: %w", ErrInvalidLocale, err))
	}
	target, err := s.store.FindRecording(ctx, recordingToken)
	if err != nil {
		return "", classifyRead(err, "failed to load contact")
	}

	return caption.Generate(caption.Input{
		FirstName:       target.NameForCaption(),
		CompanyName:     target.OrganizationName,
		DurationSeconds: target.DurationSeconds,
		Locale:          locale,
	}), nil
}

func classifyRead(err error, message string) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return notFound()
	}
	return apperr.Persistence(message, err)
}

func notFound() error {
	return apperr.Wrap(apperr.KindNotFound, "contact not found", ErrContactNotFound)
}

func cleanDisplayName(value *string) *string {
	cleaned := sanitize.TextPtr(value)
	if cleaned == nil {
		return nil
	}
	truncated := sanitize.Truncate(*cleaned, maxDisplayNameLength)
	return &truncated
}
