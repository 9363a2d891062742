package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/contacts/repository"
	"testimonials_backend/internal/contacts/transport"
	"testimonials_backend/internal/events"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"
	"testimonials_backend/platform/phone"
	"testimonials_backend/platform/sanitize"
	"testimonials_backend/platform/token"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	recordingTokenBytes = 24
	qrCodeSize          = 512
	reminderBatchSize   = 200
)

// OrganizationProfile is the organization data shown on public pages.
type OrganizationProfile struct {
	ID      uuid.UUID
	Name    string
	LogoURL *string
}

// OrganizationReader resolves organization branding.
type OrganizationReader interface {
	GetPublicProfile(ctx context.Context, organizationID uuid.UUID) (OrganizationProfile, error)
}

// ReminderSender delivers a reminder email to a contact.
type ReminderSender interface {
	SendReminder(ctx context.Context, contact domain.Contact) error
}

// Config is the configuration the contacts service reads.
type Config interface {
	GetAppBaseURL() string
	GetReminderAfter() time.Duration
	GetReminderMaxCount() int
}

// Service provides business logic for contacts.
type Service struct {
	repo      repository.Repository
	orgs      OrganizationReader
	reminders ReminderSender
	eventBus  events.Bus
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new contacts service.
func New(repo repository.Repository, orgs OrganizationReader, eventBus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		orgs:     orgs,
		eventBus: eventBus,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// SetReminderSender wires the email channel used by SendDueReminders.
func (s *Service) SetReminderSender(sender ReminderSender) {
	s.reminders = sender
}

// Invite creates a contact in status invited and announces it so the
// invitation email goes out.
func (s *Service) Invite(ctx context.Context, tenantID uuid.UUID, req transport.InviteContactRequest) (transport.ContactResponse, error) {
	phoneNumber, err := phone.NormalizeOptional(req.Phone, "")
	if err != nil {
		return transport.ContactResponse{}, apperr.Validation("invalid phone number")
	}

	recordingToken, err := token.New(recordingTokenBytes)
	if err != nil {
		return transport.ContactResponse{}, fmt.Errorf("generate recording token: %w", err)
	}

	contact, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: tenantID,
		FirstName:      sanitize.Text(req.FirstName),
		CompanyName:    sanitize.Text(req.CompanyName),
		Email:          req.Email,
		Phone:          phoneNumber,
		RecordingToken: recordingToken,
		Status:         domain.StatusInvited,
		Source:         domain.SourceInvited,
	})
	if err != nil {
		return transport.ContactResponse{}, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(domain.StatusInvited)).Inc()
	s.log.WithContext(ctx).Info("contact invited", "contactId", contact.ID)

	if req.SendEmail == nil || *req.SendEmail {
		s.eventBus.Publish(ctx, events.ContactInvited{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: tenantID,
			ContactID:      contact.ID,
			Email:          contact.Email,
			FirstName:      contact.FirstName,
			RecordingToken: contact.RecordingToken,
		})
	}

	return s.toResponse(contact), nil
}

// List returns a filtered page of contacts.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, req transport.ListContactsRequest) (transport.ContactListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		OrganizationID: tenantID,
		Search:         req.Search,
		Offset:         (page - 1) * pageSize,
		Limit:          pageSize,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.ContactListResponse{}, apperr.Validation("invalid status filter")
		}
		params.Status = &status
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ContactListResponse{}, err
	}

	resp := transport.ContactListResponse{
		Items:    make([]transport.ContactResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, c := range items {
		resp.Items = append(resp.Items, s.toResponse(c))
	}
	return resp, nil
}

// Get returns one contact.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (transport.ContactResponse, error) {
	contact, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.ContactResponse{}, err
	}
	return s.toResponse(contact), nil
}

// Statuses lists every funnel status with its display metadata.
func (s *Service) Statuses() transport.StatusListResponse {
	return transport.StatusListResponse{Items: domain.AllStatusViews()}
}

// RecordingQRCode renders the contact's recording link as a PNG QR code.
func (s *Service) RecordingQRCode(ctx context.Context, tenantID, id uuid.UUID) ([]byte, error) {
	contact, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.RecordingURL(contact.RecordingToken), qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// ResolveRecordingLink loads the contact behind a recording token and marks
// the link as opened on first visit.
func (s *Service) ResolveRecordingLink(ctx context.Context, recordingToken string) (transport.RecordingLinkResponse, error) {
	contact, err := s.repo.GetByRecordingToken(ctx, recordingToken)
	if err != nil {
		return transport.RecordingLinkResponse{}, err
	}

	if next := domain.NextAfterLinkOpened(contact.Status); next != contact.Status {
		updated, changed, err := s.repo.AdvanceStatus(ctx, contact.OrganizationID, contact.ID, next)
		if err != nil {
			return transport.RecordingLinkResponse{}, err
		}
		if changed {
			metrics.StatusTransitionsTotal.WithLabelValues(string(next)).Inc()
		}
		contact = updated
	}

	org, err := s.orgs.GetPublicProfile(ctx, contact.OrganizationID)
	if err != nil {
		return transport.RecordingLinkResponse{}, err
	}

	return transport.RecordingLinkResponse{
		ContactID:   contact.ID,
		FirstName:   contact.FirstName,
		CompanyName: contact.CompanyName,
		Status:      domain.ViewOf(contact.Status),
		Organization: transport.OrganizationBranding{
			ID:      org.ID,
			Name:    org.Name,
			LogoURL: org.LogoURL,
		},
	}, nil
}

// SelfRegister handles sign-ups from the organization's public page.
// A known email reuses the existing contact; a new one is created as organic.
// Either way the contact ends at least at link_opened.
func (s *Service) SelfRegister(ctx context.Context, orgID uuid.UUID, req transport.SelfRegisterRequest) (transport.SelfRegisterResponse, error) {
	if _, err := s.orgs.GetPublicProfile(ctx, orgID); err != nil {
		return transport.SelfRegisterResponse{}, err
	}

	existing, err := s.repo.GetByEmail(ctx, orgID, req.Email)
	switch {
	case err == nil:
		contact := existing
		if next := domain.NextAfterLinkOpened(existing.Status); next != existing.Status {
			contact, _, err = s.repo.AdvanceStatus(ctx, orgID, existing.ID, next)
			if err != nil {
				return transport.SelfRegisterResponse{}, err
			}
		}
		s.publishSelfRegistered(ctx, contact, false)
		return s.toSelfRegisterResponse(contact, false), nil
	case !apperr.Is(err, apperr.KindNotFound):
		return transport.SelfRegisterResponse{}, err
	}

	phoneNumber, err := phone.NormalizeOptional(req.Phone, "")
	if err != nil {
		return transport.SelfRegisterResponse{}, apperr.Validation("invalid phone number")
	}
	recordingToken, err := token.New(recordingTokenBytes)
	if err != nil {
		return transport.SelfRegisterResponse{}, fmt.Errorf("generate recording token: %w", err)
	}

	contact, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: orgID,
		FirstName:      sanitize.Text(req.FirstName),
		CompanyName:    sanitize.Text(req.CompanyName),
		Email:          req.Email,
		Phone:          phoneNumber,
		RecordingToken: recordingToken,
		Status:         domain.StatusLinkOpened,
		Source:         domain.SourceOrganic,
	})
	if apperr.Is(err, apperr.KindConflict) {
		// Lost a race against a concurrent registration with the same email.
		existing, err = s.repo.GetByEmail(ctx, orgID, req.Email)
		if err != nil {
			return transport.SelfRegisterResponse{}, err
		}
		return s.toSelfRegisterResponse(existing, false), nil
	}
	if err != nil {
		return transport.SelfRegisterResponse{}, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(domain.StatusLinkOpened)).Inc()
	s.publishSelfRegistered(ctx, contact, true)
	return s.toSelfRegisterResponse(contact, true), nil
}

// Unsubscribe opts a contact out of further emails.
func (s *Service) Unsubscribe(ctx context.Context, tenantID, contactID uuid.UUID) error {
	contact, err := s.repo.MarkUnsubscribed(ctx, tenantID, contactID)
	if err != nil {
		return err
	}
	s.log.WithTenant(tenantID.String()).Info("contact unsubscribed", "contactId", contact.ID)
	return nil
}

// SendDueReminders emails contacts that were invited but have not started
// recording. Returns the number of reminders sent.
func (s *Service) SendDueReminders(ctx context.Context) (int, error) {
	if s.reminders == nil {
		return 0, errors.New("reminder sender not configured")
	}

	now := s.now()
	after := s.cfg.GetReminderAfter()
	maxCount := s.cfg.GetReminderMaxCount()

	candidates, err := s.repo.ListReminderCandidates(ctx, now.Add(-after), maxCount, reminderBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, contact := range candidates {
		if !contact.DueForReminder(now, after, maxCount) {
			continue
		}
		if err := s.reminders.SendReminder(ctx, contact); err != nil {
			errs = append(errs, fmt.Errorf("contact %s: %w", contact.ID, err))
			continue
		}
		if err := s.repo.RecordReminder(ctx, contact.OrganizationID, contact.ID); err != nil {
			errs = append(errs, fmt.Errorf("contact %s: %w", contact.ID, err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// RecordingURL builds the public recording link for a token.
func (s *Service) RecordingURL(recordingToken string) string {
	return strings.TrimRight(s.cfg.GetAppBaseURL(), "/") + "/record/" + recordingToken
}

func (s *Service) publishSelfRegistered(ctx context.Context, contact domain.Contact, created bool) {
	s.eventBus.Publish(ctx, events.ContactSelfRegistered{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: contact.OrganizationID,
		ContactID:      contact.ID,
		Created:        created,
	})
}

func (s *Service) toSelfRegisterResponse(contact domain.Contact, created bool) transport.SelfRegisterResponse {
	return transport.SelfRegisterResponse{
		RecordingToken: contact.RecordingToken,
		RecordingURL:   s.RecordingURL(contact.RecordingToken),
		Status:         domain.ViewOf(contact.Status),
		Created:        created,
	}
}

func (s *Service) toResponse(c domain.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:               c.ID,
		FirstName:        c.FirstName,
		CompanyName:      c.CompanyName,
		Email:            c.Email,
		Phone:            c.Phone,
		Status:           domain.ViewOf(c.Status),
		Source:           c.Source,
		RecordingURL:     s.RecordingURL(c.RecordingToken),
		LinkedInConsent:  c.LinkedInConsent,
		DisplayName:      c.DisplayName,
		LinkOpenedAt:     c.LinkOpenedAt,
		LinkedInSharedAt: c.LinkedInSharedAt,
		UnsubscribedAt:   c.UnsubscribedAt,
		ReminderCount:    c.ReminderCount,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
