// Package repository persists share confirmations. Every share is written in
// one transaction that locks the contact row first.
package repository

import (
	"context"

	"testimonials_backend/internal/contacts/domain"

	"github.com/google/uuid"
)

// LockedContact is the contact row held for the duration of a share.
type LockedContact struct {
	ID               uuid.UUID
	OrganizationID   uuid.UUID
	OrganizationName string
	FirstName        string
	DisplayName      *string
	Status           domain.Status
}

// NameForCaption is the name a generated caption credits.
func (c LockedContact) NameForCaption() string {
	return domain.CaptionName(c.FirstName, c.DisplayName)
}

// ShareTestimonial is the testimonial a share refers to.
type ShareTestimonial struct {
	ID              uuid.UUID
	ContactID       uuid.UUID
	DurationSeconds *int
}

// ContactShareUpdate is the contact write that follows a share.
type ContactShareUpdate struct {
	OrganizationID uuid.UUID
	ContactID      uuid.UUID
	Status         domain.Status
	// LinkedIn records consent, the optional display-name override and the
	// share time on the contact.
	LinkedIn    bool
	DisplayName *string
}

// Tx holds the operations available inside a share transaction.
type Tx interface {
	// LockContact reads the contact and keeps it locked until commit.
	LockContact(ctx context.Context, organizationID, contactID uuid.UUID) (LockedContact, error)
	GetTestimonial(ctx context.Context, organizationID, testimonialID uuid.UUID) (ShareTestimonial, error)
	MarkTestimonialShared(ctx context.Context, organizationID, testimonialID uuid.UUID, platform domain.Platform, caption *string) error
	UpdateContactAfterShare(ctx context.Context, update ContactShareUpdate) error
}

// RecordingTarget is what a recording token resolves to for sharing.
type RecordingTarget struct {
	OrganizationID   uuid.UUID
	OrganizationName string
	ContactID        uuid.UUID
	FirstName        string
	DisplayName      *string
	Status           domain.Status
	TestimonialID    *uuid.UUID
	DurationSeconds  *int
}

// NameForCaption is the name a generated caption credits.
func (t RecordingTarget) NameForCaption() string {
	return domain.CaptionName(t.FirstName, t.DisplayName)
}

// Store runs share transactions and resolves recording tokens.
type Store interface {
	// WithinTx runs fn in a transaction; fn's error rolls it back.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	FindRecording(ctx context.Context, recordingToken string) (RecordingTarget, error)
}
