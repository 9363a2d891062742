package adapters

import (
	"context"

	contactsvc "testimonials_backend/internal/contacts/service"
	orgsvc "testimonials_backend/internal/organizations/service"

	"github.com/google/uuid"
)

// PublicProfileSource is the organizations service method the public pages use.
type PublicProfileSource interface {
	PublicProfile(ctx context.Context, organizationID uuid.UUID) (orgsvc.Profile, error)
}

// OrganizationProfileAdapter exposes organization branding to the contacts
// module. It implements contacts/service.OrganizationReader.
type OrganizationProfileAdapter struct {
	orgs PublicProfileSource
}

var _ contactsvc.OrganizationReader = (*OrganizationProfileAdapter)(nil)

func NewOrganizationProfileAdapter(orgs PublicProfileSource) *OrganizationProfileAdapter {
	return &OrganizationProfileAdapter{orgs: orgs}
}

func (a *OrganizationProfileAdapter) GetPublicProfile(ctx context.Context, organizationID uuid.UUID) (contactsvc.OrganizationProfile, error) {
	p, err := a.orgs.PublicProfile(ctx, organizationID)
	if err != nil {
		return contactsvc.OrganizationProfile{}, err
	}
	return contactsvc.OrganizationProfile{ID: p.ID, Name: p.Name, LogoURL: p.LogoURL}, nil
}
