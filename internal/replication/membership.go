package replication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
)

const (
	placeholderPartnerName = "Coordinator (to be defined)"
	placeholderPartnerType = "Organization"
)

// Bootstrapper guarantees the acting user one membership in a project.
type Bootstrapper struct {
	partners     repository.PartnerRepo
	affiliations repository.AffiliationRepo
	memberships  repository.MembershipRepo
	newID        func() string
	now          func() time.Time
}

// Ensure returns the user's membership in project, creating it if needed.
// The partner is the coordinator candidate when set, else the project's
// first partner, else a synthesized placeholder coordinator.
func (b *Bootstrapper) Ensure(ctx context.Context, project *domain.Project, principal domain.Principal, coordinatorID string) (*domain.Membership, error) {
	existing, err := b.memberships.GetByProjectAndUser(ctx, project.ID, principal.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking membership: %w", err)
	}

	partner, err := b.targetPartner(ctx, project, coordinatorID)
	if err != nil {
		return nil, err
	}

	var affiliationID *string
	if partner.HasOrganization() {
		aff, err := b.affiliations.Find(ctx, principal.UserID, *partner.OrganizationID)
		switch {
		case err == nil:
			affiliationID = &aff.ID
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("looking up affiliation: %w", err)
		}
	}

	m := &domain.Membership{
		ID:            b.newID(),
		ProjectID:     project.ID,
		UserID:        principal.UserID,
		PartnerID:     partner.ID,
		AffiliationID: affiliationID,
		Role:          domain.MemberCoordinator,
		ProjectRole:   domain.CoordinatorProjectRole,
		CreatedAt:     b.now(),
	}
	if err := b.memberships.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating membership: %w", err)
	}
	return m, nil
}

func (b *Bootstrapper) targetPartner(ctx context.Context, project *domain.Project, coordinatorID string) (*domain.Partner, error) {
	if coordinatorID != "" {
		p, err := b.partners.GetByID(ctx, coordinatorID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("loading coordinator partner: %w", err)
		}
	}

	existing, err := b.partners.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	now := b.now()
	placeholder := &domain.Partner{
		ID:        b.newID(),
		ProjectID: project.ID,
		Name:      placeholderPartnerName,
		Role:      domain.RoleCoordinator,
		Type:      placeholderPartnerType,
		Nation:    project.AgencyNation(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.partners.Create(ctx, placeholder); err != nil {
		return nil, fmt.Errorf("creating placeholder coordinator: %w", err)
	}
	return placeholder, nil
}
