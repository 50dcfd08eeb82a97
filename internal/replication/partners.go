package replication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
)

// PartnerMap is the output of a remap: old partner id to new partner id,
// the chosen coordinator and the partners created, in creation order.
type PartnerMap struct {
	IDs           map[string]string
	CoordinatorID string
	Created       []domain.Partner
}

// Lookup returns the new id for a source partner id.
func (m PartnerMap) Lookup(oldID string) (string, bool) {
	id, ok := m.IDs[oldID]
	return id, ok && id != ""
}

// PartnerRemapper creates the destination partner set.
type PartnerRemapper struct {
	partners     repository.PartnerRepo
	orgs         repository.OrganizationRepo
	logger       *slog.Logger
	keepOrgLinks bool
	newID        func() string
	now          func() time.Time
}

// Remap creates one destination partner per source partner, in source
// order, then one ordinary partner per extra organization not already
// bound through mapping. Budgets are always zero.
func (r *PartnerRemapper) Remap(
	ctx context.Context,
	projectID string,
	src []domain.Partner,
	mapping map[string]string,
	extraOrgs []string,
) (PartnerMap, error) {
	out := PartnerMap{IDs: make(map[string]string, len(src))}
	bound := make(map[string]bool)

	for i := range src {
		sp := &src[i]
		np, err := r.partnerFor(ctx, projectID, sp, mapping)
		if err != nil {
			return PartnerMap{}, err
		}
		if err := r.partners.Create(ctx, np); err != nil {
			return PartnerMap{}, fmt.Errorf("creating partner %q: %w", sp.Name, err)
		}
		if np.HasOrganization() {
			bound[*np.OrganizationID] = true
		}
		out.IDs[sp.ID] = np.ID
		out.Created = append(out.Created, *np)

		// An explicit coordinator always wins; otherwise the first partner seen.
		if sp.Role == domain.RoleCoordinator || out.CoordinatorID == "" {
			out.CoordinatorID = np.ID
		}
	}

	for _, orgID := range extraOrgs {
		if orgID == "" || bound[orgID] {
			continue
		}
		org, err := r.orgs.GetByID(ctx, orgID)
		if errors.Is(err, repository.ErrNotFound) {
			r.logger.WarnContext(ctx, "extra organization not found, skipping",
				"project_id", projectID, "organization_id", orgID)
			continue
		}
		if err != nil {
			return PartnerMap{}, fmt.Errorf("resolving extra organization %s: %w", orgID, err)
		}
		np := r.fromOrganization(projectID, org, domain.RolePartner)
		if err := r.partners.Create(ctx, np); err != nil {
			return PartnerMap{}, fmt.Errorf("creating partner for organization %q: %w", org.Name, err)
		}
		bound[orgID] = true
		out.Created = append(out.Created, *np)
	}

	return out, nil
}

// partnerFor picks between an organization-bound partner and a verbatim
// clone for one source partner.
func (r *PartnerRemapper) partnerFor(ctx context.Context, projectID string, sp *domain.Partner, mapping map[string]string) (*domain.Partner, error) {
	orgID, mapped := mapping[sp.ID]
	if mapped && orgID != "" {
		org, err := r.orgs.GetByID(ctx, orgID)
		switch {
		case err == nil:
			return r.fromOrganization(projectID, org, sp.Role), nil
		case errors.Is(err, repository.ErrNotFound):
			r.logger.WarnContext(ctx, "mapped organization not found, cloning partner verbatim",
				"project_id", projectID, "partner", sp.Name, "organization_id", orgID)
		default:
			return nil, fmt.Errorf("resolving organization %s for partner %q: %w", orgID, sp.Name, err)
		}
	}

	clone := r.clone(projectID, sp)
	if r.keepOrgLinks && sp.HasOrganization() {
		_, err := r.orgs.GetByID(ctx, *sp.OrganizationID)
		switch {
		case err == nil:
			id := *sp.OrganizationID
			clone.OrganizationID = &id
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("resolving organization %s for partner %q: %w", *sp.OrganizationID, sp.Name, err)
		}
	}
	return clone, nil
}

func (r *PartnerRemapper) fromOrganization(projectID string, org *domain.Organization, role domain.PartnerRole) *domain.Partner {
	now := r.now()
	orgID := org.ID
	return &domain.Partner{
		ID:             r.newID(),
		ProjectID:      projectID,
		OrganizationID: &orgID,
		Name:           org.Name,
		Role:           role,
		Nation:         domain.CoalesceStr(org.Nation, domain.DefaultNation),
		City:           org.City,
		Type:           org.Type,
		Email:          org.Email,
		Phone:          org.Phone,
		Website:        org.Website,
		Address:        org.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (r *PartnerRemapper) clone(projectID string, sp *domain.Partner) *domain.Partner {
	now := r.now()
	role := sp.Role
	if role == "" {
		role = domain.RolePartner
	}
	return &domain.Partner{
		ID:        r.newID(),
		ProjectID: projectID,
		Name:      sp.Name,
		Role:      role,
		Nation:    sp.Nation,
		City:      sp.City,
		Type:      sp.Type,
		Email:     sp.Email,
		Phone:     sp.Phone,
		Website:   sp.Website,
		Address:   sp.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
