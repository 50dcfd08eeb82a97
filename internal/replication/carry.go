package replication

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
)

// MembershipCarrier rebinds memberships that existed before a tree was
// replaced onto the partners created by the replacement.
type MembershipCarrier struct {
	memberships repository.MembershipRepo
	logger      *slog.Logger
	newID       func() string
}

// Carry recreates every prior membership in projectID. A member's partner is
// resolved through pmap first, then by the prior partner's organization, then
// by name, and finally falls back to the coordinator. Members left with no
// partner at all are counted as lost.
func (c *MembershipCarrier) Carry(
	ctx context.Context,
	projectID string,
	members []*domain.Membership,
	prior []*domain.Partner,
	pmap PartnerMap,
) (carried, lost int, err error) {
	byID := make(map[string]*domain.Partner, len(prior))
	for _, p := range prior {
		byID[p.ID] = p
	}

	for _, m := range members {
		was := byID[m.PartnerID]
		partnerID, sameOrg := rebind(m.PartnerID, was, pmap)
		if partnerID == "" {
			c.logger.WarnContext(ctx, "membership not carried",
				"project_id", projectID,
				"user_id", m.UserID,
				"partner_id", m.PartnerID,
			)
			lost++
			continue
		}

		carriedM := &domain.Membership{
			ID:          c.newID(),
			ProjectID:   projectID,
			UserID:      m.UserID,
			PartnerID:   partnerID,
			Role:        m.Role,
			ProjectRole: m.ProjectRole,
			CreatedAt:   m.CreatedAt,
		}
		if sameOrg {
			carriedM.AffiliationID = m.AffiliationID
		}
		if err := c.memberships.Create(ctx, carriedM); err != nil {
			return carried, lost, fmt.Errorf("carrying membership of %s: %w", m.UserID, err)
		}
		carried++
	}
	return carried, lost, nil
}

// rebind picks the new partner for a membership whose old partner was
// oldID. sameOrg reports whether the new partner keeps the old one's
// organization, in which case the affiliation still applies.
func rebind(oldID string, was *domain.Partner, pmap PartnerMap) (string, bool) {
	if id, ok := pmap.Lookup(oldID); ok {
		return id, was != nil && sameOrganization(was, pmap.created(id))
	}
	if was != nil {
		if was.HasOrganization() {
			for i := range pmap.Created {
				p := &pmap.Created[i]
				if sameOrganization(was, p) {
					return p.ID, true
				}
			}
		}
		for i := range pmap.Created {
			p := &pmap.Created[i]
			if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(was.Name)) {
				return p.ID, sameOrganization(was, p)
			}
		}
	}
	if pmap.CoordinatorID != "" {
		return pmap.CoordinatorID, was != nil && sameOrganization(was, pmap.created(pmap.CoordinatorID))
	}
	return "", false
}

func sameOrganization(a, b *domain.Partner) bool {
	if a == nil || b == nil || !a.HasOrganization() || !b.HasOrganization() {
		return false
	}
	return *a.OrganizationID == *b.OrganizationID
}

func (m PartnerMap) created(id string) *domain.Partner {
	for i := range m.Created {
		if m.Created[i].ID == id {
			return &m.Created[i]
		}
	}
	return nil
}

func (e *Engine) carrier() *MembershipCarrier {
	return &MembershipCarrier{memberships: e.store.Memberships, logger: e.logger, newID: e.newID}
}
