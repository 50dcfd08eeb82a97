package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
	"github.com/google/uuid"
)

type organizationService struct {
	orgs         repository.OrganizationRepo
	affiliations repository.AffiliationRepo
}

func NewOrganizationService(reader db.DBTX) OrganizationService {
	return &organizationService{
		orgs:         repository.NewSQLiteOrganizationRepo(reader),
		affiliations: repository.NewSQLiteAffiliationRepo(reader),
	}
}

func (s *organizationService) Create(ctx context.Context, o *domain.Organization) error {
	const op = "create-organization"
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return fail(CodeInvalid, op, "organization name is required", nil)
	}
	o.Nation = strings.ToUpper(strings.TrimSpace(o.Nation))
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	o.CreatedAt = now
	o.UpdatedAt = now
	if err := s.orgs.Create(ctx, o); err != nil {
		return fail(CodeInternal, op, "storing organization", err)
	}
	return nil
}

func (s *organizationService) List(ctx context.Context) ([]*domain.Organization, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, classify("list-organizations", "organizations", err)
	}
	return orgs, nil
}

// Affiliate links the acting user to an organization. An existing
// affiliation is returned unchanged.
func (s *organizationService) Affiliate(ctx context.Context, principal domain.Principal, orgID, position string) (*domain.Affiliation, error) {
	const op = "affiliate"
	if err := principal.Validate(); err != nil {
		return nil, fail(CodeUnauthorized, op, "no acting user", err)
	}
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, classify(op, "organization", err)
	}

	existing, err := s.affiliations.Find(ctx, principal.UserID, orgID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify(op, "affiliation", err)
	}

	a := &domain.Affiliation{
		ID:             uuid.New().String(),
		UserID:         principal.UserID,
		OrganizationID: orgID,
		Position:       strings.TrimSpace(position),
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	if err := s.affiliations.Create(ctx, a); err != nil {
		return nil, fail(CodeInternal, op, "storing affiliation", err)
	}
	return a, nil
}
