package repository

import (
	"context"

	"github.com/alexanderramin/grantplan/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, templatesOnly bool) ([]*domain.Project, error)
	SetTemplate(ctx context.Context, id string, isTemplate bool) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SectionRepo interface {
	Create(ctx context.Context, s *domain.Section) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Section, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkItem, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
}

type ModuleRepo interface {
	Create(ctx context.Context, m *domain.Module) error
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Module, error)
	DeleteProjectLevel(ctx context.Context, projectID string) error
}

type PartnerRepo interface {
	Create(ctx context.Context, p *domain.Partner) error
	GetByID(ctx context.Context, id string) (*domain.Partner, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Partner, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type LinkRepo interface {
	CreateWorkPartner(ctx context.Context, l *domain.WorkPartner) error
	CreateTaskPartner(ctx context.Context, l *domain.TaskPartner) error
	ListWorkPartnersByProject(ctx context.Context, projectID string) ([]*domain.WorkPartner, error)
	ListTaskPartnersByProject(ctx context.Context, projectID string) ([]*domain.TaskPartner, error)
}

type OrganizationRepo interface {
	Create(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
}

type AffiliationRepo interface {
	Create(ctx context.Context, a *domain.Affiliation) error
	Find(ctx context.Context, userID, organizationID string) (*domain.Affiliation, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Affiliation, error)
}

type MembershipRepo interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Membership, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
}

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Snapshot, error)
}
