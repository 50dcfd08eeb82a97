package service

import (
	"context"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/replication"
)

// CreateProjectRequest carries the metadata of a new project and, when
// TemplateID is set, how the template's partners are mapped.
type CreateProjectRequest struct {
	Title          string
	Acronym        string
	StartDate      time.Time
	DurationMonths int
	NationalAgency string
	Language       string

	TemplateID string
	// Mapping binds template partner ids to organization ids.
	Mapping   map[string]string
	ExtraOrgs []string
}

// CreateProjectResult describes a committed project.
type CreateProjectResult struct {
	Project       *domain.Project
	Counts        domain.TreeCounts
	DroppedLinks  int
	Seeded        bool
	Membership    *domain.Membership
	MembershipGap bool
}

// RestoreResult describes a committed snapshot restore.
type RestoreResult struct {
	Project      *domain.Project
	Snapshot     *domain.Snapshot
	Counts       domain.TreeCounts
	DroppedLinks int
	// CarriedMembers memberships were rebound onto the restored partners;
	// LostMembers could not be.
	CarriedMembers int
	LostMembers    int
	MembershipGap  bool
}

type PlanningService interface {
	CreateProject(ctx context.Context, principal domain.Principal, req CreateProjectRequest) (*CreateProjectResult, error)
	ImportTree(ctx context.Context, principal domain.Principal, data []byte, asTemplate bool) (*CreateProjectResult, error)
	List(ctx context.Context, templatesOnly bool) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Tree(ctx context.Context, id string) (*domain.ProjectTree, error)
	Export(ctx context.Context, id, format string) ([]byte, error)
	SetTemplate(ctx context.Context, id string, isTemplate bool) error
	Delete(ctx context.Context, id string) error
}

type SnapshotService interface {
	Create(ctx context.Context, principal domain.Principal, projectID, name string) (*domain.Snapshot, error)
	Restore(ctx context.Context, principal domain.Principal, snapshotID string) (*RestoreResult, error)
	List(ctx context.Context, projectID string) ([]*domain.Snapshot, error)
	Get(ctx context.Context, id string) (*domain.Snapshot, error)
	Export(ctx context.Context, id, format string) ([]byte, error)
	Diff(ctx context.Context, a, b string) (string, error)
}

type OrganizationService interface {
	Create(ctx context.Context, o *domain.Organization) error
	List(ctx context.Context) ([]*domain.Organization, error)
	Affiliate(ctx context.Context, principal domain.Principal, orgID, position string) (*domain.Affiliation, error)
}

// Settings tunes transactional use cases.
type Settings struct {
	CreateTimeout    time.Duration
	RestoreTimeout   time.Duration
	MembershipPolicy replication.MembershipPolicy
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		CreateTimeout:  30 * time.Second,
		RestoreTimeout: 60 * time.Second,
	}
}
