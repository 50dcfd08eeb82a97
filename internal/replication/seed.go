package replication

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/domain"
)

const (
	seedWorkTitle          = "Project Management"
	seedWorkDescription    = "Coordination, monitoring and reporting of the project."
	seedWorkModuleTitle    = "Management and quality assurance"
	seedProjectModuleTitle = "Project summary"
)

// SeedDefaults gives a project with no source tree its starting shape: one
// unassigned "Project Management" work item with one module, and one
// project-level module. Partners are left to the bootstrapper.
func (e *Engine) SeedDefaults(ctx context.Context, project *domain.Project) (domain.TreeCounts, error) {
	var counts domain.TreeCounts
	now := e.now()

	work := &domain.WorkItem{
		ID:          e.newID(),
		ProjectID:   project.ID,
		Title:       seedWorkTitle,
		Description: seedWorkDescription,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.Works.Create(ctx, work); err != nil {
		return counts, fmt.Errorf("seeding work item: %w", err)
	}
	counts.UnassignedWorks++

	copier := e.copier(StatusReset)
	n, err := copier.Copy(ctx, []domain.Module{{Title: seedWorkModuleTitle, OrderIndex: 0}},
		domain.ParentRef{Kind: domain.ParentWork, ID: work.ID})
	if err != nil {
		return counts, fmt.Errorf("seeding work module: %w", err)
	}
	counts.Modules += n

	n, err = copier.Copy(ctx, []domain.Module{{Title: seedProjectModuleTitle, OrderIndex: 0}},
		domain.ParentRef{Kind: domain.ParentProject, ID: project.ID})
	if err != nil {
		return counts, fmt.Errorf("seeding project module: %w", err)
	}
	counts.Modules += n
	return counts, nil
}
