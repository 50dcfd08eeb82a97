package repository

import (
	"context"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// TreeReader loads a live project into the normalized ProjectTree shape.
type TreeReader struct {
	projects   *SQLiteProjectRepo
	sections   *SQLiteSectionRepo
	works      *SQLiteWorkItemRepo
	tasks      *SQLiteTaskRepo
	activities *SQLiteActivityRepo
	modules    *SQLiteModuleRepo
	partners   *SQLitePartnerRepo
	links      *SQLiteLinkRepo
}

// NewTreeReader creates a TreeReader over db, which may be a transaction.
func NewTreeReader(db db.DBTX) *TreeReader {
	return &TreeReader{
		projects:   NewSQLiteProjectRepo(db),
		sections:   NewSQLiteSectionRepo(db),
		works:      NewSQLiteWorkItemRepo(db),
		tasks:      NewSQLiteTaskRepo(db),
		activities: NewSQLiteActivityRepo(db),
		modules:    NewSQLiteModuleRepo(db),
		partners:   NewSQLitePartnerRepo(db),
		links:      NewSQLiteLinkRepo(db),
	}
}

// Read returns the full tree of a project. Children are ordered the way
// the replicator walks them: sections by order index, work items and tasks
// by start date, activities by estimated start.
func (r *TreeReader) Read(ctx context.Context, projectID string) (*domain.ProjectTree, error) {
	project, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	sections, err := r.sections.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	works, err := r.works.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := r.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	activities, err := r.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	modules, err := r.modules.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	partners, err := r.partners.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	workLinks, err := r.links.ListWorkPartnersByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	taskLinks, err := r.links.ListTaskPartnersByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	modulesByParent := make(map[domain.ParentRef][]domain.Module)
	for _, m := range modules {
		modulesByParent[m.Parent] = append(modulesByParent[m.Parent], *m)
	}
	modsFor := func(kind domain.ParentKind, id string) []domain.Module {
		return modulesByParent[domain.ParentRef{Kind: kind, ID: id}]
	}

	workLinksByWork := make(map[string][]domain.WorkPartner)
	for _, l := range workLinks {
		workLinksByWork[l.WorkItemID] = append(workLinksByWork[l.WorkItemID], *l)
	}
	taskLinksByTask := make(map[string][]domain.TaskPartner)
	for _, l := range taskLinks {
		taskLinksByTask[l.TaskID] = append(taskLinksByTask[l.TaskID], *l)
	}

	activitiesByTask := make(map[string][]domain.ActivityNode)
	for _, a := range activities {
		activitiesByTask[a.TaskID] = append(activitiesByTask[a.TaskID], domain.ActivityNode{
			Activity: *a,
			Modules:  modsFor(domain.ParentActivity, a.ID),
		})
	}
	tasksByWork := make(map[string][]domain.TaskNode)
	for _, t := range tasks {
		tasksByWork[t.WorkItemID] = append(tasksByWork[t.WorkItemID], domain.TaskNode{
			Task:       *t,
			Modules:    modsFor(domain.ParentTask, t.ID),
			Partners:   taskLinksByTask[t.ID],
			Activities: activitiesByTask[t.ID],
		})
	}

	tree := &domain.ProjectTree{
		Project: *project,
		Modules: modsFor(domain.ParentProject, project.ID),
	}

	worksBySection := make(map[string][]domain.WorkNode)
	for _, w := range works {
		node := domain.WorkNode{
			Work:     *w,
			Modules:  modsFor(domain.ParentWork, w.ID),
			Partners: workLinksByWork[w.ID],
			Tasks:    tasksByWork[w.ID],
		}
		if w.IsAssigned() {
			worksBySection[*w.SectionID] = append(worksBySection[*w.SectionID], node)
			continue
		}
		tree.UnassignedWorks = append(tree.UnassignedWorks, node)
	}

	for _, s := range sections {
		tree.Sections = append(tree.Sections, domain.SectionNode{
			Section: *s,
			Modules: modsFor(domain.ParentSection, s.ID),
			Works:   worksBySection[s.ID],
		})
	}
	for _, p := range partners {
		tree.Partners = append(tree.Partners, *p)
	}
	return tree, nil
}
