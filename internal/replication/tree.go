package replication

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
)

// Replicator walks a ProjectTree and recreates it under a destination
// project.
type Replicator struct {
	store  *Store
	copier *ModuleCopier
	links  *LinkRestorer
	dates  DatePolicy
	newID  func() string
	now    func() time.Time
}

// ReplicaStats is what one walk produced.
type ReplicaStats struct {
	Counts       domain.TreeCounts
	DroppedLinks int
}

// level describes one tier of the hierarchy for replicateLevel. create
// inserts the node under parentID and returns its new id; links and
// descend may be nil.
type level[N any] struct {
	kind    domain.ParentKind
	order   func(a, b N) int
	modules func(N) []domain.Module
	create  func(ctx context.Context, n N, parentID string) (string, error)
	links   func(ctx context.Context, n N, newID string) error
	descend func(ctx context.Context, n N, newID string) error
}

// replicateLevel creates every node of one tier in stable order, then for
// each node copies its modules, restores its partner links and descends.
func replicateLevel[N any](ctx context.Context, w *walk, lv level[N], nodes []N, parentID string) error {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, lv.order)

	for _, n := range sorted {
		if err := ctx.Err(); err != nil {
			return err
		}
		newID, err := lv.create(ctx, n, parentID)
		if err != nil {
			return err
		}
		copied, err := w.r.copier.Copy(ctx, lv.modules(n), domain.ParentRef{Kind: lv.kind, ID: newID})
		if err != nil {
			return err
		}
		w.stats.Counts.Modules += copied
		if lv.links != nil {
			if err := lv.links(ctx, n, newID); err != nil {
				return err
			}
		}
		if lv.descend != nil {
			if err := lv.descend(ctx, n, newID); err != nil {
				return err
			}
		}
	}
	return nil
}

// walk carries the state of one Replicate call.
type walk struct {
	r       *Replicator
	project *domain.Project
	pmap    PartnerMap
	stats   ReplicaStats
}

// Replicate copies project modules, then sections with their work items,
// then the unassigned work items. Budgets and allocated amounts are
// always zeroed.
func (r *Replicator) Replicate(ctx context.Context, project *domain.Project, src *domain.ProjectTree, pmap PartnerMap) (*ReplicaStats, error) {
	w := &walk{r: r, project: project, pmap: pmap}

	copied, err := r.copier.Copy(ctx, src.Modules, domain.ParentRef{Kind: domain.ParentProject, ID: project.ID})
	if err != nil {
		return nil, err
	}
	w.stats.Counts.Modules += copied

	if err := replicateLevel(ctx, w, w.sectionLevel(), src.Sections, project.ID); err != nil {
		return nil, err
	}
	if err := replicateLevel(ctx, w, w.workLevel(nil), src.UnassignedWorks, project.ID); err != nil {
		return nil, err
	}
	return &w.stats, nil
}

func byDate(a, b time.Time) int {
	return a.Compare(b)
}

// window returns the dates a copied node gets under the date policy.
func (w *walk) window(start, end time.Time) (time.Time, time.Time) {
	if w.r.dates == DatesPreserve {
		return start, end
	}
	return w.project.StartDate, w.project.EndDate()
}

func (w *walk) sectionLevel() level[domain.SectionNode] {
	return level[domain.SectionNode]{
		kind: domain.ParentSection,
		order: func(a, b domain.SectionNode) int {
			return cmp.Compare(a.Section.OrderIndex, b.Section.OrderIndex)
		},
		modules: func(n domain.SectionNode) []domain.Module { return n.Modules },
		create: func(ctx context.Context, n domain.SectionNode, projectID string) (string, error) {
			now := w.r.now()
			s := &domain.Section{
				ID:         w.r.newID(),
				ProjectID:  projectID,
				Title:      n.Section.Title,
				OrderIndex: n.Section.OrderIndex,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := w.r.store.Sections.Create(ctx, s); err != nil {
				return "", fmt.Errorf("creating section %q: %w", n.Section.Title, err)
			}
			w.stats.Counts.Sections++
			return s.ID, nil
		},
		descend: func(ctx context.Context, n domain.SectionNode, sectionID string) error {
			return replicateLevel(ctx, w, w.workLevel(&sectionID), n.Works, w.project.ID)
		},
	}
}

// workLevel builds the work-item tier. A nil sectionID produces unassigned
// work items.
func (w *walk) workLevel(sectionID *string) level[domain.WorkNode] {
	return level[domain.WorkNode]{
		kind: domain.ParentWork,
		order: func(a, b domain.WorkNode) int {
			return byDate(a.Work.StartDate, b.Work.StartDate)
		},
		modules: func(n domain.WorkNode) []domain.Module { return n.Modules },
		create: func(ctx context.Context, n domain.WorkNode, projectID string) (string, error) {
			now := w.r.now()
			start, end := w.window(n.Work.StartDate, n.Work.EndDate)
			wi := &domain.WorkItem{
				ID:          w.r.newID(),
				ProjectID:   projectID,
				SectionID:   sectionID,
				Title:       n.Work.Title,
				Description: n.Work.Description,
				StartDate:   start,
				EndDate:     end,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := w.r.store.Works.Create(ctx, wi); err != nil {
				return "", fmt.Errorf("creating work item %q: %w", n.Work.Title, err)
			}
			if sectionID != nil {
				w.stats.Counts.AssignedWorks++
			} else {
				w.stats.Counts.UnassignedWorks++
			}
			return wi.ID, nil
		},
		links: func(ctx context.Context, n domain.WorkNode, workID string) error {
			restored, dropped, err := w.r.links.RestoreWork(ctx, workID, n.Partners, w.pmap)
			w.stats.Counts.WorkLinks += restored
			w.stats.DroppedLinks += dropped
			return err
		},
		descend: func(ctx context.Context, n domain.WorkNode, workID string) error {
			return replicateLevel(ctx, w, w.taskLevel(), n.Tasks, workID)
		},
	}
}

func (w *walk) taskLevel() level[domain.TaskNode] {
	return level[domain.TaskNode]{
		kind: domain.ParentTask,
		order: func(a, b domain.TaskNode) int {
			return byDate(a.Task.StartDate, b.Task.StartDate)
		},
		modules: func(n domain.TaskNode) []domain.Module { return n.Modules },
		create: func(ctx context.Context, n domain.TaskNode, workID string) (string, error) {
			now := w.r.now()
			start, end := w.window(n.Task.StartDate, n.Task.EndDate)
			t := &domain.Task{
				ID:          w.r.newID(),
				WorkItemID:  workID,
				Title:       n.Task.Title,
				Description: n.Task.Description,
				StartDate:   start,
				EndDate:     end,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := w.r.store.Tasks.Create(ctx, t); err != nil {
				return "", fmt.Errorf("creating task %q: %w", n.Task.Title, err)
			}
			w.stats.Counts.Tasks++
			return t.ID, nil
		},
		links: func(ctx context.Context, n domain.TaskNode, taskID string) error {
			restored, dropped, err := w.r.links.RestoreTask(ctx, taskID, n.Partners, w.pmap)
			w.stats.Counts.TaskLinks += restored
			w.stats.DroppedLinks += dropped
			return err
		},
		descend: func(ctx context.Context, n domain.TaskNode, taskID string) error {
			return replicateLevel(ctx, w, w.activityLevel(), n.Activities, taskID)
		},
	}
}

func (w *walk) activityLevel() level[domain.ActivityNode] {
	return level[domain.ActivityNode]{
		kind: domain.ParentActivity,
		order: func(a, b domain.ActivityNode) int {
			return byDate(a.Activity.EstimatedStart, b.Activity.EstimatedStart)
		},
		modules: func(n domain.ActivityNode) []domain.Module { return n.Modules },
		create: func(ctx context.Context, n domain.ActivityNode, taskID string) (string, error) {
			now := w.r.now()
			start, end := w.window(n.Activity.EstimatedStart, n.Activity.EstimatedEnd)
			a := &domain.Activity{
				ID:             w.r.newID(),
				TaskID:         taskID,
				Title:          n.Activity.Title,
				Description:    n.Activity.Description,
				EstimatedStart: start,
				EstimatedEnd:   end,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := w.r.store.Activities.Create(ctx, a); err != nil {
				return "", fmt.Errorf("creating activity %q: %w", n.Activity.Title, err)
			}
			w.stats.Counts.Activities++
			return a.ID, nil
		},
	}
}
