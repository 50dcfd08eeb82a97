package replication

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replicate(t *testing.T, f *fixture, src *domain.ProjectTree, status StatusPolicy, dates DatePolicy) (PartnerMap, *ReplicaStats) {
	t.Helper()
	ctx := context.Background()
	pmap, err := f.engine.remapper(false).Remap(ctx, f.dest.ID, src.Partners, nil, nil)
	require.NoError(t, err)
	stats, err := f.engine.replicator(status, dates).Replicate(ctx, f.dest, src, pmap)
	require.NoError(t, err)
	return pmap, stats
}

func TestReplicate_PreservesTreeShape(t *testing.T) {
	f := newFixture(t)
	src := sampleTree()
	_, stats := replicate(t, f, src, StatusReset, DatesFromProject)

	want := src.Counts()
	got := f.read(t).Counts()
	assert.Equal(t, want.Sections, got.Sections)
	assert.Equal(t, want.AssignedWorks, got.AssignedWorks)
	assert.Equal(t, want.UnassignedWorks, got.UnassignedWorks)
	assert.Equal(t, want.Tasks, got.Tasks)
	assert.Equal(t, want.Activities, got.Activities)
	assert.Equal(t, want.Modules, got.Modules)

	assert.Equal(t, got.Modules, stats.Counts.Modules)
	assert.Equal(t, got.Tasks, stats.Counts.Tasks)
	assert.Equal(t, got.AssignedWorks, stats.Counts.AssignedWorks)
}

func TestReplicate_DeterministicOrder(t *testing.T) {
	f := newFixture(t)
	replicate(t, f, sampleTree(), StatusPreserve, DatesPreserve)
	tree := f.read(t)

	assert.Equal(t, []string{"Relevance", "Implementation"},
		titles(tree.Sections, func(s domain.SectionNode) string { return s.Section.Title }))

	relevance := tree.Sections[0]
	assert.Equal(t, []string{"WP1 Research", "WP2 Pilots"},
		titles(relevance.Works, func(w domain.WorkNode) string { return w.Work.Title }))

	pilots := relevance.Works[1]
	assert.Equal(t, []string{"Pilot A", "Pilot B"},
		titles(pilots.Tasks, func(t domain.TaskNode) string { return t.Task.Title }))
	assert.Equal(t, []string{"Prepare", "Evaluate"},
		titles(pilots.Tasks[0].Activities, func(a domain.ActivityNode) string { return a.Activity.Title }))

	require.Len(t, tree.UnassignedWorks, 1)
	assert.Equal(t, "Management", tree.UnassignedWorks[0].Work.Title)
}

func TestReplicate_StableOrderOnTies(t *testing.T) {
	f := newFixture(t)
	same := testDay()
	src := &domain.ProjectTree{
		UnassignedWorks: []domain.WorkNode{
			{Work: domain.WorkItem{ID: "x", Title: "Zeta", StartDate: same, EndDate: same}},
			{Work: domain.WorkItem{ID: "y", Title: "Alpha", StartDate: same, EndDate: same}},
			{Work: domain.WorkItem{ID: "z", Title: "Mid", StartDate: same, EndDate: same}},
		},
	}
	replicate(t, f, src, StatusReset, DatesPreserve)

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"},
		titles(f.read(t).UnassignedWorks, func(w domain.WorkNode) string { return w.Work.Title }))
}

func testDay() time.Time {
	return time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)
}

func TestReplicate_ZeroesBudgets(t *testing.T) {
	f := newFixture(t)
	replicate(t, f, sampleTree(), StatusPreserve, DatesPreserve)

	for _, table := range []string{"work_items.budget", "tasks.budget", "activities.allocated_amount", "partners.budget", "work_partners.budget", "task_partners.budget"} {
		var total float64
		tbl, col := splitColumn(table)
		require.NoError(t, f.db.QueryRow(`SELECT COALESCE(SUM(`+col+`), 0) FROM `+tbl).Scan(&total))
		assert.Zero(t, total, table)
	}
}

func splitColumn(s string) (string, string) {
	for i := range s {
		if s[i] == '.' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func TestReplicate_DatePolicies(t *testing.T) {
	t.Run("from project", func(t *testing.T) {
		f := newFixture(t)
		replicate(t, f, sampleTree(), StatusReset, DatesFromProject)
		tree := f.read(t)
		for _, s := range tree.Sections {
			for _, w := range s.Works {
				assert.True(t, w.Work.StartDate.Equal(f.dest.StartDate), w.Work.Title)
				assert.True(t, w.Work.EndDate.Equal(f.dest.EndDate()), w.Work.Title)
				for _, tk := range w.Tasks {
					assert.True(t, tk.Task.StartDate.Equal(f.dest.StartDate))
					for _, a := range tk.Activities {
						assert.True(t, a.Activity.EstimatedEnd.Equal(f.dest.EndDate()))
					}
				}
			}
		}
	})

	t.Run("preserve", func(t *testing.T) {
		f := newFixture(t)
		replicate(t, f, sampleTree(), StatusPreserve, DatesPreserve)
		wp1 := f.read(t).Sections[0].Works[0]
		assert.Equal(t, "2025-01-01", wp1.Work.StartDate.Format("2006-01-02"))
		assert.Equal(t, "2025-03-31", wp1.Work.EndDate.Format("2006-01-02"))
	})
}

func TestReplicate_StatusPolicies(t *testing.T) {
	statuses := func(tree *domain.ProjectTree) map[string]domain.ModuleStatus {
		out := map[string]domain.ModuleStatus{}
		for _, m := range tree.Modules {
			out[m.Title] = m.Status
		}
		for _, s := range tree.Sections {
			for _, w := range s.Works {
				for _, m := range w.Modules {
					out[m.Title] = m.Status
				}
			}
		}
		return out
	}

	t.Run("reset", func(t *testing.T) {
		f := newFixture(t)
		replicate(t, f, sampleTree(), StatusReset, DatesFromProject)
		for title, st := range statuses(f.read(t)) {
			assert.Equal(t, domain.ModuleTodo, st, title)
		}
	})

	t.Run("preserve", func(t *testing.T) {
		f := newFixture(t)
		replicate(t, f, sampleTree(), StatusPreserve, DatesPreserve)
		got := statuses(f.read(t))
		assert.Equal(t, domain.ModuleAuthorized, got["summary"])
		assert.Equal(t, domain.ModuleDone, got["wp2 goals"])
		assert.Equal(t, domain.ModuleAuthorized, got["wp1 goals"])
	})
}

func TestReplicate_ModuleFieldsCopied(t *testing.T) {
	f := newFixture(t)
	replicate(t, f, sampleTree(), StatusReset, DatesFromProject)

	tree := f.read(t)
	require.Len(t, tree.Modules, 2)
	m := tree.Modules[0]
	assert.Equal(t, "sub "+m.Title, m.Subtitle)
	assert.Equal(t, "text of "+m.Title, m.Content)
	assert.Equal(t, 1500, m.CharLimit)
	assert.NotEqual(t, "src-"+m.Title, m.ID, "copies get fresh ids")
	assert.Equal(t, domain.ParentRef{Kind: domain.ParentProject, ID: f.dest.ID}, m.Parent)
}

func TestReplicate_LinksRestoredOnceAndUnmappedDropped(t *testing.T) {
	f := newFixture(t)
	pmap, stats := replicate(t, f, sampleTree(), StatusReset, DatesFromProject)

	// wl-1 and wl-2 map; wl-0 points at a partner that was never in the source.
	assert.Equal(t, 2, stats.Counts.WorkLinks)
	// One task link per task, all to the lead.
	assert.Equal(t, 2, stats.Counts.TaskLinks)
	assert.Equal(t, 1, stats.DroppedLinks)

	tree := f.read(t)
	wp1 := tree.Sections[0].Works[0]
	require.Len(t, wp1.Partners, 1)
	assert.Equal(t, pmap.IDs["p-lead"], wp1.Partners[0].PartnerID)
	assert.Equal(t, "lead", wp1.Partners[0].Role)
	assert.Zero(t, wp1.Partners[0].Budget)

	assert.Empty(t, tree.UnassignedWorks[0].Partners)
}

func TestModuleCopier_RejectsBadParent(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.copier(StatusReset).Copy(context.Background(),
		[]domain.Module{mod("x", domain.ModuleTodo)}, domain.ParentRef{Kind: "budget", ID: "x"})
	require.Error(t, err)
}

func TestModuleCopier_InvalidStoredStatusBecomesTodo(t *testing.T) {
	f := newFixture(t)
	n, err := f.engine.copier(StatusPreserve).Copy(context.Background(),
		[]domain.Module{mod("odd", domain.ModuleStatus("archived"))},
		domain.ParentRef{Kind: domain.ParentProject, ID: f.dest.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, domain.ModuleTodo, f.read(t).Modules[0].Status)
}
