package replication

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

var alice = domain.Principal{UserID: "alice"}

type fixture struct {
	db     *sql.DB
	store  *Store
	engine *Engine
	dest   *domain.Project
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := NewSQLiteStore(database)
	dest := testutil.NewTestProject("Destination",
		testutil.WithStart(testutil.Day(2027, time.September, 1), 24),
		testutil.WithAgency("DE02"),
	)
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(context.Background(), dest))
	return &fixture{
		db:     database,
		store:  store,
		engine: NewEngine(store, nil, opts...),
		dest:   dest,
	}
}

func (f *fixture) org(t *testing.T, name string, opts ...testutil.OrgOption) *domain.Organization {
	t.Helper()
	o := testutil.NewTestOrganization(name, opts...)
	require.NoError(t, f.store.Orgs.Create(context.Background(), o))
	return o
}

func (f *fixture) read(t *testing.T) *domain.ProjectTree {
	t.Helper()
	tree, err := repository.NewTreeReader(f.db).Read(context.Background(), f.dest.ID)
	require.NoError(t, err)
	return tree
}

func mod(title string, status domain.ModuleStatus) domain.Module {
	return domain.Module{ID: "src-" + title, Title: title, Subtitle: "sub " + title, Status: status, CharLimit: 1500, Content: "text of " + title}
}

func srcPartner(id, name string, role domain.PartnerRole) domain.Partner {
	return domain.Partner{
		ID: id, Name: name, Role: role, Budget: 50000,
		Nation: "PT", City: "Porto", Type: "SME", Email: name + "@example.org",
	}
}

// sampleTree is a source tree whose children are deliberately stored out of
// order, with non-zero budgets on every level.
func sampleTree() *domain.ProjectTree {
	d := testutil.Day
	task := func(id, title string, start time.Time, acts ...domain.ActivityNode) domain.TaskNode {
		return domain.TaskNode{
			Task:       domain.Task{ID: id, Title: title, StartDate: start, EndDate: start.AddDate(0, 2, 0), Budget: 900},
			Modules:    []domain.Module{mod("task "+title, domain.ModuleDone)},
			Partners:   []domain.TaskPartner{{ID: "tl-" + id, TaskID: id, PartnerID: "p-lead", Role: "lead", Budget: 100}},
			Activities: acts,
		}
	}
	act := func(id, title string, start time.Time) domain.ActivityNode {
		return domain.ActivityNode{
			Activity: domain.Activity{ID: id, Title: title, EstimatedStart: start, EstimatedEnd: start.AddDate(0, 1, 0), AllocatedAmount: 300},
			Modules:  []domain.Module{mod("act "+title, domain.ModuleUnderReview)},
		}
	}

	return &domain.ProjectTree{
		Project: domain.Project{ID: "src", Title: "Template", StartDate: d(2025, time.January, 1), DurationMonths: 12, IsTemplate: true},
		Modules: []domain.Module{mod("summary", domain.ModuleAuthorized), mod("impact", domain.ModuleDone)},
		Sections: []domain.SectionNode{
			{
				Section: domain.Section{ID: "s2", Title: "Implementation", OrderIndex: 2},
				Modules: []domain.Module{mod("impl intro", domain.ModuleTodo)},
				Works: []domain.WorkNode{{
					Work:    domain.WorkItem{ID: "w3", Title: "WP3 Dissemination", StartDate: d(2025, time.May, 1), EndDate: d(2025, time.December, 31), Budget: 7000},
					Modules: []domain.Module{mod("wp3 goals", domain.ModuleDone)},
				}},
			},
			{
				Section: domain.Section{ID: "s1", Title: "Relevance", OrderIndex: 1},
				Modules: []domain.Module{mod("relevance intro", domain.ModuleDone)},
				Works: []domain.WorkNode{
					{
						Work:     domain.WorkItem{ID: "w2", Title: "WP2 Pilots", StartDate: d(2025, time.March, 1), EndDate: d(2025, time.June, 30), Budget: 5000},
						Modules:  []domain.Module{mod("wp2 goals", domain.ModuleDone)},
						Partners: []domain.WorkPartner{{ID: "wl-2", WorkItemID: "w2", PartnerID: "p-member", Role: "contributor", Budget: 2000}},
						Tasks: []domain.TaskNode{
							task("t22", "Pilot B", d(2025, time.April, 1)),
							task("t21", "Pilot A", d(2025, time.March, 1),
								act("a212", "Evaluate", d(2025, time.March, 20)),
								act("a211", "Prepare", d(2025, time.March, 2)),
							),
						},
					},
					{
						Work:     domain.WorkItem{ID: "w1", Title: "WP1 Research", StartDate: d(2025, time.January, 1), EndDate: d(2025, time.March, 31), Budget: 3000},
						Modules:  []domain.Module{mod("wp1 goals", domain.ModuleAuthorized)},
						Partners: []domain.WorkPartner{{ID: "wl-1", WorkItemID: "w1", PartnerID: "p-lead", Role: "lead", Budget: 1000}},
					},
				},
			},
		},
		UnassignedWorks: []domain.WorkNode{{
			Work:     domain.WorkItem{ID: "w0", Title: "Management", StartDate: d(2025, time.January, 1), EndDate: d(2025, time.December, 31), Budget: 1000},
			Modules:  []domain.Module{mod("mgmt", domain.ModuleTodo)},
			Partners: []domain.WorkPartner{{ID: "wl-0", WorkItemID: "w0", PartnerID: "p-ghost", Role: "orphan"}},
		}},
		Partners: []domain.Partner{
			srcPartner("p-member", "Member Org", domain.RolePartner),
			srcPartner("p-lead", "Lead Org", domain.RoleCoordinator),
		},
	}
}

func titles[N any](nodes []N, title func(N) string) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, title(n))
	}
	return out
}
