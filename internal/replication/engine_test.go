package replication

import (
	"context"
	"testing"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Template with one node per level and two partners, one of them mapped.
func TestEngine_CloneWithPartialMapping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgX := f.org(t, "Org X")

	d := testDay()
	src := &domain.ProjectTree{
		Sections: []domain.SectionNode{{
			Section: domain.Section{ID: "s", Title: "Section"},
			Works: []domain.WorkNode{{
				Work: domain.WorkItem{ID: "w", Title: "Work", StartDate: d, EndDate: d, Budget: 10},
				Tasks: []domain.TaskNode{{
					Task:       domain.Task{ID: "t", Title: "Task", StartDate: d, EndDate: d, Budget: 10},
					Activities: []domain.ActivityNode{{Activity: domain.Activity{ID: "a", Title: "Activity", EstimatedStart: d, EstimatedEnd: d}}},
				}},
			}},
		}},
		Partners: []domain.Partner{
			srcPartner("orgA", "Org A", domain.RoleCoordinator),
			srcPartner("orgB", "Org B", domain.RolePartner),
		},
	}

	res, err := f.engine.Run(ctx, Plan{
		Project:   f.dest,
		Principal: alice,
		Source:    src,
		Mapping:   map[string]string{"orgA": orgX.ID},
		Status:    StatusReset,
		Dates:     DatesFromProject,
	})
	require.NoError(t, err)

	partners, err := f.store.Partners.ListByProject(ctx, f.dest.ID)
	require.NoError(t, err)
	require.Len(t, partners, 2)

	a, b := partners[0], partners[1]
	require.True(t, a.HasOrganization())
	assert.Equal(t, orgX.ID, *a.OrganizationID)
	assert.Equal(t, domain.RoleCoordinator, a.Role)
	assert.False(t, b.HasOrganization())
	assert.Equal(t, "Org B", b.Name)
	assert.Equal(t, domain.RolePartner, b.Role)

	assert.Equal(t, a.ID, res.Partners.CoordinatorID)

	members, err := f.store.Memberships.ListByProject(ctx, f.dest.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].UserID)
	assert.Equal(t, domain.MemberCoordinator, members[0].Role)
	assert.Equal(t, a.ID, members[0].PartnerID)

	assert.Equal(t, domain.TreeCounts{Sections: 1, AssignedWorks: 1, Tasks: 1, Activities: 1, Partners: 2}, res.Counts)
}

// No source tree: default seeding plus a synthesized coordinator.
func TestEngine_SeedDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.engine.Run(ctx, Plan{Project: f.dest, Principal: alice})
	require.NoError(t, err)
	assert.True(t, res.Seeded)

	tree := f.read(t)
	assert.Empty(t, tree.Sections)
	require.Len(t, tree.UnassignedWorks, 1)
	work := tree.UnassignedWorks[0]
	assert.Equal(t, "Project Management", work.Work.Title)
	assert.True(t, work.Work.StartDate.Equal(f.dest.StartDate))
	assert.Len(t, work.Modules, 1)
	assert.Len(t, tree.Modules, 1)

	require.Len(t, tree.Partners, 1)
	assert.Equal(t, "Coordinator (to be defined)", tree.Partners[0].Name)
	assert.Equal(t, domain.RoleCoordinator, tree.Partners[0].Role)

	members, err := f.store.Memberships.ListByProject(ctx, f.dest.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, tree.Partners[0].ID, members[0].PartnerID)
}

func TestEngine_RejectsMissingPrincipal(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Run(context.Background(), Plan{Project: f.dest})
	require.Error(t, err)

	tree := f.read(t)
	assert.Empty(t, tree.UnassignedWorks, "nothing is written without a principal")
}

func TestEngine_ExtraOrgsAttached(t *testing.T) {
	f := newFixture(t)
	extra := f.org(t, "Associated School")

	res, err := f.engine.Run(context.Background(), Plan{
		Project:   f.dest,
		Principal: alice,
		Source:    &domain.ProjectTree{Partners: []domain.Partner{srcPartner("p", "Lead", domain.RoleCoordinator)}},
		ExtraOrgs: []string{extra.ID},
	})
	require.NoError(t, err)
	assert.Len(t, res.Partners.Created, 2)
	assert.Equal(t, res.Partners.IDs["p"], res.Partners.CoordinatorID)
	assert.Equal(t, res.Partners.CoordinatorID, res.Membership.PartnerID)
}
