package replication

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(user, partnerID string, role domain.MemberRole) *domain.Membership {
	return &domain.Membership{
		ID: "m-" + user, ProjectID: "old", UserID: user, PartnerID: partnerID,
		Role: role, ProjectRole: "Researcher",
		CreatedAt: testutil.Day(2025, time.February, 1),
	}
}

func TestEngine_CarriesPriorMemberships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := sampleTree()
	prior := []*domain.Partner{
		{ID: "p-member", Name: "Member Org"},
		{ID: "p-lead", Name: "Lead Org"},
		{ID: "p-renamed", Name: "  member org "},
	}

	res, err := f.engine.Run(ctx, Plan{
		Project:   f.dest,
		Principal: alice,
		Source:    src,
		Members: []*domain.Membership{
			member("alice", "p-lead", domain.MemberEditor),
			member("bob", "p-member", domain.MemberEditor),
			member("carol", "p-renamed", domain.MemberViewer),
			member("dave", "p-unknown", domain.MemberViewer),
		},
		PriorPartners: prior,
		Status:        StatusPreserve,
		Dates:         DatesPreserve,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.CarriedMembers)
	assert.Zero(t, res.LostMembers)

	newMember, _ := res.Partners.Lookup("p-member")
	newLead, _ := res.Partners.Lookup("p-lead")

	bob, err := f.store.Memberships.GetByProjectAndUser(ctx, f.dest.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, newMember, bob.PartnerID)
	assert.Equal(t, domain.MemberEditor, bob.Role)
	assert.Equal(t, "Researcher", bob.ProjectRole)
	assert.Equal(t, f.dest.ID, bob.ProjectID)

	carol, err := f.store.Memberships.GetByProjectAndUser(ctx, f.dest.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, newMember, carol.PartnerID, "matched by partner name")

	dave, err := f.store.Memberships.GetByProjectAndUser(ctx, f.dest.ID, "dave")
	require.NoError(t, err)
	assert.Equal(t, newLead, dave.PartnerID, "falls back to the coordinator")

	require.NotNil(t, res.Membership)
	assert.Equal(t, domain.MemberEditor, res.Membership.Role, "an existing membership is kept")
	assert.Equal(t, newLead, res.Membership.PartnerID)
}

func TestRebind_Order(t *testing.T) {
	orgA, orgB := "org-a", "org-b"
	pmap := PartnerMap{
		IDs:           map[string]string{"old-1": "new-1"},
		CoordinatorID: "new-1",
		Created: []domain.Partner{
			{ID: "new-1", Name: "Alpha", OrganizationID: &orgA},
			{ID: "new-2", Name: "Beta", OrganizationID: &orgB},
			{ID: "new-3", Name: "Gamma"},
		},
	}

	t.Run("remap table first", func(t *testing.T) {
		id, sameOrg := rebind("old-1", &domain.Partner{ID: "old-1", OrganizationID: &orgA}, pmap)
		assert.Equal(t, "new-1", id)
		assert.True(t, sameOrg)
	})

	t.Run("organization before name", func(t *testing.T) {
		id, sameOrg := rebind("old-9", &domain.Partner{ID: "old-9", Name: "Gamma", OrganizationID: &orgB}, pmap)
		assert.Equal(t, "new-2", id)
		assert.True(t, sameOrg)
	})

	t.Run("name match drops the affiliation", func(t *testing.T) {
		id, sameOrg := rebind("old-9", &domain.Partner{ID: "old-9", Name: "gamma"}, pmap)
		assert.Equal(t, "new-3", id)
		assert.False(t, sameOrg)
	})

	t.Run("coordinator last", func(t *testing.T) {
		id, _ := rebind("old-9", nil, pmap)
		assert.Equal(t, "new-1", id)
	})

	t.Run("nothing to bind to", func(t *testing.T) {
		id, _ := rebind("old-9", nil, PartnerMap{})
		assert.Empty(t, id)
	})
}

func TestCarry_CountsLostMembers(t *testing.T) {
	f := newFixture(t)
	carried, lost, err := f.engine.carrier().Carry(context.Background(), f.dest.ID,
		[]*domain.Membership{member("bob", "gone", domain.MemberViewer)}, nil, PartnerMap{})
	require.NoError(t, err)
	assert.Zero(t, carried)
	assert.Equal(t, 1, lost)
}
