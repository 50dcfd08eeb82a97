package replication

import (
	"context"
	"testing"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemap_PartnerCountsAndZeroBudgets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bound := f.org(t, "Bound Org", testutil.WithNation(""))
	extra := f.org(t, "Extra Org")

	src := []domain.Partner{
		srcPartner("p1", "One", domain.RolePartner),
		srcPartner("p2", "Two", domain.RolePartner),
		srcPartner("p3", "Three", domain.RoleOther),
	}
	mapping := map[string]string{
		"p1": bound.ID,
		"p2": "org-that-does-not-exist",
	}
	extras := []string{extra.ID, extra.ID, "missing-extra", bound.ID}

	pmap, err := f.engine.remapper(false).Remap(ctx, f.dest.ID, src, mapping, extras)
	require.NoError(t, err)

	// Three source partners plus one for the single resolvable, unbound extra.
	require.Len(t, pmap.Created, 4)
	assert.Len(t, pmap.IDs, 3)

	stored, err := f.store.Partners.ListByProject(ctx, f.dest.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	for _, p := range stored {
		assert.Zero(t, p.Budget, "partner %s budget", p.Name)
	}

	one, err := f.store.Partners.GetByID(ctx, pmap.IDs["p1"])
	require.NoError(t, err)
	require.True(t, one.HasOrganization())
	assert.Equal(t, bound.ID, *one.OrganizationID)
	assert.Equal(t, "Bound Org", one.Name)
	assert.Equal(t, domain.DefaultNation, one.Nation)
	assert.Equal(t, domain.RolePartner, one.Role)

	two, err := f.store.Partners.GetByID(ctx, pmap.IDs["p2"])
	require.NoError(t, err)
	assert.False(t, two.HasOrganization(), "unresolved mapping falls back to a verbatim clone")
	assert.Equal(t, "Two", two.Name)
	assert.Equal(t, "PT", two.Nation)
	assert.Equal(t, "Two@example.org", two.Email)

	three, err := f.store.Partners.GetByID(ctx, pmap.IDs["p3"])
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOther, three.Role)

	last := pmap.Created[3]
	assert.Equal(t, "Extra Org", last.Name)
	assert.Equal(t, domain.RolePartner, last.Role)
}

func TestRemap_CoordinatorSelection(t *testing.T) {
	t.Run("explicit coordinator wins wherever it appears", func(t *testing.T) {
		f := newFixture(t)
		src := []domain.Partner{
			srcPartner("a", "A", domain.RolePartner),
			srcPartner("b", "B", domain.RoleCoordinator),
			srcPartner("c", "C", domain.RolePartner),
		}
		pmap, err := f.engine.remapper(false).Remap(context.Background(), f.dest.ID, src, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, pmap.IDs["b"], pmap.CoordinatorID)
	})

	t.Run("first partner when nobody is coordinator", func(t *testing.T) {
		f := newFixture(t)
		src := []domain.Partner{
			srcPartner("a", "A", domain.RoleOther),
			srcPartner("b", "B", domain.RolePartner),
		}
		pmap, err := f.engine.remapper(false).Remap(context.Background(), f.dest.ID, src, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, pmap.IDs["a"], pmap.CoordinatorID)
	})

	t.Run("extras never become coordinator", func(t *testing.T) {
		f := newFixture(t)
		extra := f.org(t, "Extra")
		pmap, err := f.engine.remapper(false).Remap(context.Background(), f.dest.ID, nil, nil, []string{extra.ID})
		require.NoError(t, err)
		assert.Len(t, pmap.Created, 1)
		assert.Empty(t, pmap.CoordinatorID)
	})
}

func TestRemap_KeepOrgLinks(t *testing.T) {
	f := newFixture(t)
	org := f.org(t, "Still Here")
	gone := "deleted-org"

	a := srcPartner("a", "A", domain.RoleCoordinator)
	a.OrganizationID = &org.ID
	b := srcPartner("b", "B", domain.RolePartner)
	b.OrganizationID = &gone

	pmap, err := f.engine.remapper(true).Remap(context.Background(), f.dest.ID, []domain.Partner{a, b}, nil, nil)
	require.NoError(t, err)

	require.True(t, pmap.Created[0].HasOrganization())
	assert.Equal(t, org.ID, *pmap.Created[0].OrganizationID)
	assert.Equal(t, "A", pmap.Created[0].Name, "verbatim clone keeps its own display fields")
	assert.False(t, pmap.Created[1].HasOrganization())
}
