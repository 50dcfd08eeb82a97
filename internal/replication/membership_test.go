package replication

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_UsesCoordinatorCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := testutil.NewTestPartner(f.dest.ID, "First", domain.RolePartner)
	coord := testutil.NewTestPartner(f.dest.ID, "Coord", domain.RoleCoordinator)
	require.NoError(t, f.store.Partners.Create(ctx, first))
	require.NoError(t, f.store.Partners.Create(ctx, coord))

	m, err := f.engine.bootstrapper().Ensure(ctx, f.dest, alice, coord.ID)
	require.NoError(t, err)
	assert.Equal(t, coord.ID, m.PartnerID)
	assert.Equal(t, domain.MemberCoordinator, m.Role)
	assert.Equal(t, "Project Coordinator", m.ProjectRole)
	assert.Nil(t, m.AffiliationID)
}

func TestBootstrap_FallsBackToFirstPartner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := testutil.NewTestPartner(f.dest.ID, "First", domain.RolePartner)
	second := testutil.NewTestPartner(f.dest.ID, "Second", domain.RolePartner)
	require.NoError(t, f.store.Partners.Create(ctx, first))
	require.NoError(t, f.store.Partners.Create(ctx, second))

	m, err := f.engine.bootstrapper().Ensure(ctx, f.dest, alice, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, m.PartnerID)
}

func TestBootstrap_SynthesizesPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.engine.bootstrapper().Ensure(ctx, f.dest, alice, "")
	require.NoError(t, err)

	partners, err := f.store.Partners.ListByProject(ctx, f.dest.ID)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	p := partners[0]
	assert.Equal(t, m.PartnerID, p.ID)
	assert.Equal(t, "Coordinator (to be defined)", p.Name)
	assert.Equal(t, "Organization", p.Type)
	assert.Equal(t, domain.RoleCoordinator, p.Role)
	assert.Equal(t, "DE", p.Nation, "nation comes from the DE02 agency code")
}

func TestBootstrap_PlaceholderNationDefaults(t *testing.T) {
	f := newFixture(t)
	f.dest.NationalAgency = ""

	_, err := f.engine.bootstrapper().Ensure(context.Background(), f.dest, alice, "")
	require.NoError(t, err)

	partners, err := f.store.Partners.ListByProject(context.Background(), f.dest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNation, partners[0].Nation)
}

func TestBootstrap_AttachesAffiliation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Uni")
	require.NoError(t, f.store.Affiliations.Create(ctx, &domain.Affiliation{ID: "aff-1", UserID: "alice", OrganizationID: org.ID}))
	p := testutil.NewTestPartner(f.dest.ID, "Uni", domain.RoleCoordinator, testutil.BoundTo(org.ID))
	require.NoError(t, f.store.Partners.Create(ctx, p))

	m, err := f.engine.bootstrapper().Ensure(ctx, f.dest, alice, p.ID)
	require.NoError(t, err)
	require.NotNil(t, m.AffiliationID)
	assert.Equal(t, "aff-1", *m.AffiliationID)
}

func TestBootstrap_ExistingMembershipIsKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.bootstrapper().Ensure(ctx, f.dest, alice, "")
	require.NoError(t, err)
	again, err := f.engine.bootstrapper().Ensure(ctx, f.dest, alice, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	all, err := f.store.Memberships.ListByProject(ctx, f.dest.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// brokenMemberships fails every insert.
type brokenMemberships struct {
	inner interface {
		GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Membership, error)
		ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
	}
}

func (b brokenMemberships) Create(context.Context, *domain.Membership) error {
	return errors.New("membership store unavailable")
}

func (b brokenMemberships) GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Membership, error) {
	return b.inner.GetByProjectAndUser(ctx, projectID, userID)
}

func (b brokenMemberships) ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	return b.inner.ListByProject(ctx, projectID)
}

func TestEngine_MembershipPolicies(t *testing.T) {
	t.Run("lenient keeps the replica and flags the gap", func(t *testing.T) {
		f := newFixture(t)
		f.store.Memberships = brokenMemberships{inner: f.store.Memberships}

		res, err := f.engine.Run(context.Background(), Plan{Project: f.dest, Principal: alice, Source: sampleTree()})
		require.NoError(t, err)
		assert.True(t, res.MembershipGap)
		assert.Nil(t, res.Membership)
		assert.Equal(t, 2, f.read(t).Counts().Sections)
	})

	t.Run("strict fails the run", func(t *testing.T) {
		f := newFixture(t, WithMembershipPolicy(MembershipStrict))
		f.store.Memberships = brokenMemberships{inner: f.store.Memberships}

		_, err := f.engine.Run(context.Background(), Plan{Project: f.dest, Principal: alice, Source: sampleTree()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bootstrapping membership")
	})
}
