package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepo_CreateGetList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrganizationRepo(db)
	ctx := context.Background()

	b := testutil.NewTestOrganization("Beta")
	a := testutil.NewTestOrganization("Alpha", testutil.WithNation("ES"))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ES", got.Nation)
	assert.Equal(t, "https://example.org", got.Website)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAffiliationRepo_Find(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	org := testutil.NewTestOrganization("Uni")
	require.NoError(t, NewSQLiteOrganizationRepo(db).Create(ctx, org))

	repo := NewSQLiteAffiliationRepo(db)
	require.NoError(t, repo.Create(ctx, &domain.Affiliation{ID: "a1", UserID: "alice", OrganizationID: org.ID, Position: "PI"}))

	found, err := repo.Find(ctx, "alice", org.ID)
	require.NoError(t, err)
	assert.Equal(t, "PI", found.Position)

	_, err = repo.Find(ctx, "bob", org.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// One affiliation per user and organization.
	assert.Error(t, repo.Create(ctx, &domain.Affiliation{ID: "a2", UserID: "alice", OrganizationID: org.ID}))

	list, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
