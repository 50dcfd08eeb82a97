package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleRepo_ParentRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Mods")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	sec := testutil.NewTestSection(proj.ID, "S", 0)
	require.NoError(t, NewSQLiteSectionRepo(db).Create(ctx, sec))

	repo := NewSQLiteModuleRepo(db)
	m := testutil.NewTestModule(domain.ParentSection, sec.ID, "Context",
		testutil.WithModuleStatus(domain.ModuleAuthorized), testutil.WithModuleOrder(3))
	require.NoError(t, repo.Create(ctx, m))

	fetched, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParentRef{Kind: domain.ParentSection, ID: sec.ID}, fetched.Parent)
	assert.Equal(t, domain.ModuleAuthorized, fetched.Status)
	assert.Equal(t, 3, fetched.OrderIndex)
	assert.Equal(t, m.Content, fetched.Content)
	assert.Equal(t, 2000, fetched.CharLimit)
}

func TestModuleRepo_RejectsInvalidParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteModuleRepo(db)

	m := testutil.NewTestModule(domain.ParentKind("budget"), "x", "Bad")
	err := repo.Create(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid module parent kind")
}

func TestModuleRepo_ParentMustExist(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteModuleRepo(db)

	m := testutil.NewTestModule(domain.ParentTask, "no-such-task", "Orphan")
	assert.Error(t, repo.Create(context.Background(), m))
}

func TestModuleRepo_ListByProjectSpansAllLevels(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Levels")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	other := testutil.NewTestProject("Other")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, other))

	wi := testutil.NewTestWorkItem(proj.ID, "WP")
	require.NoError(t, NewSQLiteWorkItemRepo(db).Create(ctx, wi))
	task := testutil.NewTestTask(wi.ID, "T", wi.StartDate)
	require.NoError(t, NewSQLiteTaskRepo(db).Create(ctx, task))

	repo := NewSQLiteModuleRepo(db)
	require.NoError(t, repo.Create(ctx, testutil.NewTestModule(domain.ParentProject, proj.ID, "P")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestModule(domain.ParentWork, wi.ID, "W")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestModule(domain.ParentTask, task.ID, "T")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestModule(domain.ParentProject, other.ID, "Elsewhere")))

	mods, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, mods, 3)

	require.NoError(t, repo.DeleteProjectLevel(ctx, proj.ID))
	mods, err = repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, mods, 2)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
