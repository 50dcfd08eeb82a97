package service

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
	"github.com/alexanderramin/grantplan/internal/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var alice = domain.Principal{UserID: "alice"}

type mockHook struct {
	mock.Mock
}

func (m *mockHook) ProjectReady(ctx context.Context, projectID string, reason ReadyReason) {
	m.Called(ctx, projectID, reason)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

// stallingUoW holds a successful transaction open until its deadline passes.
type stallingUoW struct {
	inner db.UnitOfWork
}

func (u stallingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error, opts ...db.TxOption) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	}, opts...)
}

// readCountingUoW counts the queries issued through its transactions.
type readCountingUoW struct {
	inner db.UnitOfWork
	reads atomic.Int32
}

func (u *readCountingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error, opts ...db.TxOption) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &readCountingTx{DBTX: tx, reads: &u.reads})
	}, opts...)
}

type readCountingTx struct {
	db.DBTX
	reads *atomic.Int32
}

func (t *readCountingTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	t.reads.Add(1)
	return t.DBTX.QueryContext(ctx, query, args...)
}

func (t *readCountingTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	t.reads.Add(1)
	return t.DBTX.QueryRowContext(ctx, query, args...)
}

type env struct {
	db       *sql.DB
	hook     *mockHook
	observer *recordingObserver
	planning PlanningService
	snaps    SnapshotService
	orgs     OrganizationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newEnvWith(t, database, testutil.NewTestUoW(database), DefaultSettings())
}

func newEnvWith(t *testing.T, database *sql.DB, uow db.UnitOfWork, settings Settings) *env {
	t.Helper()
	e := &env{db: database, hook: &mockHook{}, observer: &recordingObserver{}}
	e.planning = NewPlanningService(database, uow, settings, e.hook, nil, e.observer)
	e.snaps = NewSnapshotService(database, uow, settings, e.hook, nil, e.observer)
	e.orgs = NewOrganizationService(database)
	t.Cleanup(func() { e.hook.AssertExpectations(t) })
	return e
}

func (e *env) expectReady(reason ReadyReason) {
	e.hook.On("ProjectReady", mock.Anything, mock.AnythingOfType("string"), reason).Once()
}

// seeded is a template-shaped project stored through the repositories.
type seeded struct {
	project    *domain.Project
	partnerA   *domain.Partner
	partnerB   *domain.Partner
	section    *domain.Section
	work       *domain.WorkItem
	task       *domain.Task
	activity   *domain.Activity
	taskModule *domain.Module
}

// seedProject stores 1 section > 1 work > 1 task > 1 activity, one module
// per level plus a project module, a coordinator "Org A" and a partner
// "Org B" linked to the work and task.
func seedProject(t *testing.T, database *sql.DB, opts ...testutil.ProjectOption) *seeded {
	t.Helper()
	ctx := context.Background()
	d := testutil.Day

	s := &seeded{project: testutil.NewTestProject("Youth Mobility Template", opts...)}
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, s.project))

	s.partnerA = testutil.NewTestPartner(s.project.ID, "Org A", domain.RoleCoordinator, testutil.WithPartnerBudget(80000))
	s.partnerB = testutil.NewTestPartner(s.project.ID, "Org B", domain.RolePartner)
	partners := repository.NewSQLitePartnerRepo(database)
	require.NoError(t, partners.Create(ctx, s.partnerA))
	require.NoError(t, partners.Create(ctx, s.partnerB))

	s.section = testutil.NewTestSection(s.project.ID, "Relevance", 1)
	require.NoError(t, repository.NewSQLiteSectionRepo(database).Create(ctx, s.section))

	s.work = testutil.NewTestWorkItem(s.project.ID, "WP1 Management",
		testutil.InSection(s.section.ID),
		testutil.WithWorkDates(d(2026, time.February, 1), d(2026, time.December, 31)),
		testutil.WithWorkBudget(12000))
	require.NoError(t, repository.NewSQLiteWorkItemRepo(database).Create(ctx, s.work))

	s.task = testutil.NewTestTask(s.work.ID, "Kick-off", d(2026, time.March, 2))
	require.NoError(t, repository.NewSQLiteTaskRepo(database).Create(ctx, s.task))

	s.activity = testutil.NewTestActivity(s.task.ID, "Partner meeting", d(2026, time.March, 10))
	require.NoError(t, repository.NewSQLiteActivityRepo(database).Create(ctx, s.activity))

	modules := repository.NewSQLiteModuleRepo(database)
	s.taskModule = testutil.NewTestModule(domain.ParentTask, s.task.ID, "Agenda", testutil.WithModuleStatus(domain.ModuleDone))
	for _, m := range []*domain.Module{
		testutil.NewTestModule(domain.ParentProject, s.project.ID, "Summary", testutil.WithModuleStatus(domain.ModuleAuthorized)),
		testutil.NewTestModule(domain.ParentSection, s.section.ID, "Needs analysis"),
		testutil.NewTestModule(domain.ParentWork, s.work.ID, "Management plan", testutil.WithModuleStatus(domain.ModuleUnderReview)),
		s.taskModule,
		testutil.NewTestModule(domain.ParentActivity, s.activity.ID, "Minutes"),
	} {
		require.NoError(t, modules.Create(ctx, m))
	}

	links := repository.NewSQLiteLinkRepo(database)
	require.NoError(t, links.CreateWorkPartner(ctx, &domain.WorkPartner{
		ID: "wl-" + s.work.ID, WorkItemID: s.work.ID, PartnerID: s.partnerA.ID, Role: "lead", Budget: 4000,
	}))
	require.NoError(t, links.CreateTaskPartner(ctx, &domain.TaskPartner{
		ID: "tl-" + s.task.ID, TaskID: s.task.ID, PartnerID: s.partnerB.ID, Role: "support", Budget: 700,
	}))
	return s
}

var countedTables = []string{
	"projects", "organizations", "affiliations", "sections", "work_items", "tasks",
	"activities", "modules", "partners", "work_partners", "task_partners",
	"memberships", "snapshots",
}

func rowCounts(t *testing.T, database *sql.DB) map[string]int {
	t.Helper()
	out := make(map[string]int, len(countedTables))
	for _, table := range countedTables {
		var n int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		out[table] = n
	}
	return out
}

func readTree(t *testing.T, database *sql.DB, projectID string) *domain.ProjectTree {
	t.Helper()
	tree, err := repository.NewTreeReader(database).Read(context.Background(), projectID)
	require.NoError(t, err)
	return tree
}

func createRequest(templateID string) CreateProjectRequest {
	return CreateProjectRequest{
		Title:          "Green Skills for Youth",
		Acronym:        "GSY",
		StartDate:      testutil.Day(2027, time.March, 1),
		DurationMonths: 24,
		NationalAgency: "es01",
		Language:       "es",
		TemplateID:     templateID,
	}
}
