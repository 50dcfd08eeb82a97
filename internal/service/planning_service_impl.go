package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/replication"
	"github.com/alexanderramin/grantplan/internal/repository"
	"github.com/alexanderramin/grantplan/internal/snapshot"
	"github.com/google/uuid"
)

type planningService struct {
	projects repository.ProjectRepo
	trees    *repository.TreeReader
	uow      db.UnitOfWork
	settings Settings
	hook     CompletionHook
	logger   *slog.Logger
	observer UseCaseObserver
}

// NewPlanningService builds the project use cases. reader serves lookups
// made outside a transaction; every multi-row write goes through uow.
func NewPlanningService(
	reader db.DBTX,
	uow db.UnitOfWork,
	settings Settings,
	hook CompletionHook,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) PlanningService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &planningService{
		projects: repository.NewSQLiteProjectRepo(reader),
		trees:    repository.NewTreeReader(reader),
		uow:      uow,
		settings: settings,
		hook:     hookOrNoop(hook),
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) CreateProject(ctx context.Context, principal domain.Principal, req CreateProjectRequest) (res *CreateProjectResult, err error) {
	const op = "create-project"
	startedAt := time.Now().UTC()
	fields := map[string]any{"template_id": req.TemplateID}
	defer func() { observe(ctx, s.observer, op, startedAt, fields, err) }()

	if err = principal.Validate(); err != nil {
		return nil, fail(CodeUnauthorized, op, "no acting user", err)
	}

	now := startedAt.Truncate(time.Second)
	project := &domain.Project{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(req.Title),
		Acronym:        strings.TrimSpace(req.Acronym),
		StartDate:      req.StartDate,
		DurationMonths: req.DurationMonths,
		NationalAgency: strings.ToUpper(strings.TrimSpace(req.NationalAgency)),
		Language:       strings.TrimSpace(req.Language),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = project.Validate(); err != nil {
		return nil, fail(CodeInvalid, op, "invalid project metadata", err)
	}
	if req.TemplateID == "" && (len(req.Mapping) > 0 || len(req.ExtraOrgs) > 0) {
		return nil, fail(CodeInvalid, op, "partner mapping requires a template", nil)
	}

	var source *domain.ProjectTree
	if req.TemplateID != "" {
		if source, err = s.loadTemplate(ctx, op, req.TemplateID); err != nil {
			return nil, err
		}
	}

	plan := replication.Plan{
		Project:   project,
		Principal: principal,
		Source:    source,
		Mapping:   req.Mapping,
		ExtraOrgs: req.ExtraOrgs,
		Status:    replication.StatusReset,
		Dates:     replication.DatesFromProject,
	}
	var run *replication.Result
	run, err = s.replicateInto(ctx, plan, s.settings.CreateTimeout)
	if err != nil {
		err = txFailure(op, err)
		return nil, err
	}

	fields["project_id"] = project.ID
	fields["seeded"] = run.Seeded
	fields["dropped_links"] = run.DroppedLinks
	fields["membership_gap"] = run.MembershipGap
	countFields(fields, run.Counts)

	s.hook.ProjectReady(ctx, project.ID, ReadyCreated)
	return newCreateResult(project, run), nil
}

func (s *planningService) ImportTree(ctx context.Context, principal domain.Principal, data []byte, asTemplate bool) (res *CreateProjectResult, err error) {
	const op = "import-tree"
	startedAt := time.Now().UTC()
	fields := map[string]any{"as_template": asTemplate, "bytes": len(data)}
	defer func() { observe(ctx, s.observer, op, startedAt, fields, err) }()

	if err = principal.Validate(); err != nil {
		return nil, fail(CodeUnauthorized, op, "no acting user", err)
	}

	var tree *domain.ProjectTree
	if tree, err = snapshot.DecodeAny(data); err != nil {
		err = fail(CodeInvalid, op, "cannot read project tree", err)
		return nil, err
	}

	now := startedAt.Truncate(time.Second)
	project := tree.Project
	project.ID = uuid.New().String()
	project.IsTemplate = asTemplate
	project.CreatedAt = now
	project.UpdatedAt = now

	var run *replication.Result
	run, err = s.replicateInto(ctx, replication.Plan{
		Project:      &project,
		Principal:    principal,
		Source:       tree,
		KeepOrgLinks: true,
		Status:       replication.StatusPreserve,
		Dates:        replication.DatesPreserve,
	}, s.settings.CreateTimeout)
	if err != nil {
		err = txFailure(op, err)
		return nil, err
	}

	fields["project_id"] = project.ID
	countFields(fields, run.Counts)

	s.hook.ProjectReady(ctx, project.ID, ReadyImported)
	return newCreateResult(&project, run), nil
}

// replicateInto inserts plan.Project and replicates into it in one
// transaction.
func (s *planningService) replicateInto(ctx context.Context, plan replication.Plan, timeout time.Duration) (*replication.Result, error) {
	var run *replication.Result
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		engine := replication.NewEngine(replication.NewSQLiteStore(tx), s.logger,
			replication.WithMembershipPolicy(s.settings.MembershipPolicy))
		r, err := engine.Run(ctx, plan)
		if err != nil {
			return err
		}
		run = r
		return nil
	}, db.WithTimeout(timeout))
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *planningService) loadTemplate(ctx context.Context, op, id string) (*domain.ProjectTree, error) {
	tmpl, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, classify(op, "template", err)
	}
	if !tmpl.IsTemplate {
		return nil, fail(CodeNotFound, op, "template not found",
			fmt.Errorf("project %s is not marked as a template", id))
	}
	tree, err := s.trees.Read(ctx, id)
	if err != nil {
		return nil, classify(op, "template", err)
	}
	return tree, nil
}

func newCreateResult(p *domain.Project, run *replication.Result) *CreateProjectResult {
	return &CreateProjectResult{
		Project:       p,
		Counts:        run.Counts,
		DroppedLinks:  run.DroppedLinks,
		Seeded:        run.Seeded,
		Membership:    run.Membership,
		MembershipGap: run.MembershipGap,
	}
}

func (s *planningService) List(ctx context.Context, templatesOnly bool) ([]*domain.Project, error) {
	projects, err := s.projects.List(ctx, templatesOnly)
	if err != nil {
		return nil, classify("list-projects", "projects", err)
	}
	return projects, nil
}

func (s *planningService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, classify("get-project", "project", err)
	}
	return p, nil
}

func (s *planningService) Tree(ctx context.Context, id string) (*domain.ProjectTree, error) {
	tree, err := s.trees.Read(ctx, id)
	if err != nil {
		return nil, classify("project-tree", "project", err)
	}
	return tree, nil
}

// Export renders a project's live tree in the snapshot payload layout, as
// JSON or YAML. The output can be fed back to ImportTree.
func (s *planningService) Export(ctx context.Context, id, format string) ([]byte, error) {
	const op = "export-project"
	tree, err := s.trees.Read(ctx, id)
	if err != nil {
		return nil, classify(op, "project", err)
	}
	var out []byte
	switch strings.ToLower(format) {
	case "", "json":
		out, _, err = snapshot.Encode(tree)
	case "yaml", "yml":
		out, err = snapshot.EncodeYAML(tree, time.Now().UTC())
	default:
		return nil, fail(CodeInvalid, op, fmt.Sprintf("unsupported format %q (want json or yaml)", format), nil)
	}
	if err != nil {
		return nil, fail(CodeInternal, op, "encoding project", err)
	}
	return out, nil
}

func (s *planningService) SetTemplate(ctx context.Context, id string, isTemplate bool) error {
	if err := s.projects.SetTemplate(ctx, id, isTemplate); err != nil {
		return classify("set-template", "project", err)
	}
	return nil
}

func (s *planningService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return classify("delete-project", "project", err)
	}
	return nil
}
