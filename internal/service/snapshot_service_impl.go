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

type snapshotService struct {
	projects  repository.ProjectRepo
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	settings  Settings
	hook      CompletionHook
	logger    *slog.Logger
	observer  UseCaseObserver
}

func NewSnapshotService(
	reader db.DBTX,
	uow db.UnitOfWork,
	settings Settings,
	hook CompletionHook,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) SnapshotService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &snapshotService{
		projects:  repository.NewSQLiteProjectRepo(reader),
		snapshots: repository.NewSQLiteSnapshotRepo(reader),
		uow:       uow,
		settings:  settings,
		hook:      hookOrNoop(hook),
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *snapshotService) Create(ctx context.Context, principal domain.Principal, projectID, name string) (snap *domain.Snapshot, err error) {
	const op = "create-snapshot"
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, op, startedAt, fields, err) }()

	if err = principal.Validate(); err != nil {
		return nil, fail(CodeUnauthorized, op, "no acting user", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = startedAt.Format("snapshot-20060102-150405")
	}

	// Reading and storing share one transaction so the payload is a single
	// consistent view of the tree.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tree, err := repository.NewTreeReader(tx).Read(ctx, projectID)
		if err != nil {
			return classify(op, "project", err)
		}
		payload, rev, err := snapshot.EncodeAt(tree, startedAt)
		if err != nil {
			return fail(CodeInternal, op, "encoding snapshot", err)
		}
		snap = &domain.Snapshot{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Name:      name,
			Rev:       rev,
			Payload:   payload,
			CreatedBy: principal.UserID,
			CreatedAt: startedAt.Truncate(time.Second),
		}
		if err := repository.NewSQLiteSnapshotRepo(tx).Create(ctx, snap); err != nil {
			return fmt.Errorf("storing snapshot: %w", err)
		}
		return nil
	}, db.WithTimeout(s.settings.CreateTimeout))
	if err != nil {
		err = txFailure(op, err)
		return nil, err
	}
	fields["snapshot_id"] = snap.ID
	fields["rev"] = snap.Rev
	fields["bytes"] = len(snap.Payload)
	return snap, nil
}

// Restore replaces the live tree of the snapshot's project with the stored
// one. Project metadata is left as it is; on any failure the live tree is
// unchanged.
func (s *snapshotService) Restore(ctx context.Context, principal domain.Principal, snapshotID string) (res *RestoreResult, err error) {
	const op = "restore-snapshot"
	startedAt := time.Now().UTC()
	fields := map[string]any{"snapshot_id": snapshotID}
	defer func() { observe(ctx, s.observer, op, startedAt, fields, err) }()

	if err = principal.Validate(); err != nil {
		return nil, fail(CodeUnauthorized, op, "no acting user", err)
	}

	var snap *domain.Snapshot
	if snap, err = s.snapshots.GetByID(ctx, snapshotID); err != nil {
		err = classify(op, "snapshot", err)
		return nil, err
	}
	fields["project_id"] = snap.ProjectID

	var tree *domain.ProjectTree
	if tree, err = snapshot.Decode(snap.Payload); err != nil {
		err = classify(op, "snapshot", err)
		return nil, err
	}
	var project *domain.Project
	if project, err = s.projects.GetByID(ctx, snap.ProjectID); err != nil {
		err = classify(op, "project", err)
		return nil, err
	}

	var run *replication.Result
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := replication.NewSQLiteStore(tx)
		members, err := store.Memberships.ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("listing memberships: %w", err)
		}
		prior, err := store.Partners.ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("listing partners: %w", err)
		}
		if err := purgeTree(ctx, store, project.ID); err != nil {
			return err
		}
		engine := replication.NewEngine(store, s.logger,
			replication.WithMembershipPolicy(s.settings.MembershipPolicy))
		r, err := engine.Run(ctx, replication.Plan{
			Project:       project,
			Principal:     principal,
			Source:        tree,
			KeepOrgLinks:  true,
			Members:       members,
			PriorPartners: prior,
			Status:        replication.StatusPreserve,
			Dates:         replication.DatesPreserve,
		})
		if err != nil {
			return err
		}
		run = r
		return repository.NewSQLiteProjectRepo(tx).Touch(ctx, project.ID)
	}, db.WithTimeout(s.settings.RestoreTimeout))
	if err != nil {
		err = txFailure(op, err)
		return nil, err
	}

	fields["dropped_links"] = run.DroppedLinks
	fields["membership_gap"] = run.MembershipGap
	fields["carried_members"] = run.CarriedMembers
	fields["lost_members"] = run.LostMembers
	countFields(fields, run.Counts)

	s.hook.ProjectReady(ctx, project.ID, ReadyRestored)
	return &RestoreResult{
		Project:        project,
		Snapshot:       snap,
		Counts:         run.Counts,
		DroppedLinks:   run.DroppedLinks,
		CarriedMembers: run.CarriedMembers,
		LostMembers:    run.LostMembers,
		MembershipGap:  run.MembershipGap,
	}, nil
}

// purgeTree removes every node of a project. Tasks, activities, links and
// node modules go with their parents by cascade. Memberships cascade with
// their partners, so callers list them first and carry them over.
func purgeTree(ctx context.Context, store *replication.Store, projectID string) error {
	if err := store.Modules.DeleteProjectLevel(ctx, projectID); err != nil {
		return fmt.Errorf("purging project modules: %w", err)
	}
	if err := store.Works.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("purging work items: %w", err)
	}
	if err := store.Sections.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("purging sections: %w", err)
	}
	if err := store.Partners.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("purging partners: %w", err)
	}
	return nil
}

func (s *snapshotService) List(ctx context.Context, projectID string) ([]*domain.Snapshot, error) {
	const op = "list-snapshots"
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, classify(op, "project", err)
	}
	snaps, err := s.snapshots.ListByProject(ctx, projectID)
	if err != nil {
		return nil, classify(op, "snapshots", err)
	}
	return snaps, nil
}

func (s *snapshotService) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	snap, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, classify("get-snapshot", "snapshot", err)
	}
	return snap, nil
}

// Export returns the stored payload as JSON, or re-rendered as YAML.
func (s *snapshotService) Export(ctx context.Context, id, format string) ([]byte, error) {
	const op = "export-snapshot"
	snap, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, classify(op, "snapshot", err)
	}
	switch strings.ToLower(format) {
	case "", "json":
		return snap.Payload, nil
	case "yaml", "yml":
		out, err := snapshot.JSONToYAML(snap.Payload)
		if err != nil {
			return nil, classify(op, "snapshot", err)
		}
		return out, nil
	default:
		return nil, fail(CodeInvalid, op, fmt.Sprintf("unsupported format %q (want json or yaml)", format), nil)
	}
}

// Diff compares the outlines of two snapshots.
func (s *snapshotService) Diff(ctx context.Context, a, b string) (string, error) {
	const op = "diff-snapshots"
	ta, na, err := s.decoded(ctx, op, a)
	if err != nil {
		return "", err
	}
	tb, nb, err := s.decoded(ctx, op, b)
	if err != nil {
		return "", err
	}
	out, err := snapshot.Diff(ta, tb, na, nb)
	if err != nil {
		return "", fail(CodeInternal, op, "diffing snapshots", err)
	}
	return out, nil
}

func (s *snapshotService) decoded(ctx context.Context, op, id string) (*domain.ProjectTree, string, error) {
	snap, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, "", classify(op, "snapshot", err)
	}
	tree, err := snapshot.Decode(snap.Payload)
	if err != nil {
		return nil, "", classify(op, "snapshot", err)
	}
	return tree, fmt.Sprintf("%s (%s)", snap.Name, shortRev(snap.Rev)), nil
}

func shortRev(rev string) string {
	rev = strings.TrimPrefix(rev, "sha256:")
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
