// Package replication copies a normalized project tree into a destination
// project: partners are remapped, every node and module is recreated in a
// fixed order, partner links are restored through the remap table and the
// acting user is given a membership. Every write goes through a Store bound
// to the caller's transaction.
package replication

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
	"github.com/google/uuid"
)

// Store bundles the repositories replication writes through.
type Store struct {
	Sections     repository.SectionRepo
	Works        repository.WorkItemRepo
	Tasks        repository.TaskRepo
	Activities   repository.ActivityRepo
	Modules      repository.ModuleRepo
	Partners     repository.PartnerRepo
	Links        repository.LinkRepo
	Orgs         repository.OrganizationRepo
	Affiliations repository.AffiliationRepo
	Memberships  repository.MembershipRepo
}

// NewSQLiteStore builds a Store whose repositories all share tx.
func NewSQLiteStore(tx db.DBTX) *Store {
	return &Store{
		Sections:     repository.NewSQLiteSectionRepo(tx),
		Works:        repository.NewSQLiteWorkItemRepo(tx),
		Tasks:        repository.NewSQLiteTaskRepo(tx),
		Activities:   repository.NewSQLiteActivityRepo(tx),
		Modules:      repository.NewSQLiteModuleRepo(tx),
		Partners:     repository.NewSQLitePartnerRepo(tx),
		Links:        repository.NewSQLiteLinkRepo(tx),
		Orgs:         repository.NewSQLiteOrganizationRepo(tx),
		Affiliations: repository.NewSQLiteAffiliationRepo(tx),
		Memberships:  repository.NewSQLiteMembershipRepo(tx),
	}
}

// StatusPolicy decides the workflow status of copied modules.
type StatusPolicy int

const (
	// StatusReset sets every copy to todo. Used when cloning a template.
	StatusReset StatusPolicy = iota
	// StatusPreserve keeps the stored status. Used when restoring a snapshot.
	StatusPreserve
)

func (p StatusPolicy) String() string {
	if p == StatusPreserve {
		return "preserve"
	}
	return "reset"
}

// DatePolicy decides the dates of copied work items, tasks and activities.
type DatePolicy int

const (
	// DatesFromProject gives every node the destination project's window.
	DatesFromProject DatePolicy = iota
	// DatesPreserve keeps the per-node dates of the source.
	DatesPreserve
)

func (p DatePolicy) String() string {
	if p == DatesPreserve {
		return "preserve"
	}
	return "project"
}

// MembershipPolicy decides what happens when the acting user cannot be
// given a membership.
type MembershipPolicy int

const (
	// MembershipLenient logs the gap as critical and keeps the replica.
	MembershipLenient MembershipPolicy = iota
	// MembershipStrict fails the run so the caller rolls back.
	MembershipStrict
)

// Plan describes one replication run into an already-created project.
type Plan struct {
	Project   *domain.Project
	Principal domain.Principal

	// Source is the tree to copy. Nil means seed the default structure.
	Source *domain.ProjectTree

	// Mapping binds source partner ids to existing organization ids.
	Mapping map[string]string
	// ExtraOrgs are attached as ordinary partners with no source counterpart.
	ExtraOrgs []string
	// KeepOrgLinks keeps a source partner's organization binding on a
	// verbatim clone when that organization still exists.
	KeepOrgLinks bool

	// Members are memberships that existed before the tree was replaced,
	// bound to PriorPartners. They are rebound onto the new partner set.
	Members       []*domain.Membership
	PriorPartners []*domain.Partner

	Status StatusPolicy
	Dates  DatePolicy
}

// Result summarizes a run.
type Result struct {
	Partners       PartnerMap
	Counts         domain.TreeCounts
	DroppedLinks   int
	Seeded         bool
	CarriedMembers int
	LostMembers    int
	Membership     *domain.Membership
	MembershipGap  bool
}

// Engine wires the copier, remapper, replicator, link restorer, membership
// carrier and bootstrapper over one Store.
type Engine struct {
	store      *Store
	logger     *slog.Logger
	membership MembershipPolicy
	newID      func() string
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMembershipPolicy selects lenient or strict membership handling.
func WithMembershipPolicy(p MembershipPolicy) Option {
	return func(e *Engine) {
		e.membership = p
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(store *Store, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		store:  store,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes plan. The caller owns the transaction; any returned error
// means the caller must roll back.
func (e *Engine) Run(ctx context.Context, plan Plan) (*Result, error) {
	if plan.Project == nil {
		return nil, fmt.Errorf("replication plan has no destination project")
	}
	if err := plan.Principal.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	if plan.Source == nil {
		counts, err := e.SeedDefaults(ctx, plan.Project)
		if err != nil {
			return nil, err
		}
		res.Counts = counts
		res.Seeded = true
	} else {
		remapper := e.remapper(plan.KeepOrgLinks)
		pmap, err := remapper.Remap(ctx, plan.Project.ID, plan.Source.Partners, plan.Mapping, plan.ExtraOrgs)
		if err != nil {
			return nil, fmt.Errorf("remapping partners: %w", err)
		}
		res.Partners = pmap

		replicator := e.replicator(plan.Status, plan.Dates)
		out, err := replicator.Replicate(ctx, plan.Project, plan.Source, pmap)
		if err != nil {
			return nil, err
		}
		res.Counts = out.Counts
		res.Counts.Partners = len(pmap.Created)
		res.DroppedLinks = out.DroppedLinks

		if len(plan.Members) > 0 {
			carried, lost, err := e.carrier().Carry(ctx, plan.Project.ID, plan.Members, plan.PriorPartners, pmap)
			if err != nil {
				return nil, err
			}
			res.CarriedMembers = carried
			res.LostMembers = lost
		}
	}

	m, err := e.bootstrapper().Ensure(ctx, plan.Project, plan.Principal, res.Partners.CoordinatorID)
	if err != nil {
		if e.membership == MembershipStrict {
			return nil, fmt.Errorf("bootstrapping membership: %w", err)
		}
		e.logger.ErrorContext(ctx, "membership bootstrap failed",
			"severity", "critical",
			"project_id", plan.Project.ID,
			"user_id", plan.Principal.UserID,
			"error", err,
		)
		res.MembershipGap = true
		return res, nil
	}
	res.Membership = m
	return res, nil
}

func (e *Engine) copier(policy StatusPolicy) *ModuleCopier {
	return &ModuleCopier{modules: e.store.Modules, policy: policy, newID: e.newID, now: e.now}
}

func (e *Engine) remapper(keepOrgLinks bool) *PartnerRemapper {
	return &PartnerRemapper{
		partners:     e.store.Partners,
		orgs:         e.store.Orgs,
		logger:       e.logger,
		keepOrgLinks: keepOrgLinks,
		newID:        e.newID,
		now:          e.now,
	}
}

func (e *Engine) replicator(status StatusPolicy, dates DatePolicy) *Replicator {
	return &Replicator{
		store:  e.store,
		copier: e.copier(status),
		links:  &LinkRestorer{links: e.store.Links, logger: e.logger, newID: e.newID},
		dates:  dates,
		newID:  e.newID,
		now:    e.now,
	}
}

func (e *Engine) bootstrapper() *Bootstrapper {
	return &Bootstrapper{
		partners:     e.store.Partners,
		affiliations: e.store.Affiliations,
		memberships:  e.store.Memberships,
		newID:        e.newID,
		now:          e.now,
	}
}
