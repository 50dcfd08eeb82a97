package testutil

import (
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/google/uuid"
)

// Day builds a UTC date, the resolution every plan date is stored at.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func AsTemplate() ProjectOption {
	return func(p *domain.Project) {
		p.IsTemplate = true
	}
}

func WithAgency(code string) ProjectOption {
	return func(p *domain.Project) {
		p.NationalAgency = code
	}
}

func WithStart(d time.Time, months int) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
		p.DurationMonths = months
	}
}

func WithAcronym(a string) ProjectOption {
	return func(p *domain.Project) {
		p.Acronym = a
	}
}

func NewTestProject(title string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:             uuid.New().String(),
		Title:          title,
		StartDate:      Day(2026, time.January, 1),
		DurationMonths: 24,
		NationalAgency: "IT02",
		Language:       "en",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestSection(projectID, title string, order int) *domain.Section {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Section{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Title:      title,
		OrderIndex: order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WorkItem options
type WorkOption func(*domain.WorkItem)

func InSection(sectionID string) WorkOption {
	return func(w *domain.WorkItem) {
		w.SectionID = &sectionID
	}
}

func WithWorkDates(start, end time.Time) WorkOption {
	return func(w *domain.WorkItem) {
		w.StartDate = start
		w.EndDate = end
	}
}

func WithWorkBudget(b float64) WorkOption {
	return func(w *domain.WorkItem) {
		w.Budget = b
	}
}

func NewTestWorkItem(projectID, title string, opts ...WorkOption) *domain.WorkItem {
	now := time.Now().UTC().Truncate(time.Second)
	w := &domain.WorkItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		StartDate: Day(2026, time.January, 1),
		EndDate:   Day(2027, time.December, 31),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func NewTestTask(workItemID, title string, start time.Time) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Task{
		ID:         uuid.New().String(),
		WorkItemID: workItemID,
		Title:      title,
		StartDate:  start,
		EndDate:    start.AddDate(0, 3, 0),
		Budget:     500,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewTestActivity(taskID, title string, start time.Time) *domain.Activity {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Activity{
		ID:              uuid.New().String(),
		TaskID:          taskID,
		Title:           title,
		EstimatedStart:  start,
		EstimatedEnd:    start.AddDate(0, 1, 0),
		AllocatedAmount: 250,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Module options
type ModuleOption func(*domain.Module)

func WithModuleStatus(s domain.ModuleStatus) ModuleOption {
	return func(m *domain.Module) {
		m.Status = s
	}
}

func WithModuleOrder(i int) ModuleOption {
	return func(m *domain.Module) {
		m.OrderIndex = i
	}
}

func NewTestModule(kind domain.ParentKind, parentID, title string, opts ...ModuleOption) *domain.Module {
	now := time.Now().UTC().Truncate(time.Second)
	m := &domain.Module{
		ID:         uuid.New().String(),
		Parent:     domain.ParentRef{Kind: kind, ID: parentID},
		Title:      title,
		Subtitle:   title + " subtitle",
		Guidelines: "Describe " + title,
		CharLimit:  2000,
		Status:     domain.ModuleTodo,
		Content:    "Draft text for " + title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Partner options
type PartnerOption func(*domain.Partner)

func BoundTo(orgID string) PartnerOption {
	return func(p *domain.Partner) {
		p.OrganizationID = &orgID
	}
}

func WithPartnerBudget(b float64) PartnerOption {
	return func(p *domain.Partner) {
		p.Budget = b
	}
}

func NewTestPartner(projectID, name string, role domain.PartnerRole, opts ...PartnerOption) *domain.Partner {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Partner{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Role:      role,
		Budget:    10000,
		Nation:    "DE",
		City:      "Berlin",
		Type:      "University",
		Email:     "info@example.org",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Organization options
type OrgOption func(*domain.Organization)

func WithNation(n string) OrgOption {
	return func(o *domain.Organization) {
		o.Nation = n
	}
}

func NewTestOrganization(name string, opts ...OrgOption) *domain.Organization {
	now := time.Now().UTC().Truncate(time.Second)
	o := &domain.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		Nation:    "FR",
		City:      "Lyon",
		Type:      "NGO",
		Email:     "contact@example.org",
		Website:   "https://example.org",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
