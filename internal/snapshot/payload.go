// Package snapshot converts project trees to and from their stored form.
package snapshot

// SchemaVersion is the payload layout written by this package.
const SchemaVersion = 1

// Payload is the stored form of a project tree. Field order is the
// serialization order, which keeps the JSON encoding deterministic.
type Payload struct {
	Meta            Meta         `json:"meta" yaml:"meta"`
	Project         ProjectDoc   `json:"project" yaml:"project"`
	Modules         []ModuleDoc  `json:"modules,omitempty" yaml:"modules,omitempty"`
	Sections        []SectionDoc `json:"sections,omitempty" yaml:"sections,omitempty"`
	UnassignedWorks []WorkDoc    `json:"unassigned_works,omitempty" yaml:"unassigned_works,omitempty"`
	Partners        []PartnerDoc `json:"partners,omitempty" yaml:"partners,omitempty"`
}

type Meta struct {
	SchemaVersion int    `json:"schema_version" yaml:"schema_version"`
	GeneratedAt   string `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
}

type ProjectDoc struct {
	ID             string `json:"id,omitempty" yaml:"id,omitempty"`
	Title          string `json:"title" yaml:"title"`
	Acronym        string `json:"acronym,omitempty" yaml:"acronym,omitempty"`
	StartDate      string `json:"start_date" yaml:"start_date"`
	DurationMonths int    `json:"duration_months" yaml:"duration_months"`
	NationalAgency string `json:"national_agency,omitempty" yaml:"national_agency,omitempty"`
	Language       string `json:"language,omitempty" yaml:"language,omitempty"`
}

type ModuleDoc struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Title      string `json:"title" yaml:"title"`
	Subtitle   string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	OrderIndex int    `json:"order_index" yaml:"order_index"`
	Guidelines string `json:"guidelines,omitempty" yaml:"guidelines,omitempty"`
	CharLimit  int    `json:"char_limit,omitempty" yaml:"char_limit,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
	Content    string `json:"content,omitempty" yaml:"content,omitempty"`
}

type SectionDoc struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty"`
	Title      string      `json:"title" yaml:"title"`
	OrderIndex int         `json:"order_index" yaml:"order_index"`
	Modules    []ModuleDoc `json:"modules,omitempty" yaml:"modules,omitempty"`
	Works      []WorkDoc   `json:"works,omitempty" yaml:"works,omitempty"`
}

type WorkDoc struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	StartDate   string      `json:"start_date" yaml:"start_date"`
	EndDate     string      `json:"end_date" yaml:"end_date"`
	Budget      float64     `json:"budget,omitempty" yaml:"budget,omitempty"`
	Modules     []ModuleDoc `json:"modules,omitempty" yaml:"modules,omitempty"`
	Partners    []LinkDoc   `json:"partners,omitempty" yaml:"partners,omitempty"`
	Tasks       []TaskDoc   `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

type TaskDoc struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	StartDate   string        `json:"start_date" yaml:"start_date"`
	EndDate     string        `json:"end_date" yaml:"end_date"`
	Budget      float64       `json:"budget,omitempty" yaml:"budget,omitempty"`
	Modules     []ModuleDoc   `json:"modules,omitempty" yaml:"modules,omitempty"`
	Partners    []LinkDoc     `json:"partners,omitempty" yaml:"partners,omitempty"`
	Activities  []ActivityDoc `json:"activities,omitempty" yaml:"activities,omitempty"`
}

type ActivityDoc struct {
	ID              string      `json:"id,omitempty" yaml:"id,omitempty"`
	Title           string      `json:"title" yaml:"title"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
	EstimatedStart  string      `json:"estimated_start" yaml:"estimated_start"`
	EstimatedEnd    string      `json:"estimated_end" yaml:"estimated_end"`
	AllocatedAmount float64     `json:"allocated_amount,omitempty" yaml:"allocated_amount,omitempty"`
	Modules         []ModuleDoc `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// LinkDoc is a work- or task-partner association; the owning node is implied
// by nesting.
type LinkDoc struct {
	PartnerID string  `json:"partner_id" yaml:"partner_id"`
	Role      string  `json:"role,omitempty" yaml:"role,omitempty"`
	Budget    float64 `json:"budget,omitempty" yaml:"budget,omitempty"`
}

type PartnerDoc struct {
	ID             string  `json:"id" yaml:"id"`
	OrganizationID string  `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	Name           string  `json:"name" yaml:"name"`
	Role           string  `json:"role" yaml:"role"`
	Budget         float64 `json:"budget,omitempty" yaml:"budget,omitempty"`
	Nation         string  `json:"nation,omitempty" yaml:"nation,omitempty"`
	City           string  `json:"city,omitempty" yaml:"city,omitempty"`
	Type           string  `json:"type,omitempty" yaml:"type,omitempty"`
	Email          string  `json:"email,omitempty" yaml:"email,omitempty"`
	Phone          string  `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website        string  `json:"website,omitempty" yaml:"website,omitempty"`
	Address        string  `json:"address,omitempty" yaml:"address,omitempty"`
}
