package domain

import "time"

// Partner is a project-scoped participant, optionally backed by an Organization.
type Partner struct {
	ID             string
	ProjectID      string
	OrganizationID *string
	Name           string
	Role           PartnerRole
	Budget         float64
	Nation         string
	City           string
	Type           string
	Email          string
	Phone          string
	Website        string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasOrganization reports whether the partner is bound to a shared Organization.
func (p *Partner) HasOrganization() bool {
	return p.OrganizationID != nil && *p.OrganizationID != ""
}

// Organization is shared across projects.
type Organization struct {
	ID        string
	Name      string
	Nation    string
	City      string
	Type      string
	Email     string
	Phone     string
	Website   string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Affiliation links a user to an Organization.
type Affiliation struct {
	ID             string
	UserID         string
	OrganizationID string
	Position       string
	CreatedAt      time.Time
}

type WorkPartner struct {
	ID         string
	WorkItemID string
	PartnerID  string
	Role       string
	Budget     float64
}

type TaskPartner struct {
	ID        string
	TaskID    string
	PartnerID string
	Role      string
	Budget    float64
}

// Membership ties a user to a project through exactly one partner.
type Membership struct {
	ID            string
	ProjectID     string
	UserID        string
	PartnerID     string
	AffiliationID *string
	Role          MemberRole
	ProjectRole   string
	CreatedAt     time.Time
}
