package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var agencyCodePattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{0,4}$`)

type Project struct {
	ID             string
	Title          string
	Acronym        string
	StartDate      time.Time
	DurationMonths int
	NationalAgency string
	Language       string
	IsTemplate     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EndDate is derived from the start date and the duration in months.
func (p *Project) EndDate() time.Time {
	return p.StartDate.AddDate(0, p.DurationMonths, 0)
}

// Validate checks the metadata required before a project can be persisted.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if p.DurationMonths <= 0 {
		return fmt.Errorf("duration must be a positive number of months, got %d", p.DurationMonths)
	}
	if p.NationalAgency != "" && !agencyCodePattern.MatchString(p.NationalAgency) {
		return fmt.Errorf("national agency %q must start with a two-letter country code (e.g. IT02)", p.NationalAgency)
	}
	return nil
}

// AgencyNation guesses a two-letter nation from the national agency code,
// falling back to DefaultNation.
func (p *Project) AgencyNation() string {
	code := strings.TrimSpace(p.NationalAgency)
	if len(code) < 2 {
		return DefaultNation
	}
	return strings.ToUpper(code[:2])
}

// DisplayID returns the acronym when set, otherwise a truncated ID.
func (p *Project) DisplayID() string {
	if p.Acronym != "" {
		return p.Acronym
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
