package formatter

import (
	"fmt"

	"github.com/alexanderramin/grantplan/internal/domain"
)

// FormatOrganizationList renders the shared organization directory.
func FormatOrganizationList(orgs []*domain.Organization) string {
	if len(orgs) == 0 {
		return Dim("No organizations found.") + "\n"
	}
	cols := append([]Column{{Header: "ID", ID: true, Width: 8}}, Cols("NAME", "NATION", "CITY", "TYPE")...)
	rows := make([][]string, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, []string{
			o.ID,
			Bold(o.Name),
			o.Nation,
			o.City,
			o.Type,
		})
	}
	return RenderBox("Organizations", RenderTable(cols, rows))
}

// FormatAffiliation confirms an affiliation.
func FormatAffiliation(org *domain.Organization, a *domain.Affiliation) string {
	pos := ""
	if a.Position != "" {
		pos = " " + Dim("as "+a.Position)
	}
	return fmt.Sprintf("%s %s %s%s\n", StyleGreen.Render("✔"), a.UserID, Dim("affiliated with")+" "+Bold(org.Name), pos)
}
