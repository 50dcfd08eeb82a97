package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects found.") + "\n"
	}

	cols := Cols("ID", "TITLE", "AGENCY", "WINDOW", "KIND")
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.Acronym
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}

		kind := Dim("project")
		if p.IsTemplate {
			kind = StylePurple.Render("template")
		}

		rows = append(rows, []string{
			id,
			Bold(p.Title),
			p.NationalAgency,
			DateRange(p.StartDate, p.EndDate()),
			kind,
		})
	}

	table := RenderTable(cols, rows)
	return RenderBox("Projects", table)
}

// FormatProjectTree renders project metadata beside its plan tree.
func FormatProjectTree(tree *domain.ProjectTree) string {
	left := buildMetadataPanel(tree)
	right := buildTreePanel(tree)

	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(tree *domain.ProjectTree) string {
	p := &tree.Project
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Title) + "\n")
	if p.IsTemplate {
		b.WriteString(StylePurple.Render("template") + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}
	field("ID", p.DisplayID())
	field("UUID", TruncID(p.ID))
	field("START", StyleFg.Render(p.StartDate.Format("2006-01-02")))
	field("LENGTH", StyleFg.Render(Months(p.DurationMonths)))
	if p.NationalAgency != "" {
		field("AGENCY", StyleFg.Render(p.NationalAgency))
	}
	if p.Language != "" {
		field("LANGUAGE", StyleFg.Render(p.Language))
	}

	if len(tree.Partners) > 0 {
		b.WriteString("\n" + StyleHeader.Render("PARTNERS") + "\n")
		for _, pt := range tree.Partners {
			b.WriteString(fmt.Sprintf("%s %s %s\n", RoleBadge(pt.Role), pt.Name, Dim(pt.Nation)))
		}
	}

	return b.String()
}

func buildTreePanel(tree *domain.ProjectTree) string {
	items := TreeItems(tree)
	if len(items) == 0 {
		return Dim("(empty plan)")
	}
	return StyleHeader.Render("PLAN") + "\n" + RenderTree(items)
}

// TreeItems flattens a project tree into display rows. Modules are shown as
// leaves under the node they belong to.
func TreeItems(tree *domain.ProjectTree) []TreeItem {
	var items []TreeItem

	type child struct {
		add func(level int, last bool)
	}

	moduleChildren := func(mods []domain.Module) []child {
		out := make([]child, 0, len(mods))
		for _, m := range mods {
			out = append(out, child{add: func(level int, last bool) {
				items = append(items, TreeItem{
					Title:  m.Title,
					Kind:   "§",
					Level:  level,
					IsLast: last,
					Status: string(m.Status),
					Pill:   ModuleStatusPill(m.Status),
				})
			}})
		}
		return out
	}

	emit := func(level int, children []child) {
		for i, c := range children {
			c.add(level, i == len(children)-1)
		}
	}

	workChildren := func(works []domain.WorkNode) []child {
		out := make([]child, 0, len(works))
		for _, w := range works {
			out = append(out, child{add: func(level int, last bool) {
				items = append(items, TreeItem{
					Title:  w.Work.Title,
					Kind:   "WP",
					Level:  level,
					IsLast: last,
					Detail: linkBadge(len(w.Partners)),
				})
				kids := moduleChildren(w.Modules)
				for _, t := range w.Tasks {
					kids = append(kids, child{add: func(level int, last bool) {
						items = append(items, TreeItem{
							Title:  t.Task.Title,
							Kind:   "task",
							Level:  level,
							IsLast: last,
							Detail: linkBadge(len(t.Partners)),
						})
						tkids := moduleChildren(t.Modules)
						for _, a := range t.Activities {
							tkids = append(tkids, child{add: func(level int, last bool) {
								items = append(items, TreeItem{Title: a.Activity.Title, Kind: "activity", Level: level, IsLast: last})
								emit(level+1, moduleChildren(a.Modules))
							}})
						}
						emit(level+1, tkids)
					}})
				}
				emit(level+1, kids)
			}})
		}
		return out
	}

	roots := moduleChildren(tree.Modules)
	for _, s := range tree.Sections {
		roots = append(roots, child{add: func(level int, last bool) {
			items = append(items, TreeItem{Title: s.Section.Title, Kind: "section", Level: level, IsLast: last})
			emit(level+1, append(moduleChildren(s.Modules), workChildren(s.Works)...))
		}})
	}
	roots = append(roots, workChildren(tree.UnassignedWorks)...)

	for _, r := range roots {
		r.add(0, false)
	}
	return items
}

func linkBadge(n int) string {
	if n == 0 {
		return ""
	}
	return Count(n, "partner")
}

// FormatCounts renders tree totals on one line.
func FormatCounts(c domain.TreeCounts) string {
	return strings.Join([]string{
		Count(c.Sections, "section"),
		Count(c.AssignedWorks+c.UnassignedWorks, "work package"),
		Count(c.Tasks, "task"),
		Count(c.Activities, "activity"),
		Count(c.Modules, "module"),
		Count(c.Partners, "partner"),
	}, ", ")
}

// CreateSummary is what FormatCreateResult needs from a committed create or import.
type CreateSummary struct {
	Project       *domain.Project
	Counts        domain.TreeCounts
	DroppedLinks  int
	Seeded        bool
	MembershipGap bool
}

// FormatCreateResult renders the outcome of a project create or import.
func FormatCreateResult(verb string, s CreateSummary) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ "+verb) + " " + Bold(s.Project.Title) + " " + Dim("("+s.Project.DisplayID()+")") + "\n")
	b.WriteString("  " + Dim(FormatCounts(s.Counts)) + "\n")
	if s.Seeded {
		b.WriteString("  " + Dim("seeded default structure") + "\n")
	}
	if s.DroppedLinks > 0 {
		b.WriteString("  " + StyleYellow.Render(Count(s.DroppedLinks, "partner link")+" dropped (unmapped partners)") + "\n")
	}
	if s.MembershipGap {
		b.WriteString("  " + StyleRed.Render("no membership was recorded for you; check the log") + "\n")
	}
	return b.String()
}
