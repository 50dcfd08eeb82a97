package snapshot

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/pmezard/go-difflib/difflib"
)

// Outline renders the structure of tree as indented, title-only lines in
// replication order. Ids, dates and budgets are left out so that a tree
// and its replica produce the same outline.
func Outline(tree *domain.ProjectTree) []string {
	var lines []string
	add := func(depth int, format string, args ...any) {
		lines = append(lines, strings.Repeat("  ", depth)+fmt.Sprintf(format, args...))
	}
	mods := func(depth int, ms []domain.Module) {
		for _, m := range ms {
			add(depth, "- %s [%s]", m.Title, m.Status)
		}
	}
	var works func(depth int, ws []domain.WorkNode)
	works = func(depth int, ws []domain.WorkNode) {
		for _, w := range ws {
			add(depth, "work: %s", w.Work.Title)
			mods(depth+1, w.Modules)
			for _, t := range w.Tasks {
				add(depth+1, "task: %s", t.Task.Title)
				mods(depth+2, t.Modules)
				for _, a := range t.Activities {
					add(depth+2, "activity: %s", a.Activity.Title)
					mods(depth+3, a.Modules)
				}
			}
		}
	}

	add(0, "project: %s", tree.Project.Title)
	mods(1, tree.Modules)
	for _, s := range tree.Sections {
		add(1, "section: %s", s.Section.Title)
		mods(2, s.Modules)
		works(2, s.Works)
	}
	works(1, tree.UnassignedWorks)
	for _, p := range tree.Partners {
		add(1, "partner: %s (%s)", p.Name, p.Role)
	}
	return lines
}

// Diff returns a unified diff between the outlines of a and b. An empty
// string means the structures match.
func Diff(a, b *domain.ProjectTree, nameA, nameB string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(Outline(a), "\n") + "\n"),
		B:        difflib.SplitLines(strings.Join(Outline(b), "\n") + "\n"),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  2,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diffing outlines: %w", err)
	}
	return out, nil
}
