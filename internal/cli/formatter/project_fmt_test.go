package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTree() *domain.ProjectTree {
	return &domain.ProjectTree{
		Project: domain.Project{
			ID: "abcdef12-3456-7890-abcd-ef1234567890", Title: "Youth Skills", Acronym: "YSJ",
			StartDate: day(2026, 1, 1), DurationMonths: 24, NationalAgency: "IT02",
		},
		Modules: []domain.Module{{Title: "Summary", Status: domain.ModuleAuthorized}},
		Sections: []domain.SectionNode{{
			Section: domain.Section{Title: "Relevance"},
			Modules: []domain.Module{{Title: "Needs", Status: domain.ModuleDone}},
			Works: []domain.WorkNode{{
				Work:     domain.WorkItem{Title: "WP1"},
				Partners: []domain.WorkPartner{{PartnerID: "pa"}, {PartnerID: "pb"}},
				Tasks: []domain.TaskNode{{
					Task: domain.Task{Title: "Survey"},
					Activities: []domain.ActivityNode{{
						Activity: domain.Activity{Title: "Design"},
						Modules:  []domain.Module{{Title: "Questionnaire", Status: domain.ModuleUnderReview}},
					}},
				}},
			}},
		}},
		UnassignedWorks: []domain.WorkNode{{Work: domain.WorkItem{Title: "Management"}}},
		Partners: []domain.Partner{
			{ID: "pa", Name: "Alpha", Role: domain.RoleCoordinator, Nation: "IT"},
			{ID: "pb", Name: "Beta", Role: domain.RolePartner, Nation: "ES"},
		},
	}
}

func TestFormatProjectList_UsesAcronymWhenPresent(t *testing.T) {
	projects := []*domain.Project{{
		ID: "12345678-aaaa-bbbb-cccc-1234567890ab", Title: "Youth Skills", Acronym: "YSJ",
		StartDate: day(2026, 1, 1), DurationMonths: 24, IsTemplate: true,
	}}

	out := FormatProjectList(projects)

	assert.Contains(t, out, "YSJ")
	assert.Contains(t, out, "template")
	assert.Contains(t, out, "2026-01-01 → 2028-01-01")
	assert.NotContains(t, out, "12345678")
}

func TestFormatProjectList_FallsBackToUUIDPrefix(t *testing.T) {
	projects := []*domain.Project{{
		ID: "abcdef12-3456-7890-abcd-ef1234567890", Title: "Untitled",
		StartDate: day(2026, 1, 1), DurationMonths: 6,
	}}

	assert.Contains(t, FormatProjectList(projects), "abcdef12")
}

func TestFormatProjectList_Empty(t *testing.T) {
	assert.Contains(t, FormatProjectList(nil), "No projects found.")
}

func TestTreeItems_DepthFirstWithModules(t *testing.T) {
	items := TreeItems(sampleTree())

	titles := make([]string, len(items))
	levels := make([]int, len(items))
	for i, it := range items {
		titles[i] = it.Title
		levels[i] = it.Level
	}
	require.Equal(t, []string{"Summary", "Relevance", "Needs", "WP1", "Survey", "Design", "Questionnaire", "Management"}, titles)
	assert.Equal(t, []int{0, 0, 1, 1, 2, 3, 4, 0}, levels)
	assert.Equal(t, "2 partners", items[3].Detail)
	assert.True(t, items[3].IsLast)
	assert.Equal(t, "under_review", items[6].Status)
	assert.Equal(t, "● UNDER REVIEW", items[6].Pill)
	assert.Empty(t, items[3].Pill, "only modules carry a status pill")
}

func TestFormatProjectTree(t *testing.T) {
	out := FormatProjectTree(sampleTree())

	assert.Contains(t, out, "Youth Skills")
	assert.Contains(t, out, "IT02")
	assert.Contains(t, out, "24 months")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "coordinator")
	assert.Contains(t, out, "Questionnaire ● UNDER REVIEW")
}

func TestFormatCreateResult(t *testing.T) {
	tree := sampleTree()
	out := FormatCreateResult("Created", CreateSummary{
		Project:      &tree.Project,
		Counts:       tree.Counts(),
		DroppedLinks: 2,
		Seeded:       true,
	})

	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "(YSJ)")
	assert.Contains(t, out, "1 section, 2 work packages, 1 task, 1 activity, 3 modules, 2 partners")
	assert.Contains(t, out, "seeded default structure")
	assert.Contains(t, out, "2 partner links dropped")
	assert.NotContains(t, out, "membership")
}
