package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatSnapshotList(t *testing.T) {
	project := &domain.Project{ID: "p1", Acronym: "YSJ"}
	snaps := []*domain.Snapshot{{
		ID: "5nap0001-aaaa", Name: "before-review", Rev: "sha256:0123456789abcdef",
		CreatedBy: "alice", CreatedAt: time.Now().Add(-2 * time.Hour),
	}}

	out := FormatSnapshotList(project, snaps)

	assert.Contains(t, out, "YSJ")
	assert.Contains(t, out, "before-review")
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abc")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2h ago")
}

func TestFormatSnapshotList_Empty(t *testing.T) {
	assert.Contains(t, FormatSnapshotList(nil, nil), "No snapshots yet.")
}

func TestFormatRestoreResult(t *testing.T) {
	out := FormatRestoreResult(
		&domain.Project{ID: "p1", Acronym: "YSJ"},
		&domain.Snapshot{Name: "v1"},
		domain.TreeCounts{Sections: 1, Partners: 2},
		0, 0, true,
	)

	assert.Contains(t, out, "Restored")
	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "no membership")
	assert.NotContains(t, out, "dropped")
	assert.NotContains(t, out, "carried over")
}

func TestFormatRestoreResult_LostMembers(t *testing.T) {
	out := FormatRestoreResult(
		&domain.Project{ID: "p1", Acronym: "YSJ"},
		&domain.Snapshot{Name: "v1"},
		domain.TreeCounts{},
		2, 1, false,
	)

	assert.Contains(t, out, "2 partner links dropped")
	assert.Contains(t, out, "1 member could not be carried over")
}

func TestColorDiff(t *testing.T) {
	assert.Contains(t, ColorDiff(""), "No differences.")

	out := ColorDiff("--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n")
	assert.Contains(t, out, "-old")
	assert.Contains(t, out, "+new")
}

func TestFormatOrganizationList(t *testing.T) {
	out := FormatOrganizationList([]*domain.Organization{{ID: "org-1", Name: "Alpha", Nation: "IT"}})

	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "IT")
	assert.Contains(t, out, "--")
}
